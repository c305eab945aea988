// Package access derives a partner's portal access state from their location
// application and decides which portal areas they may reach.
package access

import "github.com/cardchase/location-portal/pkg/db/models"

// State is the caller's position in the location application lifecycle.
type State string

const (
	StateIndeterminate   State = "indeterminate"
	StateUnauthenticated State = "unauthenticated"
	StateNeedsIntake     State = "needs-intake"
	StatePending         State = "pending"
	StateApproved        State = "approved"
	StateRejected        State = "rejected"
	// StateError means the location could not be read; it is never a lifecycle outcome.
	StateError State = "error"
)

func (s State) String() string {
	return string(s)
}

// Input is the minimal view of an account and its location record.
type Input struct {
	AccountPresent        bool
	LocationRecordPresent bool
	Verified              bool
	Rejected              bool
	Loading               bool
}

// Resolve maps an input to exactly one state.
func Resolve(in Input) State {
	switch {
	case in.Loading:
		return StateIndeterminate
	case !in.AccountPresent:
		return StateUnauthenticated
	case !in.LocationRecordPresent:
		return StateNeedsIntake
	case in.Verified:
		return StateApproved
	case in.Rejected:
		return StateRejected
	default:
		return StatePending
	}
}

// IsApproved is the approval predicate for a stored location.
func IsApproved(loc *models.Location) bool {
	return loc != nil && (loc.ApplicationApproved || loc.Verified)
}

// RedirectFor returns the portal path a guard sends the caller to.
func RedirectFor(state State) string {
	switch state {
	case StateUnauthenticated:
		return "/login"
	case StateNeedsIntake:
		return "/intake"
	case StatePending, StateRejected:
		return "/pending"
	case StateApproved:
		return "/"
	default:
		return ""
	}
}
