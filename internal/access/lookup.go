package access

import (
	"github.com/cardchase/location-portal/pkg/db/models"
	"github.com/cardchase/location-portal/pkg/enums"
)

// LookupStatus distinguishes an unread record from a missing or unreadable one.
type LookupStatus string

const (
	LookupNotLoaded LookupStatus = "not_loaded"
	LookupFound     LookupStatus = "found"
	LookupMissing   LookupStatus = "missing"
	LookupFailed    LookupStatus = "failed"
)

// LocationLookup is the result of reading the caller's location. Membership is
// nil when the caller owns the location.
type LocationLookup struct {
	Status     LookupStatus
	Location   *models.Location
	Membership *models.LocationStaff
	Err        error
}

func Found(loc *models.Location, membership *models.LocationStaff) LocationLookup {
	return LocationLookup{Status: LookupFound, Location: loc, Membership: membership}
}

func Missing() LocationLookup {
	return LocationLookup{Status: LookupMissing}
}

func Failed(err error) LocationLookup {
	return LocationLookup{Status: LookupFailed, Err: err}
}

// IsOwner reports whether the caller owns the looked-up location.
func (l LocationLookup) IsOwner() bool {
	return l.Status == LookupFound && l.Membership == nil
}

// Role is the caller's role at the location, or "" when there is none.
func (l LocationLookup) Role() enums.StaffRole {
	switch {
	case l.Status != LookupFound:
		return ""
	case l.Membership == nil:
		return enums.StaffRoleOwner
	default:
		return l.Membership.Role
	}
}

// StateFor resolves the lookup for a caller whose account may or may not exist.
func StateFor(accountPresent bool, lookup LocationLookup) State {
	if !accountPresent {
		return StateUnauthenticated
	}
	switch lookup.Status {
	case LookupFailed:
		return StateError
	case LookupMissing:
		return Resolve(Input{AccountPresent: true})
	case LookupFound:
		return Resolve(Input{
			AccountPresent:        true,
			LocationRecordPresent: true,
			Verified:              IsApproved(lookup.Location),
			Rejected:              lookup.Location.Rejected,
		})
	default:
		return Resolve(Input{AccountPresent: true, Loading: true})
	}
}
