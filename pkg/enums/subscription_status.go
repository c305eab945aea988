package enums

import "fmt"

// SubscriptionStatus records whether a location is on a paid plan.
type SubscriptionStatus string

const (
	SubscriptionStatusFree   SubscriptionStatus = "free"
	SubscriptionStatusActive SubscriptionStatus = "active"
)

var validSubscriptionStatuses = []SubscriptionStatus{
	SubscriptionStatusFree,
	SubscriptionStatusActive,
}

// String implements fmt.Stringer.
func (s SubscriptionStatus) String() string {
	return string(s)
}

// IsValid reports whether the value matches a known SubscriptionStatus.
func (s SubscriptionStatus) IsValid() bool {
	for _, candidate := range validSubscriptionStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// SubscriptionStatusForTier maps a plan tier to its status: tier 0 is free.
func SubscriptionStatusForTier(tier int) SubscriptionStatus {
	if tier <= 0 {
		return SubscriptionStatusFree
	}
	return SubscriptionStatusActive
}

// ParseSubscriptionStatus converts raw input into a SubscriptionStatus.
func ParseSubscriptionStatus(value string) (SubscriptionStatus, error) {
	for _, candidate := range validSubscriptionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid subscription status %q", value)
}
