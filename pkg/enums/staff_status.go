package enums

import "fmt"

// StaffStatus captures the lifecycle of a location staff membership.
type StaffStatus string

const (
	StaffStatusActive  StaffStatus = "active"
	StaffStatusPending StaffStatus = "pending"
	StaffStatusRemoved StaffStatus = "removed"
)

var validStaffStatuses = []StaffStatus{
	StaffStatusActive,
	StaffStatusPending,
	StaffStatusRemoved,
}

// VisibleStaffStatuses are the statuses shown on the staff roster.
var VisibleStaffStatuses = []StaffStatus{StaffStatusActive, StaffStatusPending}

// String implements fmt.Stringer.
func (s StaffStatus) String() string {
	return string(s)
}

// IsValid reports whether the value matches a known StaffStatus.
func (s StaffStatus) IsValid() bool {
	for _, candidate := range validStaffStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStaffStatus converts raw input into a StaffStatus.
func ParseStaffStatus(value string) (StaffStatus, error) {
	for _, candidate := range validStaffStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid staff status %q", value)
}
