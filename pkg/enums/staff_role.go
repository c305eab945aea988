package enums

import "fmt"

// StaffRole is a member's role at a location.
type StaffRole string

const (
	StaffRoleOwner StaffRole = "owner"
	StaffRoleAdmin StaffRole = "admin"
	StaffRoleStaff StaffRole = "staff"
)

var validStaffRoles = []StaffRole{
	StaffRoleOwner,
	StaffRoleAdmin,
	StaffRoleStaff,
}

// String implements fmt.Stringer.
func (r StaffRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known StaffRole.
func (r StaffRole) IsValid() bool {
	for _, candidate := range validStaffRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// Rank orders roles for listings: owner, then admin, then staff.
func (r StaffRole) Rank() int {
	switch r {
	case StaffRoleOwner:
		return 0
	case StaffRoleAdmin:
		return 1
	default:
		return 2
	}
}

// ParseStaffRole converts raw input into a StaffRole.
func ParseStaffRole(value string) (StaffRole, error) {
	for _, candidate := range validStaffRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid staff role %q", value)
}
