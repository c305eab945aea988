package access

import (
	"github.com/cardchase/location-portal/pkg/enums"
)

// Capability is a single permission within a location.
type Capability uint16

const (
	CapabilityViewStaff Capability = 1 << iota
	CapabilityManageStaff
	CapabilityEditProfile
	CapabilityManagePlan
	CapabilityManageSchedule
	CapabilityManageEvents
	// CapabilityGrantAdmin lets the holder promote staff; only owners have it.
	CapabilityGrantAdmin
)

var capabilityNames = []struct {
	cap  Capability
	name string
}{
	{CapabilityViewStaff, "view_staff"},
	{CapabilityManageStaff, "manage_staff"},
	{CapabilityEditProfile, "edit_profile"},
	{CapabilityManagePlan, "manage_plan"},
	{CapabilityManageSchedule, "manage_schedule"},
	{CapabilityManageEvents, "manage_events"},
	{CapabilityGrantAdmin, "grant_admin"},
}

const ownerCapabilities = CapabilityViewStaff | CapabilityManageStaff | CapabilityEditProfile |
	CapabilityManagePlan | CapabilityManageSchedule | CapabilityManageEvents | CapabilityGrantAdmin

// Capabilities is the caller's permission set at their location.
type Capabilities struct {
	set  Capability
	role enums.StaffRole
}

// CapabilitiesFor derives the permission set from a location lookup.
func CapabilitiesFor(lookup LocationLookup) Capabilities {
	if lookup.Status != LookupFound {
		return Capabilities{}
	}
	if lookup.IsOwner() {
		return Capabilities{set: ownerCapabilities, role: enums.StaffRoleOwner}
	}

	m := lookup.Membership
	if m.Status != enums.StaffStatusActive {
		return Capabilities{role: m.Role}
	}
	set := CapabilityViewStaff | CapabilityManageSchedule
	if m.CanAddStaff {
		set |= CapabilityManageStaff | CapabilityEditProfile | CapabilityManageEvents
	}
	return Capabilities{set: set, role: m.Role}
}

func (c Capabilities) Can(cap Capability) bool {
	return cap != 0 && c.set&cap == cap
}

func (c Capabilities) Role() enums.StaffRole {
	return c.role
}

// Names lists granted capabilities in a stable order.
func (c Capabilities) Names() []string {
	names := make([]string, 0, len(capabilityNames))
	for _, entry := range capabilityNames {
		if c.Can(entry.cap) {
			names = append(names, entry.name)
		}
	}
	return names
}
