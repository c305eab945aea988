package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cardchase/location-portal/pkg/db/models"
	"github.com/cardchase/location-portal/pkg/enums"
)

func TestCapabilitiesForOwner(t *testing.T) {
	caps := CapabilitiesFor(Found(&models.Location{}, nil))
	assert.Equal(t, enums.StaffRoleOwner, caps.Role())
	for _, c := range []Capability{CapabilityViewStaff, CapabilityManageStaff, CapabilityEditProfile, CapabilityManagePlan, CapabilityManageSchedule, CapabilityManageEvents, CapabilityGrantAdmin} {
		assert.True(t, caps.Can(c), "owner should hold %d", c)
	}
	assert.Len(t, caps.Names(), 7)
}

func TestCapabilitiesForStaffWithAddStaff(t *testing.T) {
	caps := CapabilitiesFor(Found(&models.Location{}, &models.LocationStaff{
		Role:        enums.StaffRoleAdmin,
		Status:      enums.StaffStatusActive,
		CanAddStaff: true,
	}))
	assert.True(t, caps.Can(CapabilityManageStaff))
	assert.True(t, caps.Can(CapabilityEditProfile))
	assert.False(t, caps.Can(CapabilityManagePlan))
	assert.False(t, caps.Can(CapabilityGrantAdmin))
	assert.Equal(t, []string{"view_staff", "manage_staff", "edit_profile", "manage_schedule", "manage_events"}, caps.Names())
}

func TestCapabilitiesForPlainStaff(t *testing.T) {
	caps := CapabilitiesFor(Found(&models.Location{}, &models.LocationStaff{
		Role:   enums.StaffRoleStaff,
		Status: enums.StaffStatusActive,
	}))
	assert.True(t, caps.Can(CapabilityViewStaff))
	assert.True(t, caps.Can(CapabilityManageSchedule))
	assert.False(t, caps.Can(CapabilityManageStaff))
	assert.False(t, caps.Can(CapabilityManageEvents))
}

func TestCapabilitiesForInactiveOrMissing(t *testing.T) {
	pending := CapabilitiesFor(Found(&models.Location{}, &models.LocationStaff{
		Role:        enums.StaffRoleAdmin,
		Status:      enums.StaffStatusPending,
		CanAddStaff: true,
	}))
	assert.Empty(t, pending.Names())

	none := CapabilitiesFor(Missing())
	assert.False(t, none.Can(CapabilityViewStaff))
	assert.False(t, none.Can(0))
}
