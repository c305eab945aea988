package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cardchase/location-portal/pkg/enums"
)

// LocationStaff links a user to a location with a role and status.
type LocationStaff struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	LocationID  uuid.UUID         `gorm:"column:location_id;type:uuid;not null;uniqueIndex:location_staff_location_id_user_id_key"`
	UserID      uuid.UUID         `gorm:"column:user_id;type:uuid;not null;uniqueIndex:location_staff_location_id_user_id_key"`
	Role        enums.StaffRole   `gorm:"column:role;not null"`
	CanAddStaff bool              `gorm:"column:can_add_staff;not null;default:false"`
	Status      enums.StaffStatus `gorm:"column:status;not null"`
	InvitedBy   *uuid.UUID        `gorm:"column:invited_by;type:uuid"`
	InvitedAt   *time.Time        `gorm:"column:invited_at"`
	AcceptedAt  *time.Time        `gorm:"column:accepted_at"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (LocationStaff) TableName() string { return "location_staff" }

func (s *LocationStaff) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}
