package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cardchase/location-portal/pkg/enums"
)

// Location is a partner venue and its application record.
type Location struct {
	ID                   uuid.UUID                `gorm:"column:id;type:uuid;primaryKey"`
	OwnerID              uuid.UUID                `gorm:"column:owner_id;type:uuid;not null;uniqueIndex"`
	StoreName            string                   `gorm:"column:store_name;not null"`
	Phone                *string                  `gorm:"column:phone"`
	Email                *string                  `gorm:"column:email"`
	Website              *string                  `gorm:"column:website"`
	Description          *string                  `gorm:"column:description"`
	Address              *string                  `gorm:"column:address"`
	City                 *string                  `gorm:"column:city"`
	State                *string                  `gorm:"column:state"`
	Zip                  *string                  `gorm:"column:zip"`
	Latitude             *float64                 `gorm:"column:latitude"`
	Longitude            *float64                 `gorm:"column:longitude"`
	Hours                map[string]string        `gorm:"column:hours;type:jsonb;serializer:json"`
	SubscriptionTier     int                      `gorm:"column:subscription_tier;not null;default:0"`
	SubscriptionStatus   enums.SubscriptionStatus `gorm:"column:subscription_status;not null;default:'free'"`
	VisibleOnApp         bool                     `gorm:"column:visible_on_app;not null;default:false"`
	Verified             bool                     `gorm:"column:verified;not null;default:false"`
	ApplicationApproved  bool                     `gorm:"column:application_approved;not null;default:false"`
	Rejected             bool                     `gorm:"column:rejected;not null;default:false"`
	RejectionReason      *string                  `gorm:"column:rejection_reason"`
	AdminNotes           *string                  `gorm:"column:admin_notes"`
	SubmittedAt          *time.Time               `gorm:"column:submitted_at"`
	ApplicationUpdatedAt *time.Time               `gorm:"column:application_updated_at"`
	ReviewedAt           *time.Time               `gorm:"column:reviewed_at"`
	ReviewedBy           *uuid.UUID               `gorm:"column:reviewed_by;type:uuid"`
	CreatedAt            time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

func (l *Location) BeforeCreate(*gorm.DB) error {
	ensureID(&l.ID)
	return nil
}

// HoursValue encodes operating hours for map-based column updates, which
// bypass the field serializer.
type HoursValue map[string]string

func (h HoursValue) Value() (driver.Value, error) {
	if h == nil {
		return nil, nil
	}
	raw, err := json.Marshal(map[string]string(h))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}
