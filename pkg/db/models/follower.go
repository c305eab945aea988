package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LocationFollower struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	LocationID uuid.UUID `gorm:"column:location_id;type:uuid;not null;index"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (f *LocationFollower) BeforeCreate(*gorm.DB) error {
	ensureID(&f.ID)
	return nil
}

// UserDevice is a push-capable device registered by the consumer app.
type UserDevice struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID            uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	OneSignalPlayerID string    `gorm:"column:onesignal_player_id;not null"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (d *UserDevice) BeforeCreate(*gorm.DB) error {
	ensureID(&d.ID)
	return nil
}
