package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LocationBlockedTime marks a date (or a window on it) unavailable for trades.
type LocationBlockedTime struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	LocationID uuid.UUID `gorm:"column:location_id;type:uuid;not null;index"`
	Date       time.Time `gorm:"column:date;type:date;not null"`
	StartTime  *string   `gorm:"column:start_time"`
	EndTime    *string   `gorm:"column:end_time"`
	AllDay     bool      `gorm:"column:all_day;not null;default:false"`
	Reason     *string   `gorm:"column:reason"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (b *LocationBlockedTime) BeforeCreate(*gorm.DB) error {
	ensureID(&b.ID)
	return nil
}
