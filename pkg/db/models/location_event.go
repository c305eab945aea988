package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LocationEvent is a recurring weekly event. Description holds the category.
type LocationEvent struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	LocationID    uuid.UUID `gorm:"column:location_id;type:uuid;not null;index"`
	Name          string    `gorm:"column:name;not null"`
	Description   string    `gorm:"column:description;not null"`
	EventDate     time.Time `gorm:"column:event_date;type:date;not null"`
	StartTime     string    `gorm:"column:start_time;not null"`
	EndTime       string    `gorm:"column:end_time;not null"`
	IsRecurring   bool      `gorm:"column:is_recurring;not null;default:true"`
	RecurrenceDay string    `gorm:"column:recurrence_day;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (l *LocationEvent) BeforeCreate(*gorm.DB) error {
	ensureID(&l.ID)
	return nil
}
