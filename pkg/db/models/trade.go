package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cardchase/location-portal/pkg/enums"
)

// TradeRequest is the consumer-side agreement between two collectors.
type TradeRequest struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	RequesterID uuid.UUID `gorm:"column:requester_id;type:uuid;not null"`
	CardOwnerID uuid.UUID `gorm:"column:card_owner_id;type:uuid;not null"`
	CardName    *string   `gorm:"column:card_name"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (t *TradeRequest) BeforeCreate(*gorm.DB) error {
	ensureID(&t.ID)
	return nil
}

// TradeSchedule places a trade request at a location on a date and time.
type TradeSchedule struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	TradeRequestID uuid.UUID         `gorm:"column:trade_request_id;type:uuid;not null"`
	LocationID     uuid.UUID         `gorm:"column:location_id;type:uuid;not null;index"`
	SelectedDate   time.Time         `gorm:"column:selected_date;type:date;not null"`
	SelectedTime   *string           `gorm:"column:selected_time"`
	Status         enums.TradeStatus `gorm:"column:status;not null"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (t *TradeSchedule) BeforeCreate(*gorm.DB) error {
	ensureID(&t.ID)
	return nil
}
