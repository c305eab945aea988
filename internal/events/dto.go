package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/cardchase/location-portal/pkg/db/models"
	"github.com/cardchase/location-portal/pkg/enums"
	"github.com/cardchase/location-portal/pkg/timefmt"
)

// CreateInput is a new weekly event. Times accept "7:00 PM" or "19:00".
type CreateInput struct {
	Category  enums.EventCategory
	Day       string
	StartTime string
	EndTime   string
}

type EventDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	RecurrenceDay string    `json:"recurrence_day"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	Subtitle      string    `json:"subtitle"`
	EventDate     string    `json:"event_date"`
	CreatedAt     time.Time `json:"created_at"`
}

// ListResult is the slot view of a location's weekly events.
type ListResult struct {
	Active   []EventDTO `json:"active"`
	Inactive []EventDTO `json:"inactive"`
	Limit    int        `json:"limit"`
	Tier     int        `json:"tier"`
	CanAdd   bool       `json:"can_add"`
}

func toDTO(e models.LocationEvent) EventDTO {
	return EventDTO{
		ID:            e.ID,
		Name:          e.Name,
		Category:      e.Description,
		RecurrenceDay: e.RecurrenceDay,
		StartTime:     timefmt.HHMMOf(e.StartTime),
		EndTime:       timefmt.HHMMOf(e.EndTime),
		Subtitle:      Subtitle(e.RecurrenceDay, e.StartTime, e.EndTime),
		EventDate:     timefmt.FormatDate(e.EventDate),
		CreatedAt:     e.CreatedAt,
	}
}

func toDTOs(list []models.LocationEvent) []EventDTO {
	out := make([]EventDTO, 0, len(list))
	for _, e := range list {
		out = append(out, toDTO(e))
	}
	return out
}
