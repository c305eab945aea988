package schedule

import (
	"time"

	"github.com/google/uuid"

	"github.com/cardchase/location-portal/pkg/db/models"
	"github.com/cardchase/location-portal/pkg/enums"
	"github.com/cardchase/location-portal/pkg/timefmt"
)

// TradeRow is a trade schedule joined with its request and both participants.
type TradeRow struct {
	ID                uuid.UUID
	TradeRequestID    uuid.UUID
	LocationID        uuid.UUID
	SelectedDate      time.Time
	SelectedTime      *string
	Status            enums.TradeStatus
	RequesterID       uuid.UUID
	CardOwnerID       uuid.UUID
	CardName          *string
	RequesterUsername *string
	CardOwnerUsername *string
}

// Participants returns both sides of the trade.
func (r TradeRow) Participants() []uuid.UUID {
	return []uuid.UUID{r.RequesterID, r.CardOwnerID}
}

type TradeDTO struct {
	ID        uuid.UUID         `json:"id"`
	Date      string            `json:"date"`
	Time      string            `json:"time"`
	TimeLabel string            `json:"time_label"`
	Status    enums.TradeStatus `json:"status"`
	CardName  *string           `json:"card_name,omitempty"`
	Requester string            `json:"requester"`
	CardOwner string            `json:"card_owner"`
}

func toTradeDTO(row TradeRow) TradeDTO {
	hhmm := ""
	if row.SelectedTime != nil {
		hhmm = timefmt.HHMMOf(*row.SelectedTime)
	}
	return TradeDTO{
		ID:        row.ID,
		Date:      timefmt.FormatDate(row.SelectedDate),
		Time:      hhmm,
		TimeLabel: slotLabel(hhmm),
		Status:    row.Status,
		CardName:  row.CardName,
		Requester: displayName(row.RequesterUsername),
		CardOwner: displayName(row.CardOwnerUsername),
	}
}

func toTradeDTOs(rows []TradeRow) []TradeDTO {
	out := make([]TradeDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toTradeDTO(row))
	}
	return out
}

func displayName(username *string) string {
	if username == nil || *username == "" {
		return "Unknown"
	}
	return *username
}

// BlockInput describes a new blocked period. Empty times with AllDay false are
// rejected.
type BlockInput struct {
	Date            string  `json:"date" validate:"required,isodate"`
	AllDay          bool    `json:"all_day"`
	StartTime       string  `json:"start_time,omitempty"`
	EndTime         string  `json:"end_time,omitempty"`
	Reason          *string `json:"reason,omitempty"`
	CancelConflicts bool    `json:"cancel_conflicts"`
}

type BlockDTO struct {
	ID        uuid.UUID `json:"id"`
	Date      string    `json:"date"`
	AllDay    bool      `json:"all_day"`
	StartTime *string   `json:"start_time,omitempty"`
	EndTime   *string   `json:"end_time,omitempty"`
	Label     string    `json:"label"`
	Reason    *string   `json:"reason,omitempty"`
}

func toBlockDTO(block models.LocationBlockedTime) BlockDTO {
	dto := BlockDTO{
		ID:     block.ID,
		Date:   timefmt.FormatDate(block.Date),
		AllDay: block.AllDay,
		Reason: block.Reason,
		Label:  "All day",
	}
	if block.AllDay || block.StartTime == nil || block.EndTime == nil {
		return dto
	}
	start, end := timefmt.HHMMOf(*block.StartTime), timefmt.HHMMOf(*block.EndTime)
	dto.StartTime, dto.EndTime = &start, &end
	startLabel, err1 := timefmt.To12Hour(start)
	endLabel, err2 := timefmt.To12Hour(end)
	if err1 == nil && err2 == nil {
		dto.Label = startLabel + " - " + endLabel
	}
	return dto
}

// BlockResult is the stored block plus the trades it overlaps.
type BlockResult struct {
	Block     BlockDTO   `json:"block"`
	Conflicts []TradeDTO `json:"conflicts"`
	Cancelled int        `json:"cancelled"`
}
