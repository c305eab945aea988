// Package schedule renders a location's trade week and manages the blocked
// time that keeps trades off the calendar.
package schedule

import (
	"sort"
	"time"

	"github.com/cardchase/location-portal/pkg/db/models"
	"github.com/cardchase/location-portal/pkg/enums"
	"github.com/cardchase/location-portal/pkg/timefmt"
)

const (
	daysPerWeek = 7
	tbdLabel    = "TBD"
	// Trades with no chosen time sort with midnight.
	missingTimeSortKey = "00:00"
)

// WeekStart returns the most recent Sunday on or before anchor, at UTC midnight.
func WeekStart(anchor time.Time) time.Time {
	day := timefmt.DateOf(anchor)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// Navigate moves the week containing anchor by the given number of weeks.
func Navigate(anchor time.Time, weeks int) time.Time {
	return WeekStart(anchor).AddDate(0, 0, daysPerWeek*weeks)
}

// Week is a seven day grid starting on a Sunday.
type Week struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Prev  string `json:"prev"`
	Next  string `json:"next"`
	Days  []Day  `json:"days"`
}

type Day struct {
	Date        string     `json:"date"`
	Weekday     string     `json:"weekday"`
	Blocked     bool       `json:"blocked"`
	BlockReason *string    `json:"block_reason,omitempty"`
	Windows     []BlockDTO `json:"blocked_windows,omitempty"`
	Slots       []TimeSlot `json:"slots"`
	TradeCount  int        `json:"trade_count"`
}

// TimeSlot groups the trades sharing a start time.
type TimeSlot struct {
	Time   string     `json:"time"`
	Label  string     `json:"label"`
	Trades []TradeDTO `json:"trades"`
}

// BuildWeek lays trades and blocked time onto the week containing anchor. A day
// with an all-day block shows only the block; other days list confirmed trades
// grouped by time, earliest first.
func BuildWeek(anchor time.Time, trades []TradeDTO, blocked []models.LocationBlockedTime) Week {
	start := WeekStart(anchor)
	week := Week{
		Start: timefmt.FormatDate(start),
		End:   timefmt.FormatDate(start.AddDate(0, 0, daysPerWeek-1)),
		Prev:  timefmt.FormatDate(Navigate(start, -1)),
		Next:  timefmt.FormatDate(Navigate(start, 1)),
		Days:  make([]Day, 0, daysPerWeek),
	}

	tradesByDate := make(map[string][]TradeDTO)
	for _, trade := range trades {
		if trade.Status != enums.TradeStatusConfirmed {
			continue
		}
		tradesByDate[trade.Date] = append(tradesByDate[trade.Date], trade)
	}
	blocksByDate := make(map[string][]models.LocationBlockedTime)
	for _, block := range blocked {
		key := timefmt.FormatDate(block.Date)
		blocksByDate[key] = append(blocksByDate[key], block)
	}

	for i := 0; i < daysPerWeek; i++ {
		date := start.AddDate(0, 0, i)
		key := timefmt.FormatDate(date)
		day := Day{Date: key, Weekday: timefmt.Weekdays[date.Weekday()], Slots: []TimeSlot{}}

		for _, block := range blocksByDate[key] {
			if block.AllDay {
				day.Blocked = true
				day.BlockReason = block.Reason
				continue
			}
			day.Windows = append(day.Windows, toBlockDTO(block))
		}
		if day.Blocked {
			day.Windows = nil
			week.Days = append(week.Days, day)
			continue
		}

		day.Slots = groupByTime(tradesByDate[key])
		day.TradeCount = len(tradesByDate[key])
		week.Days = append(week.Days, day)
	}
	return week
}

func groupByTime(trades []TradeDTO) []TimeSlot {
	if len(trades) == 0 {
		return []TimeSlot{}
	}
	index := make(map[string]int)
	slots := make([]TimeSlot, 0, len(trades))
	for _, trade := range trades {
		pos, ok := index[trade.Time]
		if !ok {
			pos = len(slots)
			index[trade.Time] = pos
			slots = append(slots, TimeSlot{Time: trade.Time, Label: slotLabel(trade.Time)})
		}
		slots[pos].Trades = append(slots[pos].Trades, trade)
	}
	sort.SliceStable(slots, func(i, j int) bool {
		return sortKey(slots[i].Time) < sortKey(slots[j].Time)
	})
	return slots
}

// sortKey relies on zero-padded 24-hour times comparing correctly as strings.
func sortKey(hhmm string) string {
	if hhmm == "" {
		return missingTimeSortKey
	}
	return hhmm
}

func slotLabel(hhmm string) string {
	if hhmm == "" {
		return tbdLabel
	}
	label, err := timefmt.To12Hour(hhmm)
	if err != nil {
		return tbdLabel
	}
	return label
}
