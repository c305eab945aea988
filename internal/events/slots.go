package events

import (
	"strings"

	"github.com/cardchase/location-portal/internal/plans"
	"github.com/cardchase/location-portal/pkg/enums"
	"github.com/cardchase/location-portal/pkg/timefmt"
)

// nightStartHour is the first hour whose events are named "Night".
const nightStartHour = 17

// Partition splits events, already in creation order, into the ones that
// count toward the tier's allowance and the overflow left after a downgrade.
func Partition[T any](tier int, events []T) (active, inactive []T) {
	limit := plans.EventLimit(tier)
	if limit > len(events) {
		limit = len(events)
	}
	return events[:limit:limit], events[limit:]
}

// CanCreate reports whether another event fits within the tier's allowance.
func CanCreate(tier, existing int) bool {
	return existing < plans.EventLimit(tier)
}

// EventName derives "{Category} {Day|Night}" from the category and a stored
// or entered start time. An unreadable start time counts as night.
func EventName(category enums.EventCategory, startTime string) string {
	label := category.Label()
	if label == "" {
		label = "Event"
	}
	return label + " " + dayOrNight(startTime)
}

func dayOrNight(startTime string) string {
	c, err := timefmt.ParseClock(startTime)
	if err != nil || c.Hour >= nightStartHour {
		return "Night"
	}
	return "Day"
}

// Subtitle renders "Thursdays, 7:00 PM - 10:00 PM".
func Subtitle(day, startTime, endTime string) string {
	var b strings.Builder
	b.WriteString(day)
	b.WriteString("s, ")
	b.WriteString(label(startTime))
	b.WriteString(" - ")
	b.WriteString(label(endTime))
	return b.String()
}

func label(value string) string {
	c, err := timefmt.ParseClock(value)
	if err != nil {
		return ""
	}
	return c.Label()
}
