package timefmt

import (
	"fmt"
	"strings"
)

// ClosedLabel is stored for days the location does not open.
const ClosedLabel = "Closed"

// DayHours is one weekday's schedule in 24-hour "HH:MM" form.
type DayHours struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	Closed bool   `json:"closed"`
}

// DefaultHours is used when a location has never saved its hours.
func DefaultHours() map[string]DayHours {
	hours := make(map[string]DayHours, len(Weekdays))
	for _, day := range []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"} {
		hours[day] = DayHours{Open: "09:00", Close: "17:00"}
	}
	hours["Saturday"] = DayHours{Open: "10:00", Close: "16:00"}
	hours["Sunday"] = DayHours{Open: "12:00", Close: "16:00", Closed: true}
	return hours
}

// FormatHoursRange renders a day as "9:00 AM - 5:00 PM" or "Closed".
func FormatHoursRange(day DayHours) (string, error) {
	if day.Closed {
		return ClosedLabel, nil
	}
	open, err := ParseClock(day.Open)
	if err != nil {
		return "", fmt.Errorf("open: %w", err)
	}
	closeAt, err := ParseClock(day.Close)
	if err != nil {
		return "", fmt.Errorf("close: %w", err)
	}
	if !open.Before(closeAt) {
		return "", fmt.Errorf("open %s must be before close %s", open.HHMM(), closeAt.HHMM())
	}
	return open.Label() + " - " + closeAt.Label(), nil
}

// ParseHoursRange is the inverse of FormatHoursRange.
func ParseHoursRange(value string) (DayHours, error) {
	v := strings.TrimSpace(value)
	if strings.EqualFold(v, ClosedLabel) {
		return DayHours{Closed: true}, nil
	}
	parts := strings.Split(v, " - ")
	if len(parts) != 2 {
		return DayHours{}, fmt.Errorf("invalid hours range %q", value)
	}
	open, err := ParseClock(parts[0])
	if err != nil {
		return DayHours{}, err
	}
	closeAt, err := ParseClock(parts[1])
	if err != nil {
		return DayHours{}, err
	}
	return DayHours{Open: open.HHMM(), Close: closeAt.HHMM()}, nil
}

// EncodeHours converts a weekly schedule into the stored label map. Missing
// days are filled from DefaultHours.
func EncodeHours(week map[string]DayHours) (map[string]string, error) {
	defaults := DefaultHours()
	out := make(map[string]string, len(Weekdays))
	for day := range week {
		if !IsWeekday(day) {
			return nil, fmt.Errorf("unknown day %q", day)
		}
	}
	for _, day := range Weekdays {
		entry, ok := week[day]
		if !ok {
			entry = defaults[day]
		}
		label, err := FormatHoursRange(entry)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", day, err)
		}
		out[day] = label
	}
	return out, nil
}

// DecodeHours converts stored labels back into a weekly schedule. Closed days
// keep the default open/close so the form shows sensible values on re-open.
func DecodeHours(stored map[string]string) map[string]DayHours {
	week := DefaultHours()
	for day, label := range stored {
		if !IsWeekday(day) {
			continue
		}
		parsed, err := ParseHoursRange(label)
		if err != nil {
			continue
		}
		if parsed.Closed {
			entry := week[day]
			entry.Closed = true
			week[day] = entry
			continue
		}
		week[day] = parsed
	}
	return week
}
