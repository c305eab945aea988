// Package timefmt converts between the 24-hour storage forms used in the
// database and the 12-hour labels shown to location staff.
package timefmt

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar-date form used in requests and responses.
const DateLayout = "2006-01-02"

// Weekdays lists day labels Sunday first, matching the schedule week.
var Weekdays = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// Clock is a time of day with minute precision.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock accepts "HH:MM", "HH:MM:SS" or a 12-hour label like "7:30 PM".
func ParseClock(value string) (Clock, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return Clock{}, fmt.Errorf("empty time")
	}
	upper := strings.ToUpper(v)
	if strings.HasSuffix(upper, "AM") || strings.HasSuffix(upper, "PM") {
		return parse12(upper)
	}
	return parse24(v)
}

func parse24(v string) (Clock, error) {
	parts := strings.Split(v, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Clock{}, fmt.Errorf("invalid time %q", v)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return Clock{}, fmt.Errorf("invalid hour in %q", v)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 || len(parts[1]) != 2 {
		return Clock{}, fmt.Errorf("invalid minute in %q", v)
	}
	if len(parts) == 3 {
		if s, err := strconv.Atoi(parts[2]); err != nil || s < 0 || s > 59 {
			return Clock{}, fmt.Errorf("invalid second in %q", v)
		}
	}
	return Clock{Hour: h, Minute: m}, nil
}

func parse12(v string) (Clock, error) {
	period := v[len(v)-2:]
	clock := strings.TrimSpace(v[:len(v)-2])
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return Clock{}, fmt.Errorf("invalid time %q", v)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 1 || h > 12 {
		return Clock{}, fmt.Errorf("invalid hour in %q", v)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 || len(parts[1]) != 2 {
		return Clock{}, fmt.Errorf("invalid minute in %q", v)
	}
	switch {
	case period == "AM" && h == 12:
		h = 0
	case period == "PM" && h != 12:
		h += 12
	}
	return Clock{Hour: h, Minute: m}, nil
}

// HHMM renders the clock as "HH:MM".
func (c Clock) HHMM() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Storage renders the clock as "HH:MM:00".
func (c Clock) Storage() string {
	return c.HHMM() + ":00"
}

// Label renders the clock as a 12-hour label, e.g. "1:30 PM".
func (c Clock) Label() string {
	period := "AM"
	h := c.Hour
	if h >= 12 {
		period = "PM"
	}
	h %= 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, c.Minute, period)
}

// Minutes returns minutes since midnight.
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

// Before reports whether c is strictly earlier than other.
func (c Clock) Before(other Clock) bool {
	return c.Minutes() < other.Minutes()
}

// To12Hour converts "13:30" (or "13:30:00") to "1:30 PM".
func To12Hour(value string) (string, error) {
	c, err := parse24(strings.TrimSpace(value))
	if err != nil {
		return "", err
	}
	return c.Label(), nil
}

// To24Hour converts "1:30 PM" to "13:30".
func To24Hour(value string) (string, error) {
	c, err := ParseClock(value)
	if err != nil {
		return "", err
	}
	return c.HHMM(), nil
}

// ToStorage normalises any accepted time form to "HH:MM:00".
func ToStorage(value string) (string, error) {
	c, err := ParseClock(value)
	if err != nil {
		return "", err
	}
	return c.Storage(), nil
}

// HHMMOf truncates a stored time to "HH:MM"; an empty or malformed value yields "".
func HHMMOf(value string) string {
	c, err := parse24(strings.TrimSpace(value))
	if err != nil {
		return ""
	}
	return c.HHMM()
}

// ParseDate parses a "YYYY-MM-DD" date at UTC midnight.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(value), time.UTC)
}

// DateOf truncates t to UTC midnight of its calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders t as "YYYY-MM-DD".
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// IsWeekday reports whether name is a full English day name.
func IsWeekday(name string) bool {
	for _, day := range Weekdays {
		if day == name {
			return true
		}
	}
	return false
}
