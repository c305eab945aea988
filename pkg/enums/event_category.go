package enums

import "fmt"

// EventCategory is the kind of recurring event a location hosts.
type EventCategory string

const (
	EventCategoryTrade      EventCategory = "trade"
	EventCategoryTournament EventCategory = "tournament"
	EventCategoryCardShow   EventCategory = "card_show"
)

var validEventCategories = []EventCategory{
	EventCategoryTrade,
	EventCategoryTournament,
	EventCategoryCardShow,
}

// String implements fmt.Stringer.
func (c EventCategory) String() string {
	return string(c)
}

// IsValid reports whether the value matches a known EventCategory.
func (c EventCategory) IsValid() bool {
	for _, candidate := range validEventCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// Label is the display word used in generated event names.
func (c EventCategory) Label() string {
	switch c {
	case EventCategoryTrade:
		return "Trade"
	case EventCategoryTournament:
		return "Tournament"
	case EventCategoryCardShow:
		return "Card Show"
	default:
		return ""
	}
}

// ParseEventCategory converts raw input into an EventCategory.
func ParseEventCategory(value string) (EventCategory, error) {
	for _, candidate := range validEventCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event category %q", value)
}
