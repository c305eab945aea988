package enums

import "fmt"

// TradeStatus is the status of a scheduled trade at a location.
type TradeStatus string

const (
	TradeStatusConfirmed TradeStatus = "confirmed"
	TradeStatusCancelled TradeStatus = "cancelled"
)

var validTradeStatuses = []TradeStatus{
	TradeStatusConfirmed,
	TradeStatusCancelled,
}

// String implements fmt.Stringer.
func (s TradeStatus) String() string {
	return string(s)
}

// IsValid reports whether the value matches a known TradeStatus.
func (s TradeStatus) IsValid() bool {
	for _, candidate := range validTradeStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseTradeStatus converts raw input into a TradeStatus.
func ParseTradeStatus(value string) (TradeStatus, error) {
	for _, candidate := range validTradeStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid trade status %q", value)
}
