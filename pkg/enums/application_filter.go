package enums

import "fmt"

// ApplicationFilter selects which location applications the admin console lists.
type ApplicationFilter string

const (
	ApplicationFilterPending  ApplicationFilter = "pending"
	ApplicationFilterApproved ApplicationFilter = "approved"
	ApplicationFilterRejected ApplicationFilter = "rejected"
	ApplicationFilterAll      ApplicationFilter = "all"
)

var validApplicationFilters = []ApplicationFilter{
	ApplicationFilterPending,
	ApplicationFilterApproved,
	ApplicationFilterRejected,
	ApplicationFilterAll,
}

// String implements fmt.Stringer.
func (f ApplicationFilter) String() string {
	return string(f)
}

// IsValid reports whether the value matches a known ApplicationFilter.
func (f ApplicationFilter) IsValid() bool {
	for _, candidate := range validApplicationFilters {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseApplicationFilter converts raw input into an ApplicationFilter. Empty
// input selects the pending queue.
func ParseApplicationFilter(value string) (ApplicationFilter, error) {
	if value == "" {
		return ApplicationFilterPending, nil
	}
	for _, candidate := range validApplicationFilters {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid application filter %q", value)
}
