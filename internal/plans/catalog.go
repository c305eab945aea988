// Package plans holds the subscription tier catalog and per-tier allowances.
package plans

import (
	"slices"

	"github.com/shopspring/decimal"
)

const (
	TierFree     = 0
	TierBasic    = 1
	TierEnhanced = 2
	TierPremium  = 3
)

// tierEventLimits caps recurring events per tier.
var tierEventLimits = map[int]int{
	TierFree:     0,
	TierBasic:    2,
	TierEnhanced: 2,
	TierPremium:  4,
}

// Feature is one row of the plan comparison table. Detail carries the value
// for non-boolean allowances such as "5" or "Unlimited".
type Feature struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Included bool   `json:"included"`
	Detail   string `json:"detail,omitempty"`
}

type Plan struct {
	Tier        int             `json:"tier"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	PriceNote   string          `json:"price_note"`
	Tagline     string          `json:"tagline"`
	Recommended bool            `json:"recommended"`
	EventLimit  int             `json:"event_limit"`
	Features    []Feature       `json:"features"`
}

// PriceLabel renders the price for display, e.g. "$150".
func (p Plan) PriceLabel() string {
	return "$" + p.Price.StringFixed(0)
}

var featureLabels = []struct{ key, label string }{
	{"clickableProfile", "Clickable Profile"},
	{"badge", "Profile Badge"},
	{"searchBoost", "Search Boost"},
	{"shopPhotos", "Shop Photos"},
	{"eventNights", "Weekly Events"},
	{"specialEvents", "Special Events"},
	{"eventPhotos", "Event Photos"},
	{"rsvpTracking", "RSVP Tracking"},
	{"analytics", "Analytics"},
	{"notifyFollowers", "Notify Followers"},
	{"stateAlerts", "State-wide Alerts"},
	{"awardEligible", "Award Eligibility"},
	{"loyaltyProgram", "Loyalty Program"},
}

type featureValue struct {
	included bool
	detail   string
}

var (
	yes = featureValue{included: true}
	no  = featureValue{}
)

// is marks an included allowance with a detail such as "5" or "Unlimited".
func is(detail string) featureValue { return featureValue{included: true, detail: detail} }

// not marks an excluded allowance that still shows a value such as "None".
func not(detail string) featureValue { return featureValue{detail: detail} }

var featureValues = map[int]map[string]featureValue{
	TierFree: {
		"clickableProfile": no, "badge": not("None"), "searchBoost": not("None"), "shopPhotos": not("0"),
		"eventNights": not("0"), "specialEvents": not("0"), "eventPhotos": not("0"), "rsvpTracking": no,
		"analytics": no, "notifyFollowers": no, "stateAlerts": no, "awardEligible": no,
		"loyaltyProgram": no,
	},
	TierBasic: {
		"clickableProfile": yes, "badge": not("None"), "searchBoost": not("None"), "shopPhotos": is("1"),
		"eventNights": is("2"), "specialEvents": not("0"), "eventPhotos": is("3"), "rsvpTracking": yes,
		"analytics": no, "notifyFollowers": no, "stateAlerts": no, "awardEligible": yes,
		"loyaltyProgram": no,
	},
	TierEnhanced: {
		"clickableProfile": yes, "badge": is("Verified"), "searchBoost": is("10 miles"), "shopPhotos": is("5"),
		"eventNights": is("2"), "specialEvents": is("4/year"), "eventPhotos": is("10"), "rsvpTracking": yes,
		"analytics": is("Full dashboard"), "notifyFollowers": is("1x/week"), "stateAlerts": no,
		"awardEligible": yes, "loyaltyProgram": no,
	},
	TierPremium: {
		"clickableProfile": yes, "badge": is("Premium"), "searchBoost": is("30 miles"), "shopPhotos": is("Unlimited"),
		"eventNights": is("4"), "specialEvents": is("10/year"), "eventPhotos": is("Unlimited"), "rsvpTracking": yes,
		"analytics": is("Full + Reports"), "notifyFollowers": is("Unlimited"), "stateAlerts": yes,
		"awardEligible": is("Priority"), "loyaltyProgram": yes,
	},
}

var catalog = []Plan{
	{Tier: TierFree, Name: "Free", Price: decimal.Zero, PriceNote: "forever", Tagline: "Just get listed"},
	{Tier: TierBasic, Name: "Basic", Price: decimal.NewFromInt(50), PriceNote: "/month", Tagline: "Establish your presence"},
	{Tier: TierEnhanced, Name: "Enhanced", Price: decimal.NewFromInt(150), PriceNote: "/month", Tagline: "Stand out and grow", Recommended: true},
	{Tier: TierPremium, Name: "Premium", Price: decimal.NewFromInt(300), PriceNote: "/month", Tagline: "Dominate your state"},
}

func init() {
	for i := range catalog {
		catalog[i].EventLimit = tierEventLimits[catalog[i].Tier]
		catalog[i].Features = buildFeatures(featureValues[catalog[i].Tier])
	}
}

func buildFeatures(values map[string]featureValue) []Feature {
	out := make([]Feature, 0, len(featureLabels))
	for _, fl := range featureLabels {
		v := values[fl.key]
		out = append(out, Feature{Key: fl.key, Label: fl.label, Included: v.included, Detail: v.detail})
	}
	return out
}

// Catalog returns every plan ordered by tier. Callers get their own copies.
func Catalog() []Plan {
	out := make([]Plan, len(catalog))
	for i, p := range catalog {
		out[i] = p.clone()
	}
	return out
}

func (p Plan) clone() Plan {
	p.Features = slices.Clone(p.Features)
	return p
}

// ByTier looks up a plan.
func ByTier(tier int) (Plan, bool) {
	for _, p := range catalog {
		if p.Tier == tier {
			return p.clone(), true
		}
	}
	return Plan{}, false
}

func ValidTier(tier int) bool {
	_, ok := tierEventLimits[tier]
	return ok
}

// EventLimit is the number of recurring events a tier may run. Unknown tiers get none.
func EventLimit(tier int) int {
	return tierEventLimits[tier]
}

// MonthlyDelta is the change in monthly price when moving between tiers.
func MonthlyDelta(from, to int) decimal.Decimal {
	a, _ := ByTier(from)
	b, _ := ByTier(to)
	return b.Price.Sub(a.Price)
}
