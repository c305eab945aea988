package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PortalMetrics counts partner portal outcomes. A nil receiver records nothing.
type PortalMetrics struct {
	accessDecisions *prometheus.CounterVec
	cancellations   *prometheus.CounterVec
	pushFailures    prometheus.Counter
	geocodeResults  *prometheus.CounterVec
	reviews         *prometheus.CounterVec
}

// NewPortalMetrics registers the portal counters on reg.
func NewPortalMetrics(reg prometheus.Registerer) *PortalMetrics {
	if reg == nil {
		return &PortalMetrics{}
	}
	m := &PortalMetrics{
		accessDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_access_decisions_total",
			Help: "Access state resolved for gated requests.",
		}, []string{"state"}),
		cancellations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_trade_cancellations_total",
			Help: "Trades cancelled by a location.",
		}, []string{"source"}),
		pushFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portal_push_failures_total",
			Help: "Push notifications that could not be delivered.",
		}),
		geocodeResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_geocode_results_total",
			Help: "Address geocoding attempts by result.",
		}, []string{"result"}),
		reviews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_application_reviews_total",
			Help: "Admin decisions on location applications.",
		}, []string{"decision"}),
	}
	reg.MustRegister(m.accessDecisions, m.cancellations, m.pushFailures, m.geocodeResults, m.reviews)
	return m
}

func (m *PortalMetrics) ObserveAccess(state string) {
	if m == nil || m.accessDecisions == nil {
		return
	}
	m.accessDecisions.WithLabelValues(normalizeLabel(state)).Inc()
}

// IncCancellation counts a cancelled trade; source is "manual" or "blocked_time".
func (m *PortalMetrics) IncCancellation(source string) {
	if m == nil || m.cancellations == nil {
		return
	}
	m.cancellations.WithLabelValues(normalizeLabel(source)).Inc()
}

func (m *PortalMetrics) IncPushFailure() {
	if m == nil || m.pushFailures == nil {
		return
	}
	m.pushFailures.Inc()
}

// ObserveGeocode counts a lookup; result is "ok", "no_match" or "error".
func (m *PortalMetrics) ObserveGeocode(result string) {
	if m == nil || m.geocodeResults == nil {
		return
	}
	m.geocodeResults.WithLabelValues(normalizeLabel(result)).Inc()
}

func (m *PortalMetrics) ObserveReview(decision string) {
	if m == nil || m.reviews == nil {
		return
	}
	m.reviews.WithLabelValues(normalizeLabel(decision)).Inc()
}
