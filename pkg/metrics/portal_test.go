package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortalMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPortalMetrics(reg)

	m.ObserveAccess("approved")
	m.ObserveAccess("approved")
	m.IncCancellation("manual")
	m.IncPushFailure()
	m.ObserveGeocode("")
	m.ObserveReview("reject")

	families, err := reg.Gather()
	require.NoError(t, err)

	counter := func(name, label, value string) float64 {
		return metricWithLabels(t, families, name, map[string]string{label: value}).GetCounter().GetValue()
	}
	assert.Equal(t, 2.0, counter("portal_access_decisions_total", "state", "approved"))
	assert.Equal(t, 1.0, counter("portal_trade_cancellations_total", "source", "manual"))
	assert.Equal(t, 1.0, counter("portal_geocode_results_total", "result", "unknown"))
	assert.Equal(t, 1.0, counter("portal_application_reviews_total", "decision", "reject"))
	assert.Equal(t, 1.0, metricWithLabels(t, families, "portal_push_failures_total", nil).GetCounter().GetValue())
}

func TestPortalMetricsNilSafe(t *testing.T) {
	var m *PortalMetrics
	assert.NotPanics(t, func() {
		m.ObserveAccess("pending")
		m.IncCancellation("manual")
		m.IncPushFailure()
		m.ObserveGeocode("ok")
		m.ObserveReview("approve")
	})
	assert.NotPanics(t, func() {
		NewPortalMetrics(nil).IncPushFailure()
	})
}
