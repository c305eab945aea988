package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCronJobMetricsRecordsRuns(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCronJobMetrics(reg)
	m.now = func() time.Time { return time.Unix(1_700_000_000, 0) }

	job := "blocked-time-retention"
	m.ObserveDuration(job, 250*time.Millisecond)
	m.IncSuccess(job)
	m.IncSuccess(job)
	m.IncFailure(job)

	families, err := reg.Gather()
	require.NoError(t, err)

	runs := metricWithLabels(t, families, "portal_cron_job_runs_total", map[string]string{"job": job, "outcome": "success"})
	assert.Equal(t, 2.0, runs.GetCounter().GetValue())
	runs = metricWithLabels(t, families, "portal_cron_job_runs_total", map[string]string{"job": job, "outcome": "failure"})
	assert.Equal(t, 1.0, runs.GetCounter().GetValue())

	hist := metricWithLabels(t, families, "portal_cron_job_duration_seconds", map[string]string{"job": job})
	assert.InDelta(t, 0.25, hist.GetHistogram().GetSampleSum(), 0.001)

	last := metricWithLabels(t, families, "portal_cron_job_last_success_timestamp_seconds", map[string]string{"job": job})
	assert.Equal(t, 1_700_000_000.0, last.GetGauge().GetValue())
}

func TestCronJobMetricsUnknownJobLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCronJobMetrics(reg).IncFailure("")

	families, err := reg.Gather()
	require.NoError(t, err)
	metricWithLabels(t, families, "portal_cron_job_runs_total", map[string]string{"job": "unknown", "outcome": "failure"})
}

func TestCronJobMetricsNilSafe(t *testing.T) {
	var m *CronJobMetrics
	assert.NotPanics(t, func() {
		m.ObserveDuration("job", time.Second)
		m.IncSuccess("job")
		m.IncFailure("job")
	})
}

func metricWithLabels(t *testing.T, families []*dto.MetricFamily, name string, labels map[string]string) *dto.Metric {
	t.Helper()
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			if hasLabels(metric, labels) {
				return metric
			}
		}
	}
	t.Fatalf("metric %s with labels %v not found", name, labels)
	return nil
}

func hasLabels(metric *dto.Metric, want map[string]string) bool {
	matched := 0
	for _, pair := range metric.GetLabel() {
		if v, ok := want[pair.GetName()]; ok && v == pair.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}
