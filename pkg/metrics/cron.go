package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

// CronJobMetrics records maintenance job runs. A nil receiver records nothing.
type CronJobMetrics struct {
	duration    *prometheus.HistogramVec
	runs        *prometheus.CounterVec
	lastSuccess *prometheus.GaugeVec
	now         func() time.Time
}

func NewCronJobMetrics(reg prometheus.Registerer) *CronJobMetrics {
	m := &CronJobMetrics{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_cron_job_duration_seconds",
			Help:    "Duration of portal maintenance jobs in seconds.",
			Buckets: []float64{0.05, 0.25, 1, 5, 15, 60, 300},
		}, []string{"job"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_cron_job_runs_total",
			Help: "Portal maintenance job runs by outcome.",
		}, []string{"job", "outcome"}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "portal_cron_job_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run per job.",
		}, []string{"job"}),
		now: time.Now,
	}
	if reg != nil {
		reg.MustRegister(m.duration, m.runs, m.lastSuccess)
	}
	return m
}

func (m *CronJobMetrics) ObserveDuration(job string, duration time.Duration) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(job)).Observe(duration.Seconds())
}

func (m *CronJobMetrics) IncSuccess(job string) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(normalizeLabel(job), outcomeSuccess).Inc()
	m.lastSuccess.WithLabelValues(normalizeLabel(job)).Set(float64(m.now().Unix()))
}

func (m *CronJobMetrics) IncFailure(job string) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(normalizeLabel(job), outcomeFailure).Inc()
}

func normalizeLabel(job string) string {
	if job == "" {
		return "unknown"
	}
	return job
}
