// Package metrics exposes probe activity as Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics implements mxprobe.Observer.
type Metrics struct {
	verdicts *prometheus.CounterVec
	attempts *prometheus.CounterVec
	faults   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New registers the collectors on reg. Use a fresh registry per test.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		verdicts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mxprobe_verdicts_total",
				Help: "Verification results by final status",
			},
			[]string{"status"},
		),
		attempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mxprobe_smtp_attempts_total",
				Help: "SMTP session attempts by outcome (exists, does_not_exist, temp_fail, fault)",
			},
			[]string{"outcome"},
		),
		faults: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mxprobe_smtp_faults_total",
				Help: "SMTP session faults by error kind",
			},
			[]string{"kind"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mxprobe_verification_duration_seconds",
				Help:    "Time from request start to verdict",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20, 40},
			},
			[]string{"status"},
		),
	}
}

// ObserveAttempt records one session attempt. kind is empty unless outcome is "fault".
func (m *Metrics) ObserveAttempt(outcome, kind string) {
	m.attempts.WithLabelValues(outcome).Inc()
	if kind != "" {
		m.faults.WithLabelValues(kind).Inc()
	}
}

// ObserveVerdict records one final result.
func (m *Metrics) ObserveVerdict(status string, elapsed time.Duration) {
	m.verdicts.WithLabelValues(status).Inc()
	m.duration.WithLabelValues(status).Observe(elapsed.Seconds())
}
