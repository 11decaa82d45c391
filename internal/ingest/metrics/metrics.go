package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the ingest module.
type Metrics struct {
	Ingested           *prometheus.CounterVec
	ValidationFailures prometheus.Counter
	WriteDuration      prometheus.Histogram
}

// New creates and registers all ingest metrics.
func New() *Metrics {
	return &Metrics{
		Ingested: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "eventgate_ingest_requests_total",
			Help: "Ingest outcomes: stored, duplicate, or failed",
		}, []string{"outcome"}),
		ValidationFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "eventgate_ingest_validation_failures_total",
			Help: "Payloads rejected before any write",
		}),
		WriteDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "eventgate_ingest_write_duration_seconds",
			Help:    "Record store write latency",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) ObserveIngest(outcome string) {
	m.Ingested.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveValidationFailure() {
	m.ValidationFailures.Inc()
}

func (m *Metrics) ObserveWriteDuration(d time.Duration) {
	m.WriteDuration.Observe(d.Seconds())
}
