package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the summary module.
type Metrics struct {
	Runs           *prometheus.CounterVec
	RunDuration    prometheus.Histogram
	RecordsScanned prometheus.Gauge
}

// New creates and registers all summary metrics.
func New() *Metrics {
	return &Metrics{
		Runs: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "eventgate_summary_runs_total",
			Help: "Aggregation runs by outcome",
		}, []string{"outcome"}),
		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "eventgate_summary_run_duration_seconds",
			Help:    "Aggregation run duration",
			Buckets: prometheus.DefBuckets,
		}),
		RecordsScanned: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "eventgate_summary_records_scanned",
			Help: "Records observed by the most recent aggregation run",
		}),
	}
}

func (m *Metrics) ObserveRun(outcome string, d time.Duration) {
	m.Runs.WithLabelValues(outcome).Inc()
	if outcome == "success" {
		m.RunDuration.Observe(d.Seconds())
	}
}

func (m *Metrics) SetRecordsScanned(n int) {
	m.RecordsScanned.Set(float64(n))
}
