package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the access module.
type Metrics struct {
	Decisions *prometheus.CounterVec
}

// New creates and registers all access metrics.
func New() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "eventgate_access_decisions_total",
			Help: "Authorization decisions by outcome and denial reason",
		}, []string{"decision", "reason"}),
	}
}

// ObserveDecision counts one decision. Reason is empty for allows.
func (m *Metrics) ObserveDecision(decision, reason string) {
	m.Decisions.WithLabelValues(decision, reason).Inc()
}
