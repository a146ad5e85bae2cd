package reconcile

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the reconciler's Prometheus collectors.
//
// Metrics:
//   - shopassist_reconcile_outcomes_total{status,reason}
//   - shopassist_session_captures_total
type Metrics struct {
	Outcomes *prometheus.CounterVec
	Captures prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg yields working collectors that are not exported anywhere.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Outcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shopassist_reconcile_outcomes_total",
				Help: "Total number of reconcile outcomes by status and reason",
			},
			[]string{"status", "reason"},
		),
		Captures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "shopassist_session_captures_total",
				Help: "Total number of auth sessions captured from observed requests",
			},
		),
	}
}

func (m *Metrics) observe(o Outcome) {
	if m == nil {
		return
	}
	m.Outcomes.WithLabelValues(string(o.Status), string(o.Reason)).Inc()
}

func (m *Metrics) captured() {
	if m == nil {
		return
	}
	m.Captures.Inc()
}
