package acapy

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	CallLatency   *prometheus.HistogramVec
	BreakerOpened prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		CallLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "controller_agent_call_duration_seconds",
			Help:    "Latency of agent admin API calls by operation and outcome",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"operation", "outcome"}),
		BreakerOpened: f.NewCounter(prometheus.CounterOpts{
			Name: "controller_agent_circuit_opened_total",
			Help: "Number of times the agent circuit breaker opened",
		}),
	}
}

func (m *Metrics) observe(op, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.CallLatency.WithLabelValues(op, outcome).Observe(seconds)
}

func (m *Metrics) breakerOpened() {
	if m == nil {
		return
	}
	m.BreakerOpened.Inc()
}
