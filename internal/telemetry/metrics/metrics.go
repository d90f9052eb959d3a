// Package metrics holds the engine's Prometheus instrumentation: counters
// and histograms the jdm façade (Engine.EvaluateDoc) updates per evaluation.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the engine's custom Prometheus series.
type Metrics struct {
	EvaluationsTotal   *prometheus.CounterVec
	EvaluationDuration *prometheus.HistogramVec
	NodesExecutedTotal prometheus.Counter
}

// New creates and registers the engine's metrics against reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EvaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jdm_evaluations_total",
				Help: "Total number of document evaluations by outcome",
			},
			[]string{"outcome"},
		),
		EvaluationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "jdm_evaluation_duration_seconds",
				Help:    "Evaluation wall-clock duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		NodesExecutedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "jdm_nodes_executed_total",
				Help: "Total number of nodes executed across all evaluations",
			},
		),
	}

	reg.MustRegister(m.EvaluationsTotal, m.EvaluationDuration, m.NodesExecutedTotal)
	return m
}
