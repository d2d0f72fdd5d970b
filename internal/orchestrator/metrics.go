package orchestrator

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the orchestrator-level Prometheus collectors.
type Metrics struct {
	SnapshotsTotal      prometheus.Counter
	AnalysesTotal       prometheus.Counter
	AnalysisErrorsTotal prometheus.Counter
}

// NewMetrics creates and registers the orchestrator metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SnapshotsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ovnsight_snapshots_total",
			Help: "Total number of rule snapshots pushed.",
		}),
		AnalysesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ovnsight_analyses_total",
			Help: "Total number of analysis requests handled.",
		}),
		AnalysisErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ovnsight_analysis_errors_total",
			Help: "Total number of analysis requests that returned an error.",
		}),
	}
	reg.MustRegister(m.SnapshotsTotal, m.AnalysesTotal, m.AnalysisErrorsTotal)
	return m
}
