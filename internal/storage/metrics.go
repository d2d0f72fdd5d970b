package storage

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for store observability.
type Metrics struct {
	AppendsTotal prometheus.Counter // Total points appended
	QueriesTotal prometheus.Counter // Total range queries served
	PurgedTotal  prometheus.Counter // Total points removed by retention
	SeriesGauge  prometheus.Gauge   // Number of known series
}

// NewMetrics creates Prometheus metrics for a store instance. The registerer
// parameter allows flexible registration (global registry, test registry).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	appendsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ovnsight_store_appends_total",
		Help: "Total number of metric points appended to the store",
	})

	queriesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ovnsight_store_queries_total",
		Help: "Total number of range queries served by the store",
	})

	purgedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ovnsight_store_purged_points_total",
		Help: "Total number of points removed by retention sweeps",
	})

	seriesGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ovnsight_store_series",
		Help: "Number of series known to the store",
	})

	reg.MustRegister(appendsTotal)
	reg.MustRegister(queriesTotal)
	reg.MustRegister(purgedTotal)
	reg.MustRegister(seriesGauge)

	return &Metrics{
		AppendsTotal: appendsTotal,
		QueriesTotal: queriesTotal,
		PurgedTotal:  purgedTotal,
		SeriesGauge:  seriesGauge,
	}
}
