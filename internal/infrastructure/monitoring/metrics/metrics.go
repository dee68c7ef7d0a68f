// Package metrics exposes the builder's Prometheus instrumentation.  A batch
// run pushes nothing anywhere on its own; the registry is handed to the
// caller, which can serve or push it as deployment dictates.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// namespace prefixes every metric name.
const namespace = "crosswalk"

// Metrics holds all builder metrics.
type Metrics struct {
	registry *prometheus.Registry

	// Ingestion and normalization
	FeaturesLoaded   *prometheus.CounterVec
	FeaturesRepaired *prometheus.CounterVec
	FeaturesExcluded *prometheus.CounterVec

	// Overlay
	UnitsDissolved      *prometheus.CounterVec
	OverlapRecords      *prometheus.CounterVec
	DegeneratePrimaries *prometheus.CounterVec
	OverlayDuration     *prometheus.HistogramVec

	// Output
	TablesWritten *prometheus.CounterVec
}

// DefaultOverlayDurationBuckets spans sub-second toy layers up to
// city-scale runs.
var DefaultOverlayDurationBuckets = []float64{.1, .5, 1, 5, 10, 30, 60, 120, 300, 600}

// New registers all builder metrics on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		FeaturesLoaded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "features_loaded_total",
			Help:      "Features read from input layers.",
		}, []string{"geography"}),
		FeaturesRepaired: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "features_repaired_total",
			Help:      "Features whose geometry needed repair during normalization.",
		}, []string{"geography"}),
		FeaturesExcluded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "features_excluded_total",
			Help:      "Features excluded because repair failed.",
		}, []string{"geography"}),

		UnitsDissolved: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "units_dissolved_total",
			Help:      "Logical units produced by name-key dissolution.",
		}, []string{"geography"}),
		OverlapRecords: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "overlap_records_total",
			Help:      "Qualifying overlap records emitted.",
		}, []string{"primary"}),
		DegeneratePrimaries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degenerate_primaries_total",
			Help:      "Primary units excluded for zero or non-finite area.",
		}, []string{"primary"}),
		OverlayDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "overlay_duration_seconds",
			Help:      "Wall time of one primary geography's overlay pass.",
			Buckets:   DefaultOverlayDurationBuckets,
		}, []string{"primary"}),

		TablesWritten: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tables_written_total",
			Help:      "Output tables written, by kind.",
		}, []string{"kind"}),
	}
}

// Registry returns the registry all builder metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
