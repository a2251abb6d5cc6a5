// Package metrics exposes Prometheus instrumentation for the scan loop.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Set bundles the collectors the watching service reports into.
type Set struct {
	ScansTotal   prometheus.Counter
	ScanDuration prometheus.Histogram
	ChangesTotal *prometheus.CounterVec
	TrackedFiles prometheus.Gauge
}

// NewSet registers the driftwatch collectors on the default registry.
func NewSet() *Set {
	return &Set{
		ScansTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "driftwatch_scans_total",
			Help: "Number of completed scan cycles.",
		}),
		ScanDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "driftwatch_scan_duration_seconds",
			Help:    "Wall time of a full scan cycle.",
			Buckets: prometheus.DefBuckets,
		}),
		ChangesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "driftwatch_changes_total",
			Help: "Change events appended to the log, by kind.",
		}, []string{"kind"}),
		TrackedFiles: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "driftwatch_tracked_files",
			Help: "Files currently tracked by the active watch session.",
		}),
	}
}
