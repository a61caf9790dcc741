// Package metrics defines the Prometheus collectors exported by the HTTP
// API, following the client_golang idiom of package level collectors;
// Register adds them to a caller-supplied registry (the API server's own,
// not the default one).
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// SolvesTotal counts completed solve requests by driver and outcome.
	SolvesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mapfcbs_solves_total",
		Help: "Number of CBS solve attempts, labeled by driver and outcome.",
	}, []string{"driver", "outcome"})

	// SolveDurationSeconds observes wall-clock solve time by driver.
	SolveDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mapfcbs_solve_duration_seconds",
		Help:    "Wall-clock time spent inside Solve, labeled by driver.",
		Buckets: prometheus.DefBuckets,
	}, []string{"driver"})

	// NodesExpandedTotal accumulates high-level nodes expanded across all
	// solves, labeled by driver.
	NodesExpandedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mapfcbs_nodes_expanded_total",
		Help: "Total CBS high-level nodes expanded, labeled by driver.",
	}, []string{"driver"})

	// ActiveSolves gauges solves currently in flight.
	ActiveSolves = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mapfcbs_active_solves",
		Help: "Number of solve requests currently being processed.",
	})
)

// Register adds every collector in this package to reg.
func Register(reg *prometheus.Registry) {
	reg.MustRegister(SolvesTotal, SolveDurationSeconds, NodesExpandedTotal, ActiveSolves)
}
