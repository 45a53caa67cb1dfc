// Package metrics exposes waypath counters and histograms on a private
// Prometheus registry.
//
// The CLI is short-lived, so nothing is served over HTTP: the registry is
// written in text exposition format with WriteTextfile, suitable for the
// node_exporter textfile collector.
//
// All methods are safe on a nil *Metrics and then do nothing.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "waypath"

// Outcome labels a finished command.
type Outcome string

// Command outcomes.
const (
	OutcomeOK       Outcome = "ok"
	OutcomeRejected Outcome = "rejected" // user-facing error, reported as a message
	OutcomeFailed   Outcome = "failed"   // internal error
)

// Metrics holds every collector of the process.
type Metrics struct {
	reg *prometheus.Registry

	CommandsTotal     *prometheus.CounterVec
	RouteSeconds      prometheus.Histogram
	RouteCostMeters   prometheus.Histogram
	UnreachableRoutes prometheus.Counter
	MapNodes          prometheus.Gauge
	MapEdges          prometheus.Gauge
	MapNames          prometheus.Gauge
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		reg: reg,
		CommandsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "commands_total",
				Help:      "Commands handled by verb and outcome",
			},
			[]string{"command", "outcome"},
		),
		RouteSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "route",
			Name:      "duration_seconds",
			Help:      "Time spent computing a route",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
		RouteCostMeters: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "route",
			Name:      "cost_meters",
			Help:      "Length of reachable routes",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100, 250},
		}),
		UnreachableRoutes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "route",
			Name:      "unreachable_total",
			Help:      "Route requests whose destination was in another island",
		}),
		MapNodes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "map",
			Name:      "nodes",
			Help:      "Live waypoints",
		}),
		MapEdges: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "map",
			Name:      "edges",
			Help:      "Links between waypoints",
		}),
		MapNames: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "map",
			Name:      "names",
			Help:      "Bound waypoint names",
		}),
	}
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}

	return m.reg
}

// RecordCommand counts one handled command.
func (m *Metrics) RecordCommand(command string, outcome Outcome) {
	if m == nil {
		return
	}
	m.CommandsTotal.WithLabelValues(command, string(outcome)).Inc()
}

// ObserveRoute records one route computation.
func (m *Metrics) ObserveRoute(seconds, cost float64, reachable bool) {
	if m == nil {
		return
	}
	m.RouteSeconds.Observe(seconds)
	if !reachable {
		m.UnreachableRoutes.Inc()
		return
	}
	m.RouteCostMeters.Observe(cost)
}

// SetMapSize publishes the current map dimensions.
func (m *Metrics) SetMapSize(nodes, edges, names int) {
	if m == nil {
		return
	}
	m.MapNodes.Set(float64(nodes))
	m.MapEdges.Set(float64(edges))
	m.MapNames.Set(float64(names))
}

// WriteTextfile writes the registry to path atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return fmt.Errorf("metrics: write %s: %w", path, err)
	}

	return nil
}
