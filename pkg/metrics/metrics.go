// Package metrics holds the prometheus collectors for scene transitions.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors on a private registry so several scenes
// (and tests) can coexist without duplicate-registration panics.
type Metrics struct {
	Registry    *prometheus.Registry
	Generations prometheus.Counter
	Rejected    *prometheus.CounterVec
	Cubes       prometheus.Gauge
	Duration    prometheus.Histogram
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Generations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "universim_generations_total",
			Help: "Number of subdivision steps applied.",
		}),
		Rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "universim_triggers_rejected_total",
			Help: "Subdivision triggers refused, by reason.",
		}, []string{"reason"}),
		Cubes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "universim_cubes",
			Help: "Number of cubes in the current generation.",
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "universim_subdivide_seconds",
			Help:    "Time spent computing one generation.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
	}
	m.Registry.MustRegister(m.Generations, m.Rejected, m.Cubes, m.Duration)
	return m
}

// ObserveGeneration records a completed subdivision step.
func (m *Metrics) ObserveGeneration(cubes int, took time.Duration) {
	m.Generations.Inc()
	m.Cubes.Set(float64(cubes))
	m.Duration.Observe(took.Seconds())
}

// ObserveRejected records a refused trigger.
func (m *Metrics) ObserveRejected(reason string) {
	m.Rejected.WithLabelValues(reason).Inc()
}
