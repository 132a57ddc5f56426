package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsRegistry holds the Prometheus metrics exposed by the server.
type MetricsRegistry struct {
	registry *prometheus.Registry

	ProjectionsTotal   prometheus.Counter
	ProjectionDuration prometheus.Histogram
	SimulationsTotal   *prometheus.CounterVec
	SimulationTrials   prometheus.Counter
	ActiveSimulations  prometheus.Gauge
	RequestsTotal      *prometheus.CounterVec
}

// NewMetricsRegistry creates a registry with all WellRun metrics registered.
func NewMetricsRegistry() *MetricsRegistry {
	m := &MetricsRegistry{
		registry: prometheus.NewRegistry(),

		ProjectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wellrun_projections_total",
			Help: "Total number of deterministic projections evaluated",
		}),

		ProjectionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "wellrun_projection_duration_seconds",
			Help:    "Duration of a single projection evaluation in seconds",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),

		SimulationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wellrun_simulations_total",
			Help: "Total number of Monte Carlo simulations by result",
		}, []string{"result"}),

		SimulationTrials: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wellrun_simulation_trials_total",
			Help: "Total number of completed Monte Carlo trials",
		}),

		ActiveSimulations: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wellrun_active_simulations",
			Help: "Number of Monte Carlo simulations currently running",
		}),

		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wellrun_http_requests_total",
			Help: "Total HTTP requests by route and status code",
		}, []string{"route", "code"}),
	}

	m.registry.MustRegister(
		m.ProjectionsTotal,
		m.ProjectionDuration,
		m.SimulationsTotal,
		m.SimulationTrials,
		m.ActiveSimulations,
		m.RequestsTotal,
	)
	return m
}

// Handler serves the registry in Prometheus exposition format.
func (m *MetricsRegistry) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry for tests.
func (m *MetricsRegistry) Gatherer() prometheus.Gatherer {
	return m.registry
}
