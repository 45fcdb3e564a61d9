// Package metrics provides Prometheus metrics for lookups and generation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Lexicon collectors and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry

	LookupsTotal       *prometheus.CounterVec
	GenerationsTotal   *prometheus.CounterVec
	GenerationDuration *prometheus.HistogramVec
	HTTPRequestsTotal  *prometheus.CounterVec
}

// New creates a registry and registers all collectors on it.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{registry: reg}

	m.LookupsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lexicon_lookups_total",
			Help: "Total number of vocabulary lookups by outcome",
		},
		[]string{"outcome"},
	)

	m.GenerationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lexicon_generations_total",
			Help: "Total number of content generations by result kind",
		},
		[]string{"kind"},
	)

	m.GenerationDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lexicon_generation_duration_seconds",
			Help:    "Duration of content generation in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"kind"},
	)

	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lexicon_http_requests_total",
			Help: "Total number of HTTP API requests",
		},
		[]string{"method", "status"},
	)

	return m
}

// ObserveGeneration records one generation attempt.
func (m *Metrics) ObserveGeneration(kind string, elapsed time.Duration) {
	m.GenerationsTotal.WithLabelValues(kind).Inc()
	m.GenerationDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// ObserveLookup records one finished lookup ("created", "appended" or "failed").
func (m *Metrics) ObserveLookup(outcome string) {
	m.LookupsTotal.WithLabelValues(outcome).Inc()
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(method string, status int) {
	m.HTTPRequestsTotal.WithLabelValues(method, http.StatusText(status)).Inc()
}

// Handler returns the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
