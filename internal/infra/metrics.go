package infra

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the studio's Prometheus instruments. Each instance owns its
// registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	generations        *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	jobPolls           *prometheus.CounterVec
	historyEntries     prometheus.Gauge
}

// NewMetrics registers all collectors under the given namespace.
func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{registry: reg}

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	m.httpDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	m.generations = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "generations_total",
		Help:      "Generation requests by mode and outcome",
	}, []string{"mode", "outcome"})

	m.generationDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "generation_duration_seconds",
		Help:      "Wall time of a generation including remote polling",
		Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600, 900},
	}, []string{"mode"})

	m.jobPolls = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "job_polls_total",
		Help:      "Remote job status checks by observed status",
	}, []string{"status"})

	m.historyEntries = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "history_entries",
		Help:      "Number of entries currently held in the history",
	})

	return m
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveGeneration records a finished generation attempt.
func (m *Metrics) ObserveGeneration(mode string, err error, d time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.generations.WithLabelValues(mode, outcome).Inc()
	m.generationDuration.WithLabelValues(mode).Observe(d.Seconds())
}

// ObservePoll records a job status observed by the poller.
func (m *Metrics) ObservePoll(status string) {
	if m == nil {
		return
	}
	m.jobPolls.WithLabelValues(status).Inc()
}

// SetHistorySize updates the history gauge.
func (m *Metrics) SetHistorySize(n int) {
	if m == nil {
		return
	}
	m.historyEntries.Set(float64(n))
}

// Registry exposes the underlying registry for tests and custom exporters.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
