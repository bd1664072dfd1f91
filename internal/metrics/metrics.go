// Package metrics provides Prometheus metrics for the market value dashboard.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"market-value-dashboard/internal/config"
)

// Fetch outcomes used as the "outcome" label.
const (
	OutcomeSuccess = "success"
	OutcomeRetry   = "retry"
	OutcomeFailure = "failure"
)

// Manager owns the collectors and the registry they are registered on.
// A nil *Manager is valid and records nothing.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	sourceFetches  *prometheus.CounterVec
	fetchLatency   *prometheus.HistogramVec
	sourceRows     *prometheus.GaugeVec
	recordsLoaded  prometheus.Gauge
	loadDuration   prometheus.Gauge
	httpRequests   *prometheus.CounterVec
	httpDurationMs *prometheus.HistogramVec
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithSubsystem sets the subsystem for all metrics.
func WithSubsystem(subsystem string) Option {
	return func(m *Manager) {
		if subsystem != "" {
			m.subsystem = subsystem
		}
	}
}

// WithHistogramBuckets sets custom buckets for the latency histograms.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = buckets
		}
	}
}

// NewManager creates a metrics manager. Each manager gets its own registry,
// so tests can build as many as they like.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "market_value",
		subsystem:        "dashboard",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	auto := promauto.With(m.registry)

	m.sourceFetches = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "source_fetches_total",
		Help:      "Source download attempts by source and outcome",
	}, []string{"source", "outcome"})

	m.fetchLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "source_fetch_seconds",
		Help:      "Time spent downloading a source, retries included",
		Buckets:   m.histogramBuckets,
	}, []string{"source"})

	m.sourceRows = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "source_rows",
		Help:      "Rows decoded from each source",
	}, []string{"source"})

	m.recordsLoaded = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "player_records",
		Help:      "Player records held by the store",
	})

	m.loadDuration = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "load_duration_seconds",
		Help:      "Duration of the startup load and join",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status code",
	}, []string{"endpoint", "method", "status_code"})

	m.httpDurationMs = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method"})

	return m
}

// NewManagerFromConfig creates a metrics manager with the naming and
// buckets of the metrics config section. Empty fields keep the defaults.
func NewManagerFromConfig(cfg *config.Metrics) *Manager {
	return NewManager(
		WithNamespace(cfg.Namespace),
		WithSubsystem(cfg.Subsystem),
		WithHistogramBuckets(cfg.Buckets),
	)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordFetch counts one fetch attempt.
func (m *Manager) RecordFetch(source, outcome string) {
	if m == nil {
		return
	}
	m.sourceFetches.WithLabelValues(source, outcome).Inc()
}

// ObserveFetchDuration records the total time spent on one source.
func (m *Manager) ObserveFetchDuration(source string, d time.Duration) {
	if m == nil {
		return
	}
	m.fetchLatency.WithLabelValues(source).Observe(d.Seconds())
}

// SetSourceRows records the decoded row count for a source.
func (m *Manager) SetSourceRows(source string, rows int) {
	if m == nil {
		return
	}
	m.sourceRows.WithLabelValues(source).Set(float64(rows))
}

// SetRecordsLoaded records the size of the joined store and how long the load took.
func (m *Manager) SetRecordsLoaded(records int, took time.Duration) {
	if m == nil {
		return
	}
	m.recordsLoaded.Set(float64(records))
	m.loadDuration.Set(took.Seconds())
}

// RecordHTTPRequest counts one served request.
func (m *Manager) RecordHTTPRequest(endpoint, method string, status int, took time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, strconv.Itoa(status)).Inc()
	m.httpDurationMs.WithLabelValues(endpoint, method).Observe(float64(took.Milliseconds()))
}
