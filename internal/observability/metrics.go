package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsConfig holds Prometheus metrics configuration.
type MetricsConfig struct {
	Enabled   bool
	Namespace string
}

// Metrics collects Prometheus metrics for the analysis service.
// All recording methods are safe to call on a nil receiver so callers
// that run without metrics do not need to guard every call site.
type Metrics struct {
	enabled  bool
	registry *prometheus.Registry

	requestsTotal      *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	analysesTotal      *prometheus.CounterVec
	analysisDuration   prometheus.Histogram
	simplifierRequests *prometheus.CounterVec
	cacheEvents        *prometheus.CounterVec
}

// NewMetrics creates and registers the service metrics. A nil registry
// creates a fresh one, keeping tests isolated from the global default.
func NewMetrics(cfg MetricsConfig, registry *prometheus.Registry) *Metrics {
	if !cfg.Enabled {
		return nil
	}
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "clauselens"
	}

	m := &Metrics{
		enabled:  true,
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "requests_total",
				Help:      "Total number of HTTP requests processed",
			},
			[]string{"route", "method", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
			[]string{"route"},
		),
		analysesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "analyses_total",
				Help:      "Total number of document analyses by outcome",
			},
			[]string{"overall_risk", "document_type"},
		),
		analysisDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "analysis_duration_seconds",
				Help:      "Duration of a full document analysis in seconds",
				Buckets:   []float64{0.001, 0.005, 0.025, 0.1, 0.5, 2.0, 10.0, 30.0},
			},
		),
		simplifierRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "simplifier_requests_total",
				Help:      "Total number of simplifier collaborator calls by status",
			},
			[]string{"status"},
		),
		cacheEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "cache_events_total",
				Help:      "Analysis cache lookups by result",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.analysesTotal,
		m.analysisDuration,
		m.simplifierRequests,
		m.cacheEvents,
	)

	return m
}

// RecordRequest records a completed HTTP request.
func (m *Metrics) RecordRequest(route, method, status string, duration time.Duration) {
	if m == nil || !m.enabled {
		return
	}
	m.requestsTotal.WithLabelValues(route, method, status).Inc()
	m.requestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordAnalysis records a completed document analysis.
func (m *Metrics) RecordAnalysis(overallRisk, documentType string, duration time.Duration) {
	if m == nil || !m.enabled {
		return
	}
	if documentType == "" {
		documentType = "unspecified"
	}
	m.analysesTotal.WithLabelValues(overallRisk, documentType).Inc()
	m.analysisDuration.Observe(duration.Seconds())
}

// RecordSimplifierCall records the outcome of a simplifier collaborator call.
// Status is one of "success", "degraded", or "error".
func (m *Metrics) RecordSimplifierCall(status string) {
	if m == nil || !m.enabled {
		return
	}
	m.simplifierRequests.WithLabelValues(status).Inc()
}

// RecordCacheHit records an analysis cache hit.
func (m *Metrics) RecordCacheHit() {
	if m == nil || !m.enabled {
		return
	}
	m.cacheEvents.WithLabelValues("hit").Inc()
}

// RecordCacheMiss records an analysis cache miss.
func (m *Metrics) RecordCacheMiss() {
	if m == nil || !m.enabled {
		return
	}
	m.cacheEvents.WithLabelValues("miss").Inc()
}

// Handler returns the HTTP handler serving the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil || !m.enabled {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the Prometheus registry backing these metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}
