package observability

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsConfig holds configuration for Prometheus metrics middleware
type MetricsConfig struct {
	// Logger for structured logging
	Logger *slog.Logger

	// Namespace for metrics (e.g. "cheminv")
	Namespace string

	// Buckets for response time histogram
	Buckets []float64

	// SkipPaths defines paths that should not be metered
	SkipPaths []string
}

// Metrics holds Prometheus HTTP metric collectors
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	activeRequests  *prometheus.GaugeVec
}

// DefaultMetricsConfig returns a default metrics configuration
func DefaultMetricsConfig(namespace string) *MetricsConfig {
	return &MetricsConfig{
		Namespace: namespace,
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		SkipPaths: []string{"/metrics", "/health"},
	}
}

// NewMetrics creates and registers Prometheus HTTP metrics
func NewMetrics(config *MetricsConfig) *Metrics {
	if config == nil {
		config = DefaultMetricsConfig("cheminv")
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("initializing prometheus metrics", "namespace", config.Namespace)

	return &Metrics{
		requestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: config.Namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: config.Namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   config.Buckets,
			},
			[]string{"method", "path", "status"},
		),
		activeRequests: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: config.Namespace,
				Subsystem: "http",
				Name:      "requests_active",
				Help:      "Number of active HTTP requests",
			},
			[]string{"method", "path"},
		),
	}
}

// Middleware returns an HTTP middleware that records request metrics
func (m *Metrics) Middleware(config *MetricsConfig) func(next http.Handler) http.Handler {
	skip := map[string]bool{}
	if config != nil {
		for _, p := range config.SkipPaths {
			skip[p] = true
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			m.activeRequests.WithLabelValues(r.Method, r.URL.Path).Inc()
			defer m.activeRequests.WithLabelValues(r.Method, r.URL.Path).Dec()

			start := time.Now()
			wrapped := &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			status := strconv.Itoa(wrapped.statusCode)
			m.requestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
			m.requestDuration.WithLabelValues(r.Method, r.URL.Path, status).Observe(time.Since(start).Seconds())
		})
	}
}

type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *metricsResponseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Handler returns the Prometheus scrape endpoint handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// WorkflowMetrics counts the chemical-registration workflow outcomes.
// Auxiliary-write and upload failures never fail a request, so these
// counters are where those degradations become visible.
type WorkflowMetrics struct {
	RegistryFetches      *prometheus.CounterVec
	SubstancesCreated    prometheus.Counter
	InventoryCreated     prometheus.Counter
	AuxiliaryFailures    *prometheus.CounterVec
	ImageUploadFailures  prometheus.Counter
	ImageURLUpdateErrors prometheus.Counter
}

// NewWorkflowMetrics creates and registers the workflow collectors
func NewWorkflowMetrics(namespace string) *WorkflowMetrics {
	return &WorkflowMetrics{
		RegistryFetches: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "registry",
				Name:      "fetches_total",
				Help:      "Registry lookups by outcome (success, error)",
			},
			[]string{"outcome"},
		),
		SubstancesCreated: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "substances",
				Name:      "created_total",
				Help:      "Substance rows created",
			},
		),
		InventoryCreated: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "inventory",
				Name:      "created_total",
				Help:      "Inventory items created",
			},
		),
		AuxiliaryFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "substances",
				Name:      "auxiliary_insert_failures_total",
				Help:      "Auxiliary collection insert failures by collection",
			},
			[]string{"collection"},
		),
		ImageUploadFailures: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "inventory",
				Name:      "image_upload_failures_total",
				Help:      "Bottle image upload failures",
			},
		),
		ImageURLUpdateErrors: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "inventory",
				Name:      "image_url_update_errors_total",
				Help:      "Failures back-filling image URLs onto inventory rows",
			},
		),
	}
}
