package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for RunFlow
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Business Metrics
	CheckInsTotal               *prometheus.CounterVec
	AttendanceMatrixBuildsTotal prometheus.Counter
	MirrorPushesTotal           *prometheus.CounterVec
	MirrorPushDuration          prometheus.Histogram
	MirrorQueueDepth            prometheus.Gauge
	SyncJobDuration             *prometheus.HistogramVec
}

// NewMetricsRegistry registers every metric on reg. Main passes
// prometheus.DefaultRegisterer; tests pass a fresh prometheus.NewRegistry().
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)

	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "runflow_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "runflow_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "runflow_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Cache Metrics
		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "runflow_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "runflow_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		// Business Metrics
		CheckInsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "runflow_checkins_total",
				Help: "Check-in attempts by outcome (accepted, rejected, forced) and rejection kind",
			},
			[]string{"outcome", "kind"},
		),
		AttendanceMatrixBuildsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "runflow_attendance_matrix_builds_total",
				Help: "Monthly attendance matrices computed from storage (cache misses)",
			},
		),
		MirrorPushesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "runflow_mirror_pushes_total",
				Help: "Sheet mirror pushes by final status",
			},
			[]string{"status"},
		),
		MirrorPushDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "runflow_mirror_push_duration_seconds",
				Help:    "Sheet mirror push latency in seconds, retries included",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
		),
		MirrorQueueDepth: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "runflow_mirror_queue_depth",
				Help: "Mirror requests waiting in the queue",
			},
		),
		SyncJobDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "runflow_sync_job_duration_seconds",
				Help:    "Scheduled job execution time in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
			},
			[]string{"job_name"},
		),
	}
}
