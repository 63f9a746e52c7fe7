// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for the service:
// - Dataset load/refresh outcomes and freshness
// - Metric computation latency per operation and dimension
// - Result cache efficiency
// - API endpoint latency and throughput
// - WebSocket connections
// - Source circuit breaker state

var (
	// Dataset Load Metrics
	LoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dataset_load_duration_seconds",
			Help:    "Duration of dataset loads in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}, // bounded by the source timeout
		},
		[]string{"source"},
	)

	LoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataset_loads_total",
			Help: "Total number of dataset load attempts",
		},
		[]string{"source", "result"}, // result: "success", "source_unavailable", "schema_mismatch", "error"
	)

	LoadLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_load_last_success_timestamp",
			Help: "Unix timestamp of the last successful dataset load",
		},
	)

	DatasetVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_version",
			Help: "Version of the currently served dataset snapshot",
		},
	)

	DatasetRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_records",
			Help: "Number of records in the currently served dataset snapshot",
		},
	)

	DatasetSkippedRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_skipped_rows",
			Help: "Number of source rows excluded by row validation in the current snapshot",
		},
	)

	RefreshThrottled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dataset_refresh_throttled_total",
			Help: "Total number of manual refresh triggers rejected by the minimum interval guard",
		},
	)

	// Computation Metrics
	ComputeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analysis_compute_duration_seconds",
			Help:    "Duration of metric computations in seconds",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		},
		[]string{"operation", "dimension"},
	)

	ComputeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_compute_errors_total",
			Help: "Total number of failed metric computations",
		},
		[]string{"operation", "error_type"}, // error_type: "invalid_filter", "unknown_dimension", "no_data", "other"
	)

	FilteredRecords = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analysis_filtered_records",
			Help:    "Number of records remaining after filter application",
			Buckets: []float64{0, 10, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		},
	)

	// Result Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "result"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions",
		},
		[]string{"cache_type", "reason"}, // reason: "ttl", "version_advance"
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Event Bus Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of events published on the internal bus",
		},
		[]string{"topic"},
	)

	EventsHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_handled_total",
			Help: "Total number of events consumed from the internal bus",
		},
		[]string{"topic", "handler"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordLoad records a dataset load attempt. On success the snapshot gauges
// are updated; on failure only the attempt counter moves so the gauges keep
// describing the snapshot still being served.
func RecordLoad(source string, duration time.Duration, result string, version uint64, records, skipped int) {
	LoadDuration.WithLabelValues(source).Observe(duration.Seconds())
	LoadsTotal.WithLabelValues(source, result).Inc()
	if result == "success" {
		LoadLastSuccess.Set(float64(time.Now().Unix()))
		DatasetVersion.Set(float64(version))
		DatasetRecords.Set(float64(records))
		DatasetSkippedRows.Set(float64(skipped))
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordCompute records a metric computation. Cached results are not recorded
// here; the cache counters cover them.
func RecordCompute(operation, dimension string, duration time.Duration) {
	ComputeDuration.WithLabelValues(operation, dimension).Observe(duration.Seconds())
}

// RecordComputeError records a failed computation by error class.
func RecordComputeError(operation, errorType string) {
	ComputeErrors.WithLabelValues(operation, errorType).Inc()
}

// RecordCacheHit records a cache hit for the given cache type.
func RecordCacheHit(cacheType string) {
	CacheHits.WithLabelValues(cacheType).Inc()
}

// RecordCacheMiss records a cache miss for the given cache type.
func RecordCacheMiss(cacheType string) {
	CacheMisses.WithLabelValues(cacheType).Inc()
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
