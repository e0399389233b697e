// Package metrics provides Prometheus metrics for the Auxcord analytics service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Ingestion metrics - the poller redelivers, so duplicates and invalid
	// records are expected and tracked separately.
	eventsIngested  prometheus.Counter
	eventsDuplicate prometheus.Counter
	eventsInvalid   prometheus.Counter

	// Analytics query metrics
	analyticsQueries       *prometheus.CounterVec
	analyticsQueryDuration *prometheus.HistogramVec
	analyticsErrors        *prometheus.CounterVec

	// Queue metrics
	queueSize              prometheus.Gauge
	queueCapacity          prometheus.Gauge
	queueUtilization       prometheus.Gauge
	queueEnqueueRate       prometheus.Counter
	queueDequeueRate       prometheus.Counter
	queueEnqueueErrors     prometheus.Counter
	queueProcessingLatency prometheus.Histogram

	// Worker metrics
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Store metrics
	storeQueryLatency prometheus.Histogram
	storeWriteLatency prometheus.Histogram
	trackedGroups     prometheus.Gauge
	trackedReactions  prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
	errorsByComponent   *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "auxcord",
		subsystem:        "analytics",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.eventsIngested = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_ingested_total",
		Help:      "Total number of reaction events accepted for processing.",
	})
	m.eventsDuplicate = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_duplicate_total",
		Help:      "Total number of redelivered reaction events dropped by the deduper.",
	})
	m.eventsInvalid = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_invalid_total",
		Help:      "Total number of reaction events excluded for missing timestamps or negative latency.",
	})

	m.analyticsQueries = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queries_total",
		Help:      "Total number of analytics queries by view.",
	}, []string{"view"})
	m.analyticsQueryDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "query_duration_ms",
		Help:      "Analytics query duration in milliseconds by view.",
		Buckets:   m.histogramBuckets,
	}, []string{"view"})
	m.analyticsErrors = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "query_errors_total",
		Help:      "Total number of analytics query errors by view and kind.",
	}, []string{"view", "kind"})

	m.queueSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_size",
		Help:      "Current number of reaction events waiting in the ingest queue.",
	})
	m.queueCapacity = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_capacity",
		Help:      "Configured capacity of the ingest queue.",
	})
	m.queueUtilization = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_utilization",
		Help:      "Ingest queue utilization ratio (0-1).",
	})
	m.queueEnqueueRate = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueue_total",
		Help:      "Total number of events enqueued.",
	})
	m.queueDequeueRate = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_dequeue_total",
		Help:      "Total number of events dequeued.",
	})
	m.queueEnqueueErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueue_errors_total",
		Help:      "Total number of rejected enqueue attempts (full or closed queue).",
	})
	m.queueProcessingLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_processing_latency_ms",
		Help:      "Enqueue latency in milliseconds.",
		Buckets:   m.histogramBuckets,
	})

	m.workerActiveCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_active_count",
		Help:      "Number of active ingest workers.",
	})
	m.workerProcessingLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_processing_latency_ms",
		Help:      "Per-event ingest processing latency in milliseconds.",
		Buckets:   m.histogramBuckets,
	})
	m.workerErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_errors_total",
		Help:      "Total number of ingest worker errors.",
	})

	m.storeQueryLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_query_latency_ms",
		Help:      "Event store read latency in milliseconds.",
		Buckets:   m.histogramBuckets,
	})
	m.storeWriteLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_write_latency_ms",
		Help:      "Event store write latency in milliseconds.",
		Buckets:   m.histogramBuckets,
	})
	m.trackedGroups = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tracked_groups",
		Help:      "Number of groups in the event store.",
	})
	m.trackedReactions = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tracked_reactions",
		Help:      "Number of reaction events in the event store.",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by endpoint, method and status code.",
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request duration in milliseconds.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
	m.errorsByEndpoint = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_endpoint_total",
		Help:      "Total errors by endpoint, method and error type.",
	}, []string{"endpoint", "method", "error_type"})
	m.errorsByComponent = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_component_total",
		Help:      "Total errors by component and reason.",
	}, []string{"component", "reason"})

	m.systemMemoryUsage = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Current allocated heap memory in bytes.",
	})
	m.systemGoroutineCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines.",
	})
	m.systemGCPauseTime = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_ms",
		Help:      "Average GC pause time in milliseconds.",
		Buckets:   m.histogramBuckets,
	})
}

// GetRegistry returns the custom Prometheus registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers operating on the global manager.

func RecordEventIngested()  { globalManager.eventsIngested.Inc() }
func RecordEventDuplicate() { globalManager.eventsDuplicate.Inc() }
func RecordEventInvalid()   { globalManager.eventsInvalid.Inc() }

func RecordAnalyticsQuery(view string) { globalManager.analyticsQueries.WithLabelValues(view).Inc() }

func RecordAnalyticsQueryDuration(view string, ms float64) {
	globalManager.analyticsQueryDuration.WithLabelValues(view).Observe(ms)
}

func RecordAnalyticsError(view, kind string) {
	globalManager.analyticsErrors.WithLabelValues(view, kind).Inc()
}

func UpdateQueueSize(n int)              { globalManager.queueSize.Set(float64(n)) }
func UpdateQueueCapacity(n int)          { globalManager.queueCapacity.Set(float64(n)) }
func UpdateQueueUtilization(u float64)   { globalManager.queueUtilization.Set(u) }
func RecordQueueEnqueue()                { globalManager.queueEnqueueRate.Inc() }
func RecordQueueDequeue()                { globalManager.queueDequeueRate.Inc() }
func RecordQueueEnqueueError()           { globalManager.queueEnqueueErrors.Inc() }
func RecordQueueProcessingLatency(ms float64) {
	globalManager.queueProcessingLatency.Observe(ms)
}

func UpdateWorkerActiveCount(n int) { globalManager.workerActiveCount.Set(float64(n)) }
func RecordWorkerProcessingLatency(ms float64) {
	globalManager.workerProcessingLatency.Observe(ms)
}
func RecordWorkerError() { globalManager.workerErrors.Inc() }

func RecordStoreQueryLatency(ms float64) { globalManager.storeQueryLatency.Observe(ms) }
func RecordStoreWriteLatency(ms float64) { globalManager.storeWriteLatency.Observe(ms) }
func UpdateTrackedGroups(n int)          { globalManager.trackedGroups.Set(float64(n)) }
func UpdateTrackedReactions(n int)       { globalManager.trackedReactions.Set(float64(n)) }

func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, statusCode string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(ms)
}

func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

func RecordErrorByComponent(component, reason string) {
	globalManager.errorsByComponent.WithLabelValues(component, reason).Inc()
}

func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryUsage.Set(float64(bytes)) }
func UpdateSystemGoroutineCount(n int)     { globalManager.systemGoroutineCount.Set(float64(n)) }
func RecordSystemGCPauseTime(ms float64)   { globalManager.systemGCPauseTime.Observe(ms) }
