package consul

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector provides Prometheus metrics for the request lifecycle.
// All record methods are safe on a nil receiver so the dispatcher can call
// them unconditionally. Safe for concurrent use.
type MetricsCollector struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight *prometheus.GaugeVec

	blockingQueriesTotal *prometheus.CounterVec
	lastIndex            *prometheus.GaugeVec

	errorsTotal *prometheus.CounterVec
}

// NewMetricsCollector creates a collector on the default registerer.
func NewMetricsCollector() *MetricsCollector {
	return NewMetricsCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsCollectorWithRegistry creates a collector using the supplied
// registerer, for applications managing their own registries.
func NewMetricsCollectorWithRegistry(registry prometheus.Registerer) *MetricsCollector {
	return &MetricsCollector{
		requestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "consul_client_requests_total",
				Help: "Total number of control-plane HTTP requests made",
			},
			[]string{"method", "status_code", "endpoint"},
		),
		requestDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "consul_client_request_duration_seconds",
				Help:    "Duration of control-plane HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "status_code", "endpoint"},
		),
		requestsInFlight: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "consul_client_requests_in_flight",
				Help: "Number of control-plane HTTP requests currently in flight",
			},
			[]string{"method", "endpoint"},
		),
		blockingQueriesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "consul_client_blocking_queries_total",
				Help: "Total number of blocking (long-poll) queries issued",
			},
			[]string{"endpoint"},
		),
		lastIndex: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "consul_client_last_index",
				Help: "Last change index observed per endpoint",
			},
			[]string{"endpoint"},
		),
		errorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "consul_client_errors_total",
				Help: "Total number of errors encountered by type",
			},
			[]string{"type", "method", "endpoint"},
		),
	}
}

// RecordRequest records request count and duration.
func (mc *MetricsCollector) RecordRequest(method, endpoint string, statusCode int, duration time.Duration) {
	if mc == nil {
		return
	}
	code := strconv.Itoa(statusCode)
	mc.requestsTotal.WithLabelValues(method, code, endpoint).Inc()
	mc.requestDuration.WithLabelValues(method, code, endpoint).Observe(duration.Seconds())
}

// RecordRequestStart increments the in-flight gauge.
func (mc *MetricsCollector) RecordRequestStart(method, endpoint string) {
	if mc == nil {
		return
	}
	mc.requestsInFlight.WithLabelValues(method, endpoint).Inc()
}

// RecordRequestEnd decrements the in-flight gauge.
func (mc *MetricsCollector) RecordRequestEnd(method, endpoint string) {
	if mc == nil {
		return
	}
	mc.requestsInFlight.WithLabelValues(method, endpoint).Dec()
}

// RecordBlockingQuery counts a long-poll read.
func (mc *MetricsCollector) RecordBlockingQuery(endpoint string) {
	if mc == nil {
		return
	}
	mc.blockingQueriesTotal.WithLabelValues(endpoint).Inc()
}

// RecordLastIndex tracks the last change index decoded for an endpoint.
func (mc *MetricsCollector) RecordLastIndex(endpoint string, index uint64) {
	if mc == nil {
		return
	}
	mc.lastIndex.WithLabelValues(endpoint).Set(float64(index))
}

// RecordError counts an error by taxonomy type.
func (mc *MetricsCollector) RecordError(errorType, method, endpoint string) {
	if mc == nil {
		return
	}
	mc.errorsTotal.WithLabelValues(errorType, method, endpoint).Inc()
}
