package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	httpmetrics "github.com/slok/go-http-metrics/metrics"

	"github.com/arpa-network/randcast-controller/module"
)

// RestCollector records the metrics of the REST API.
type RestCollector struct {
	httpRequestDurHistogram   *prometheus.HistogramVec
	httpResponseSizeHistogram *prometheus.HistogramVec
	httpRequestsInflight      *prometheus.GaugeVec
	httpRequestsTotal         *prometheus.CounterVec
}

var _ module.RestMetrics = (*RestCollector)(nil)

// NewRestCollector returns a new metrics RestCollector that implements the RestCollector
// using Prometheus as the backend.
func NewRestCollector(registerer prometheus.Registerer) *RestCollector {
	r := &RestCollector{
		httpRequestDurHistogram: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespaceRandcast,
			Subsystem: subsystemRestAPI,
			Name:      "request_duration_seconds",
			Help:      "The latency of the HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{LabelService, LabelHandler, LabelMethod, LabelStatusCode}),
		httpResponseSizeHistogram: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespaceRandcast,
			Subsystem: subsystemRestAPI,
			Name:      "response_size_bytes",
			Help:      "The size of the HTTP responses.",
			Buckets:   prometheus.ExponentialBuckets(100, 10, 8),
		}, []string{LabelService, LabelHandler, LabelMethod, LabelStatusCode}),
		httpRequestsInflight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespaceRandcast,
			Subsystem: subsystemRestAPI,
			Name:      "requests_inflight",
			Help:      "The number of inflight requests being handled at the same time.",
		}, []string{LabelService, LabelHandler}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceRandcast,
			Subsystem: subsystemRestAPI,
			Name:      "requests_total",
			Help:      "The number of requests handled over time.",
		}, []string{LabelMethod, LabelHandler}),
	}
	registerer.MustRegister(
		r.httpRequestDurHistogram,
		r.httpResponseSizeHistogram,
		r.httpRequestsInflight,
		r.httpRequestsTotal,
	)
	return r
}

// ObserveHTTPRequestDuration records the duration of the REST request.
// This method is called automatically by go-http-metrics/middleware
func (r *RestCollector) ObserveHTTPRequestDuration(_ context.Context, p httpmetrics.HTTPReqProperties, duration time.Duration) {
	r.httpRequestDurHistogram.WithLabelValues(p.Service, p.ID, p.Method, p.Code).Observe(duration.Seconds())
}

// ObserveHTTPResponseSize records the response size of the REST request.
// This method is called automatically by go-http-metrics/middleware
func (r *RestCollector) ObserveHTTPResponseSize(_ context.Context, p httpmetrics.HTTPReqProperties, sizeBytes int64) {
	r.httpResponseSizeHistogram.WithLabelValues(p.Service, p.ID, p.Method, p.Code).Observe(float64(sizeBytes))
}

// AddInflightRequests increments and decrements the number of inflight request being processed.
// This method is called automatically by go-http-metrics/middleware
func (r *RestCollector) AddInflightRequests(_ context.Context, p httpmetrics.HTTPProperties, quantity int) {
	r.httpRequestsInflight.WithLabelValues(p.Service, p.ID).Add(float64(quantity))
}

// AddTotalRequests records all REST requests
func (r *RestCollector) AddTotalRequests(_ context.Context, method, routeName string) {
	r.httpRequestsTotal.WithLabelValues(method, routeName).Inc()
}
