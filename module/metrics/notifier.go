package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/arpa-network/randcast-controller/module"
)

// NotifierCollector collects the metrics of the task notifier.
type NotifierCollector struct {
	delivered *prometheus.CounterVec
	attempts  *prometheus.HistogramVec
	failed    *prometheus.CounterVec
	breaker   *prometheus.GaugeVec
}

var _ module.NotifierMetrics = (*NotifierCollector)(nil)

func NewNotifierCollector(registerer prometheus.Registerer) *NotifierCollector {
	nc := &NotifierCollector{
		delivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceRandcast,
			Subsystem: subsystemNotifier,
			Name:      "tasks_delivered_total",
			Help:      "the number of dkg tasks delivered to an endpoint",
		}, []string{LabelEndpoint}),
		attempts: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespaceRandcast,
			Subsystem: subsystemNotifier,
			Name:      "delivery_attempts",
			Help:      "the number of attempts a successful delivery took",
			Buckets:   prometheus.LinearBuckets(1, 1, 10),
		}, []string{LabelEndpoint}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceRandcast,
			Subsystem: subsystemNotifier,
			Name:      "tasks_failed_total",
			Help:      "the number of dkg tasks which could not be delivered to an endpoint",
		}, []string{LabelEndpoint}),
		breaker: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespaceRandcast,
			Subsystem: subsystemNotifier,
			Name:      "circuit_breaker_state",
			Help:      "1 for the current circuit breaker state of an endpoint, 0 for the others",
		}, []string{LabelEndpoint, LabelState}),
	}
	registerer.MustRegister(nc.delivered, nc.attempts, nc.failed, nc.breaker)
	return nc
}

func (nc *NotifierCollector) TaskDelivered(endpoint string, attempts int) {
	nc.delivered.With(prometheus.Labels{LabelEndpoint: endpoint}).Inc()
	nc.attempts.With(prometheus.Labels{LabelEndpoint: endpoint}).Observe(float64(attempts))
}

func (nc *NotifierCollector) TaskDeliveryFailed(endpoint string) {
	nc.failed.With(prometheus.Labels{LabelEndpoint: endpoint}).Inc()
}

// breakerStates are the states reported by CircuitBreakerStateChanged.
var breakerStates = []string{"closed", "half-open", "open"}

func (nc *NotifierCollector) CircuitBreakerStateChanged(endpoint string, state string) {
	for _, s := range breakerStates {
		value := 0.0
		if s == state {
			value = 1
		}
		nc.breaker.With(prometheus.Labels{LabelEndpoint: endpoint, LabelState: s}).Set(value)
	}
}
