package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/arpa-network/randcast-controller/module"
)

// SubscriptionCollector collects the metrics of the task subscription broker.
type SubscriptionCollector struct {
	active   prometheus.Gauge
	streamed prometheus.Counter
	dropped  prometheus.Counter
}

var _ module.SubscriptionMetrics = (*SubscriptionCollector)(nil)

func NewSubscriptionCollector(registerer prometheus.Registerer) *SubscriptionCollector {
	sc := &SubscriptionCollector{
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespaceRandcast,
			Subsystem: subsystemSubscriptions,
			Name:      "active",
			Help:      "the number of open task subscriptions",
		}),
		streamed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceRandcast,
			Subsystem: subsystemSubscriptions,
			Name:      "tasks_streamed_total",
			Help:      "the number of dkg tasks written to subscribers",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceRandcast,
			Subsystem: subsystemSubscriptions,
			Name:      "subscribers_dropped_total",
			Help:      "the number of subscribers disconnected for falling behind",
		}),
	}
	registerer.MustRegister(sc.active, sc.streamed, sc.dropped)
	return sc
}

func (sc *SubscriptionCollector) SubscriptionsActive(count int) {
	sc.active.Set(float64(count))
}

func (sc *SubscriptionCollector) TaskStreamed() {
	sc.streamed.Inc()
}

func (sc *SubscriptionCollector) SubscriberDropped() {
	sc.dropped.Inc()
}
