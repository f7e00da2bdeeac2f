package metrics_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arpa-network/randcast-controller/module/metrics"
)

func TestNotifierCollector_CircuitBreaker(t *testing.T) {
	registry := prometheus.NewRegistry()
	nc := metrics.NewNotifierCollector(registry)

	nc.CircuitBreakerStateChanged("http://a.example", "open")
	nc.CircuitBreakerStateChanged("http://a.example", "half-open")

	expected := `
# HELP randcast_notifier_circuit_breaker_state 1 for the current circuit breaker state of an endpoint, 0 for the others
# TYPE randcast_notifier_circuit_breaker_state gauge
randcast_notifier_circuit_breaker_state{endpoint="http://a.example",state="closed"} 0
randcast_notifier_circuit_breaker_state{endpoint="http://a.example",state="half-open"} 1
randcast_notifier_circuit_breaker_state{endpoint="http://a.example",state="open"} 0
`
	require.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(expected), "randcast_notifier_circuit_breaker_state"))
}

func TestSubscriptionCollector(t *testing.T) {
	registry := prometheus.NewRegistry()
	sc := metrics.NewSubscriptionCollector(registry)

	sc.SubscriptionsActive(3)
	sc.TaskStreamed()
	sc.SubscriberDropped()
	sc.SubscriptionsActive(2)

	count, err := testutil.GatherAndCount(registry,
		"randcast_subscriptions_active",
		"randcast_subscriptions_tasks_streamed_total",
		"randcast_subscriptions_subscribers_dropped_total",
	)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	expected := `
# HELP randcast_subscriptions_active the number of open task subscriptions
# TYPE randcast_subscriptions_active gauge
randcast_subscriptions_active 2
# HELP randcast_subscriptions_tasks_streamed_total the number of dkg tasks written to subscribers
# TYPE randcast_subscriptions_tasks_streamed_total counter
randcast_subscriptions_tasks_streamed_total 1
`
	require.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(expected),
		"randcast_subscriptions_active", "randcast_subscriptions_tasks_streamed_total"))
}
