package module

import (
	"context"
	"time"

	httpmetrics "github.com/slok/go-http-metrics/metrics"
)

// ControllerMetrics is implemented by the controller engine's metrics
// collector.
type ControllerMetrics interface {
	// NodeRegistered is called once per successful registration.
	NodeRegistered()

	// NodeActivated is called once a frozen node joined a group again.
	NodeActivated()

	// NodeQuit is called once per node leaving the protocol.
	NodeQuit()

	// GroupCreated reports the total number of groups after a new one was created.
	GroupCreated(total int)

	// GlobalEpoch reports the current global epoch.
	GlobalEpoch(epoch uint64)

	// TaskPublished is called for every published DKG task.
	TaskPublished(groupSize int)

	// CommitAccepted is called for every accepted DKG commitment.
	CommitAccepted()

	// ConsensusReached is called once a group reached consensus on its public key.
	ConsensusReached()

	// GroupVoided is called once a group without any majority was voided.
	GroupVoided()

	// NodeSlashed reports the penalty applied to a node.
	NodeSlashed(penalty uint64)

	// NodeFrozen is called for every frozen node.
	NodeFrozen()

	// Rebalanced is called for every successful pairwise rebalance.
	Rebalanced(moved int)

	// OperationDuration measures how long an operation held the engine lock.
	OperationDuration(operation string, duration time.Duration)
}

// NotifierMetrics is implemented by the task notifier's metrics collector.
type NotifierMetrics interface {
	// TaskDelivered reports a delivery attempt that eventually succeeded.
	TaskDelivered(endpoint string, attempts int)

	// TaskDeliveryFailed reports a delivery that gave up.
	TaskDeliveryFailed(endpoint string)

	// CircuitBreakerStateChanged reports the new state of an endpoint's
	// circuit breaker.
	CircuitBreakerStateChanged(endpoint string, state string)
}

// SubscriptionMetrics is implemented by the task subscription broker's
// metrics collector.
type SubscriptionMetrics interface {
	// SubscriptionsActive reports the number of open task subscriptions.
	SubscriptionsActive(count int)

	// TaskStreamed is called for every task written to a subscriber.
	TaskStreamed()

	// SubscriberDropped is called when a subscriber could not keep up and
	// was disconnected.
	SubscriberDropped()
}

type RestMetrics interface {
	// Example recorder taken from:
	// https://github.com/slok/go-http-metrics/blob/master/metrics/prometheus/prometheus.go
	httpmetrics.Recorder
	AddTotalRequests(ctx context.Context, method string, routeName string)
}

// CacheMetrics is implemented by collectors reporting on read caches.
type CacheMetrics interface {
	// CacheEntries report the total number of cached items
	CacheEntries(resource string, entries uint)
	// CacheHit report the number of times the queried item is found in the cache
	CacheHit(resource string)
	// CacheMiss report the number of times the queried item is not found in the cache
	CacheMiss(resource string)
}
