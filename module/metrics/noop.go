package metrics

import (
	"context"
	"time"

	httpmetrics "github.com/slok/go-http-metrics/metrics"

	"github.com/arpa-network/randcast-controller/module"
)

type NoopCollector struct{}

var (
	_ module.ControllerMetrics   = (*NoopCollector)(nil)
	_ module.NotifierMetrics     = (*NoopCollector)(nil)
	_ module.CacheMetrics        = (*NoopCollector)(nil)
	_ module.RestMetrics         = (*NoopCollector)(nil)
	_ module.SubscriptionMetrics = (*NoopCollector)(nil)
)

func NewNoopCollector() *NoopCollector {
	nc := &NoopCollector{}
	return nc
}

func (nc *NoopCollector) NodeRegistered()                                          {}
func (nc *NoopCollector) NodeActivated()                                           {}
func (nc *NoopCollector) NodeQuit()                                                {}
func (nc *NoopCollector) GroupCreated(total int)                                   {}
func (nc *NoopCollector) GlobalEpoch(epoch uint64)                                 {}
func (nc *NoopCollector) TaskPublished(groupSize int)                              {}
func (nc *NoopCollector) CommitAccepted()                                          {}
func (nc *NoopCollector) ConsensusReached()                                        {}
func (nc *NoopCollector) GroupVoided()                                             {}
func (nc *NoopCollector) NodeSlashed(penalty uint64)                               {}
func (nc *NoopCollector) NodeFrozen()                                              {}
func (nc *NoopCollector) Rebalanced(moved int)                                     {}
func (nc *NoopCollector) OperationDuration(string, time.Duration)                  {}
func (nc *NoopCollector) TaskDelivered(endpoint string, attempts int)              {}
func (nc *NoopCollector) TaskDeliveryFailed(endpoint string)                       {}
func (nc *NoopCollector) CacheEntries(resource string, entries uint)               {}
func (nc *NoopCollector) CacheHit(resource string)                                 {}
func (nc *NoopCollector) CacheMiss(resource string)                                {}
func (nc *NoopCollector) CircuitBreakerStateChanged(endpoint string, state string) {}
func (nc *NoopCollector) SubscriptionsActive(count int)                            {}
func (nc *NoopCollector) TaskStreamed()                                            {}
func (nc *NoopCollector) SubscriberDropped()                                       {}
func (nc *NoopCollector) ObserveHTTPRequestDuration(context.Context, httpmetrics.HTTPReqProperties, time.Duration) {
}
func (nc *NoopCollector) ObserveHTTPResponseSize(context.Context, httpmetrics.HTTPReqProperties, int64) {
}
func (nc *NoopCollector) AddInflightRequests(context.Context, httpmetrics.HTTPProperties, int) {}
func (nc *NoopCollector) AddTotalRequests(context.Context, string, string)                     {}
