package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/arpa-network/randcast-controller/module"
)

// CacheCollector collects hit and miss rates of the storage caches.
type CacheCollector struct {
	entries *prometheus.GaugeVec
	hits    *prometheus.CounterVec
	misses  *prometheus.CounterVec
}

var _ module.CacheMetrics = (*CacheCollector)(nil)

func NewCacheCollector(registerer prometheus.Registerer) *CacheCollector {
	cc := &CacheCollector{
		entries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespaceStorage,
			Subsystem: subsystemCache,
			Name:      "entries_total",
			Help:      "the number of entries in the cache",
		}, []string{LabelResource}),
		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceStorage,
			Subsystem: subsystemCache,
			Name:      "hits_total",
			Help:      "the number of hits for cache lookups",
		}, []string{LabelResource}),
		misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceStorage,
			Subsystem: subsystemCache,
			Name:      "misses_total",
			Help:      "the number of misses for cache lookups",
		}, []string{LabelResource}),
	}
	registerer.MustRegister(cc.entries, cc.hits, cc.misses)
	return cc
}

func (cc *CacheCollector) CacheEntries(resource string, entries uint) {
	cc.entries.With(prometheus.Labels{LabelResource: resource}).Set(float64(entries))
}

func (cc *CacheCollector) CacheHit(resource string) {
	cc.hits.With(prometheus.Labels{LabelResource: resource}).Inc()
}

func (cc *CacheCollector) CacheMiss(resource string) {
	cc.misses.With(prometheus.Labels{LabelResource: resource}).Inc()
}
