package store

import (
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/arpa-network/randcast-controller/module"
	"github.com/arpa-network/randcast-controller/storage"
)

const DefaultCacheSize = uint(1000)

type storeFunc[K comparable, V any] func(rw storage.ReaderBatchWriter, key K, val V) error

type retrieveFunc[K comparable, V any] func(r storage.Reader, key K) (V, error)

type removeFunc[K comparable] func(rw storage.ReaderBatchWriter, key K) error

func withLimit[K comparable, V any](limit uint) func(*Cache[K, V]) {
	return func(c *Cache[K, V]) {
		c.limit = limit
	}
}

func withStore[K comparable, V any](store storeFunc[K, V]) func(*Cache[K, V]) {
	return func(c *Cache[K, V]) {
		c.store = store
	}
}

func noStore[K comparable, V any](_ storage.ReaderBatchWriter, _ K, _ V) error {
	return fmt.Errorf("no store function for cache put available")
}

func withRetrieve[K comparable, V any](retrieve retrieveFunc[K, V]) func(*Cache[K, V]) {
	return func(c *Cache[K, V]) {
		c.retrieve = retrieve
	}
}

func noRetrieve[K comparable, V any](_ storage.Reader, _ K) (V, error) {
	var nullV V
	return nullV, fmt.Errorf("no retrieve function for cache get available")
}

func withRemove[K comparable, V any](remove removeFunc[K]) func(*Cache[K, V]) {
	return func(c *Cache[K, V]) {
		c.remove = remove
	}
}

func noRemove[K comparable](_ storage.ReaderBatchWriter, _ K) error {
	return fmt.Errorf("no remove function for cache remove available")
}

// Cache is a read-through LRU cache in front of a storage function set.
// Writes go to the cache only once the batch carrying them was committed.
type Cache[K comparable, V any] struct {
	metrics  module.CacheMetrics
	limit    uint
	store    storeFunc[K, V]
	retrieve retrieveFunc[K, V]
	remove   removeFunc[K]
	resource string
	cache    *lru.Cache[K, V]
}

func newCache[K comparable, V any](collector module.CacheMetrics, resourceName string, options ...func(*Cache[K, V])) *Cache[K, V] {
	c := Cache[K, V]{
		metrics:  collector,
		limit:    DefaultCacheSize,
		store:    noStore[K, V],
		retrieve: noRetrieve[K, V],
		remove:   noRemove[K],
		resource: resourceName,
	}
	for _, option := range options {
		option(&c)
	}
	c.cache, _ = lru.New[K, V](int(c.limit))
	c.metrics.CacheEntries(c.resource, uint(c.cache.Len()))
	return &c
}

// IsCached returns true if the key is cached.
func (c *Cache[K, V]) IsCached(key K) bool {
	return c.cache.Contains(key)
}

// Get returns the cached value, or retrieves it from the reader and caches it.
// Error returns:
//   - storage.ErrNotFound if the key is not stored
func (c *Cache[K, V]) Get(r storage.Reader, key K) (V, error) {
	resource, cached := c.cache.Get(key)
	if cached {
		c.metrics.CacheHit(c.resource)
		return resource, nil
	}

	c.metrics.CacheMiss(c.resource)
	resource, err := c.retrieve(r, key)
	if err != nil {
		var nullV V
		if errors.Is(err, storage.ErrNotFound) {
			return nullV, err
		}
		return nullV, fmt.Errorf("could not retrieve resource: %w", err)
	}

	c.insert(key, resource)
	return resource, nil
}

// PutTx stages the value in the batch and caches it once the batch was
// committed.
func (c *Cache[K, V]) PutTx(rw storage.ReaderBatchWriter, key K, resource V) error {
	err := c.store(rw, key, resource)
	if err != nil {
		return fmt.Errorf("could not store resource: %w", err)
	}

	rw.AddCallback(func(err error) {
		if err == nil {
			c.insert(key, resource)
		}
	})
	return nil
}

// RemoveTx stages the removal in the batch and evicts the key once the batch
// was committed.
func (c *Cache[K, V]) RemoveTx(rw storage.ReaderBatchWriter, key K) error {
	err := c.remove(rw, key)
	if err != nil {
		return fmt.Errorf("could not remove resource: %w", err)
	}

	rw.AddCallback(func(err error) {
		if err == nil {
			c.cache.Remove(key)
			c.metrics.CacheEntries(c.resource, uint(c.cache.Len()))
		}
	})
	return nil
}

func (c *Cache[K, V]) insert(key K, resource V) {
	evicted := c.cache.Add(key, resource)
	if !evicted {
		c.metrics.CacheEntries(c.resource, uint(c.cache.Len()))
	}
}
