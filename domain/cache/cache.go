package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache is a size bounded LRU cache with per-entry expiry.
// A cache created with size <= 0 is disabled: Set is a no-op and Get always misses.
type Cache[K comparable, V any] struct {
	lru *expirable.LRU[K, V]
}

// New creates a cache holding up to size entries, each expiring after ttl.
// ttl <= 0 disables expiry.
func New[K comparable, V any](size int, ttl time.Duration) *Cache[K, V] {
	if size <= 0 {
		return NewNoOp[K, V]()
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Cache[K, V]{
		lru: expirable.NewLRU[K, V](size, nil, ttl),
	}
}

// NewNoOp creates a disabled cache.
func NewNoOp[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{}
}

// IsEnabled returns true if the cache stores values.
func (c *Cache[K, V]) IsEnabled() bool {
	return c != nil && c.lru != nil
}

// Set adds an item to the cache with a specified key and value.
// If the cache is not enabled, it will silently ignore the call.
func (c *Cache[K, V]) Set(key K, value V) {
	if !c.IsEnabled() {
		return
	}
	c.lru.Add(key, value)
}

// Get retrieves the value associated with a key from the cache. Returns false if the key does not exist.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	if !c.IsEnabled() {
		var zero V
		return zero, false
	}
	return c.lru.Get(key)
}

// Delete removes an item from the cache.
func (c *Cache[K, V]) Delete(key K) {
	if !c.IsEnabled() {
		return
	}
	c.lru.Remove(key)
}

// Purge removes every item from the cache.
func (c *Cache[K, V]) Purge() {
	if !c.IsEnabled() {
		return
	}
	c.lru.Purge()
}

// Len returns the number of items in the cache.
func (c *Cache[K, V]) Len() int {
	if !c.IsEnabled() {
		return 0
	}
	return c.lru.Len()
}
