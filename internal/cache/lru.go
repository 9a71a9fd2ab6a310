// Package cache provides the process-wide cache layer backing token
// metadata and recent price quotes. Instances are constructed once and
// passed by handle; there are no package-level caches.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// LRU is a thread-safe bounded LRU cache. When a non-zero TTL is
// configured, entries expire individually and read as misses afterward.
type LRU[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]*list.Element
	order   *list.List
	maxSize int
	ttl     time.Duration // zero means entries never expire
	zeroVal V
}

type entry[K comparable, V any] struct {
	key      K
	value    V
	storedAt time.Time
}

// New creates a bounded LRU whose entries never expire.
func New[K comparable, V any](maxSize int) *LRU[K, V] {
	return NewWithTTL[K, V](maxSize, 0)
}

// NewWithTTL creates a bounded LRU whose entries expire ttl after being
// stored. Expired entries are dropped lazily on access and eviction.
func NewWithTTL[K comparable, V any](maxSize int, ttl time.Duration) *LRU[K, V] {
	return &LRU[K, V]{
		entries: make(map[K]*list.Element, maxSize),
		order:   list.New(),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

// Get retrieves a live value and promotes it to most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return c.zeroVal, false
	}
	e := elem.Value.(*entry[K, V])
	if c.expired(e) {
		c.order.Remove(elem)
		delete(c.entries, key)
		return c.zeroVal, false
	}
	c.order.MoveToFront(elem)
	return e.value, true
}

// Set adds or replaces a value, resetting its TTL window.
func (c *LRU[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.order.MoveToFront(elem)
		e := elem.Value.(*entry[K, V])
		e.value = value
		e.storedAt = time.Now()
		return
	}

	for len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	e := &entry[K, V]{key: key, value: value, storedAt: time.Now()}
	c.entries[key] = c.order.PushFront(e)
}

// Contains reports whether a live entry exists, without promoting it.
func (c *LRU[K, V]) Contains(key K) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	elem, ok := c.entries[key]
	if !ok {
		return false
	}
	return !c.expired(elem.Value.(*entry[K, V]))
}

// Len returns the number of stored entries, expired ones included.
func (c *LRU[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes all entries.
func (c *LRU[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[K]*list.Element, c.maxSize)
	c.order.Init()
}

// expired must be called with the lock held.
func (c *LRU[K, V]) expired(e *entry[K, V]) bool {
	return c.ttl > 0 && time.Since(e.storedAt) > c.ttl
}

// evictOldest must be called with the write lock held.
func (c *LRU[K, V]) evictOldest() {
	back := c.order.Back()
	if back == nil {
		return
	}
	e := back.Value.(*entry[K, V])
	c.order.Remove(back)
	delete(c.entries, e.key)
}
