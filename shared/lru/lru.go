// Package lru is a fixed-capacity key/value cache with least-recently-used
// eviction. Every operation is O(1) except Keys and Purge.
package lru

import (
	"errors"
	"sync"
)

// ErrInvalidCapacity is returned by New for a capacity below 1.
var ErrInvalidCapacity = errors.New("lru: capacity must be at least 1")

// Stats counts cache traffic since construction.
type Stats struct {
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
}

type Option[K comparable, V any] func(*Cache[K, V])

// WithOnEvict registers fn to be called for every entry dropped because the
// cache was full. It is never called for Remove or Purge. fn runs after the
// cache lock is released, so it may call back into the cache.
func WithOnEvict[K comparable, V any](fn func(K, V)) Option[K, V] {
	return func(c *Cache[K, V]) {
		c.onEvict = fn
	}
}

type entry[K comparable, V any] struct {
	key        K
	value      V
	prev, next *entry[K, V]
}

// Cache is safe for concurrent use.
//
// The recency list runs from head (most recent) to tail (least recent).
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	items    map[K]*entry[K, V]
	head     *entry[K, V]
	tail     *entry[K, V]
	stats    Stats
	onEvict  func(K, V)
}

func New[K comparable, V any](capacity int, opts ...Option[K, V]) (*Cache[K, V], error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	c := &Cache[K, V]{
		capacity: capacity,
		items:    make(map[K]*entry[K, V], capacity),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get returns the value for key and marks it most recently used.
// ok is false when key is absent.
func (c *Cache[K, V]) Get(key K) (value V, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		return value, false
	}
	c.stats.Hits++
	c.moveToFront(e)
	return e.value, true
}

// Peek is Get without touching recency or stats.
func (c *Cache[K, V]) Peek(key K) (value V, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		return e.value, true
	}
	return value, false
}

// Put stores value under key as the most recently used entry. Adding a new key
// to a full cache evicts the least recently used entry first.
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()

	if e, ok := c.items[key]; ok {
		e.value = value
		c.moveToFront(e)
		c.mu.Unlock()
		return
	}

	var victim *entry[K, V]
	if len(c.items) >= c.capacity {
		victim = c.tail
		c.unlink(victim)
		delete(c.items, victim.key)
		c.stats.Evictions++
	}

	e := &entry[K, V]{key: key, value: value}
	c.pushFront(e)
	c.items[key] = e
	onEvict := c.onEvict
	c.mu.Unlock()

	if victim != nil && onEvict != nil {
		onEvict(victim.key, victim.value)
	}
}

// Remove deletes key and reports whether it was present.
func (c *Cache[K, V]) Remove(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		return false
	}
	c.unlink(e)
	delete(c.items, key)
	return true
}

func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Cache[K, V]) Cap() int {
	return c.capacity
}

// Keys lists the keys from least to most recently used.
func (c *Cache[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]K, 0, len(c.items))
	for e := c.tail; e != nil; e = e.prev {
		keys = append(keys, e.key)
	}
	return keys
}

// Purge drops every entry. Stats are kept.
func (c *Cache[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.items)
	c.head, c.tail = nil, nil
}

func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *Cache[K, V]) moveToFront(e *entry[K, V]) {
	if c.head == e {
		return
	}
	c.unlink(e)
	c.pushFront(e)
}

func (c *Cache[K, V]) pushFront(e *entry[K, V]) {
	e.prev = nil
	e.next = c.head
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *Cache[K, V]) unlink(e *entry[K, V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
	e.prev, e.next = nil, nil
}
