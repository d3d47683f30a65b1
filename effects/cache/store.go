package cache

import (
	"github.com/on-the-ground/boundrun/shared/lru"
)

// Store is the backend a cache handler reads and writes.
type Store[K comparable, V any] interface {
	Get(key K) (value V, ok bool, err error)
	Set(key K, value V) error
	Delete(key K) error
}

// LRUStore adapts *lru.Cache to Store. It never fails.
type LRUStore[K comparable, V any] struct {
	cache *lru.Cache[K, V]
}

func NewLRUStore[K comparable, V any](c *lru.Cache[K, V]) LRUStore[K, V] {
	return LRUStore[K, V]{cache: c}
}

func (s LRUStore[K, V]) Get(key K) (V, bool, error) {
	v, ok := s.cache.Get(key)
	return v, ok, nil
}

func (s LRUStore[K, V]) Set(key K, value V) error {
	s.cache.Put(key, value)
	return nil
}

func (s LRUStore[K, V]) Delete(key K) error {
	s.cache.Remove(key)
	return nil
}
