package cache

import (
	"errors"

	ristretto "github.com/dgraph-io/ristretto/v2"
)

var ErrRejected = errors.New("ristretto rejected the entry")

type key interface {
	ristretto.Key
	comparable
}

// RistrettoStore adapts a ristretto cache to Store. Every entry costs 1, so
// maxEntries bounds the number of entries; which entry leaves first is up to
// ristretto's admission policy, not recency.
type RistrettoStore[K key, V any] struct {
	cache *ristretto.Cache[K, V]
}

func NewRistrettoStore[K key, V any](maxEntries int64) (*RistrettoStore[K, V], error) {
	c, err := ristretto.NewCache(&ristretto.Config[K, V]{
		NumCounters:        10 * maxEntries, // ristretto recommends 10x the expected entries.
		MaxCost:            maxEntries,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &RistrettoStore[K, V]{cache: c}, nil
}

func (r *RistrettoStore[K, V]) Get(key K) (V, bool, error) {
	v, ok := r.cache.Get(key)
	return v, ok, nil
}

// Set waits for the write to be applied so a following Get observes it.
func (r *RistrettoStore[K, V]) Set(key K, value V) error {
	if !r.cache.Set(key, value, 1) {
		return ErrRejected
	}
	r.cache.Wait()
	return nil
}

func (r *RistrettoStore[K, V]) Delete(key K) error {
	r.cache.Del(key)
	r.cache.Wait()
	return nil
}

func (r *RistrettoStore[K, V]) Close() {
	r.cache.Close()
}
