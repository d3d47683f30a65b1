package task

import (
	"context"

	"github.com/on-the-ground/boundrun/shared/lru"
)

// Cached serves key from c when present. Otherwise it runs t and stores the
// value on success; failures are not cached.
func Cached[K comparable, R any](c *lru.Cache[K, R], key K, t Task[R]) Task[R] {
	return func(ctx context.Context) (R, error) {
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		v, err := t(ctx)
		if err != nil {
			return v, err
		}
		c.Put(key, v)
		return v, nil
	}
}
