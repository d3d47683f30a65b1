package task_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/on-the-ground/boundrun/effects/task"
	"github.com/on-the-ground/boundrun/shared/lru"
)

func TestCached_ServesHitsAndStoresMisses(t *testing.T) {
	c, err := lru.New[string, int](2)
	require.NoError(t, err)

	var calls atomic.Int32
	lookup := func(key string, v int) task.Task[int] {
		return task.Cached(c, key, func(context.Context) (int, error) {
			calls.Add(1)
			return v, nil
		})
	}

	outcomes := task.RunSequential(context.Background(),
		lookup("a", 1),
		lookup("a", 100),
		lookup("b", 2),
	)

	values, errs := task.Values(outcomes)
	assert.Empty(t, errs)
	assert.Equal(t, []int{1, 1, 2}, values)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, lru.Stats{Hits: 1, Misses: 2}, c.Stats())
}

func TestCached_DoesNotStoreFailures(t *testing.T) {
	c, err := lru.New[string, int](1)
	require.NoError(t, err)

	errBoom := errors.New("boom")
	_, err = task.Cached(c, "k", func(context.Context) (int, error) {
		return 0, errBoom
	})(context.Background())

	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 0, c.Len())
}
