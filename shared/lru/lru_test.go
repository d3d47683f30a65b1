package lru_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/on-the-ground/boundrun/shared/lru"
)

func newCache[V any](t *testing.T, capacity int, opts ...lru.Option[string, V]) *lru.Cache[string, V] {
	t.Helper()
	c, err := lru.New[string, V](capacity, opts...)
	require.NoError(t, err)
	return c
}

func TestNew_InvalidCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1} {
		c, err := lru.New[string, int](capacity)
		assert.ErrorIs(t, err, lru.ErrInvalidCapacity)
		assert.Nil(t, c)
	}
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := newCache[int](t, 2)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3)

	_, ok := c.Get("a")
	assert.False(t, ok)

	v, ok := c.Get("b")
	require.True(t, ok)
	assert.Equal(t, 2, v)

	v, ok = c.Get("c")
	require.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestCache_GetRefreshesRecency(t *testing.T) {
	c := newCache[int](t, 2)
	c.Put("a", 1)
	c.Put("b", 2)
	_, ok := c.Get("a")
	require.True(t, ok)
	c.Put("c", 3)

	_, ok = c.Get("b")
	assert.False(t, ok, "b should have been evicted")

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = c.Get("c")
	require.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestCache_PutUpdatesInPlace(t *testing.T) {
	c := newCache[int](t, 2)
	c.Put("a", 1)
	c.Put("a", 2)

	assert.Equal(t, 1, c.Len())
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestCache_PutRefreshesRecency(t *testing.T) {
	c := newCache[int](t, 2)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("a", 10)
	c.Put("c", 3)

	assert.Equal(t, []string{"a", "c"}, c.Keys())
}

func TestCache_StoredZeroValueIsNotAbsent(t *testing.T) {
	c := newCache[*int](t, 1)
	c.Put("nil", nil)

	v, ok := c.Get("nil")
	assert.True(t, ok)
	assert.Nil(t, v)

	_, ok = c.Get("other")
	assert.False(t, ok)
}

func TestCache_PeekDoesNotRefresh(t *testing.T) {
	c := newCache[int](t, 2)
	c.Put("a", 1)
	c.Put("b", 2)

	v, ok := c.Peek("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	c.Put("c", 3)
	_, ok = c.Peek("a")
	assert.False(t, ok)
	assert.Equal(t, lru.Stats{Evictions: 1}, c.Stats())
}

func TestCache_Remove(t *testing.T) {
	c := newCache[int](t, 3)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3)

	assert.True(t, c.Remove("b"))
	assert.False(t, c.Remove("b"))
	assert.Equal(t, []string{"a", "c"}, c.Keys())

	assert.True(t, c.Remove("a"))
	assert.True(t, c.Remove("c"))
	assert.Empty(t, c.Keys())

	c.Put("d", 4)
	assert.Equal(t, []string{"d"}, c.Keys())
}

func TestCache_Purge(t *testing.T) {
	c := newCache[int](t, 2)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Purge()

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 2, c.Cap())
	c.Put("c", 3)
	assert.Equal(t, []string{"c"}, c.Keys())
}

func TestCache_OnEvict(t *testing.T) {
	var evicted []string
	c := newCache(t, 2, lru.WithOnEvict(func(k string, v int) {
		evicted = append(evicted, fmt.Sprintf("%s=%d", k, v))
	}))

	c.Put("a", 1)
	c.Put("b", 2)
	c.Remove("b")
	c.Put("c", 3)
	c.Put("d", 4)
	c.Put("e", 5)

	assert.Equal(t, []string{"a=1", "c=3"}, evicted)
}

func TestCache_OnEvictMayReenter(t *testing.T) {
	var c *lru.Cache[string, int]
	var lenInCallback int
	c = newCache(t, 1, lru.WithOnEvict(func(string, int) {
		lenInCallback = c.Len()
	}))
	c.Put("a", 1)
	c.Put("b", 2)
	assert.Equal(t, 1, lenInCallback)
}

func TestCache_Stats(t *testing.T) {
	c := newCache[int](t, 1)
	c.Put("a", 1)
	c.Get("a")
	c.Get("a")
	c.Get("missing")
	c.Put("b", 2)

	assert.Equal(t, lru.Stats{Hits: 2, Misses: 1, Evictions: 1}, c.Stats())
}

func TestCache_ConcurrentAccessKeepsCapacity(t *testing.T) {
	const capacity = 8
	c := newCache[int](t, capacity)

	var wg sync.WaitGroup
	for g := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				key := fmt.Sprintf("k%d", (g*7+i)%32)
				c.Put(key, i)
				c.Get(key)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, capacity, c.Len())
	assert.Len(t, c.Keys(), capacity)
}
