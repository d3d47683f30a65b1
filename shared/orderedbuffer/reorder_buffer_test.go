package orderedbuffer_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/on-the-ground/boundrun/shared/orderedbuffer"
)

func drain[T any](buf *orderedbuffer.ReorderBuffer[T]) []T {
	var got []T
	for v := range buf.Source() {
		got = append(got, v)
	}
	return got
}

func TestReorderBuffer_ReleasesInIndexOrder(t *testing.T) {
	ctx := context.Background()
	buf := orderedbuffer.NewReorderBuffer[string](5)

	require.NoError(t, buf.Insert(ctx, 2, "c"))
	require.NoError(t, buf.Insert(ctx, 4, "e"))
	assert.Equal(t, 0, buf.Released())

	require.NoError(t, buf.Insert(ctx, 0, "a"))
	assert.Equal(t, 1, buf.Released())

	require.NoError(t, buf.Insert(ctx, 1, "b"))
	assert.Equal(t, 3, buf.Released())

	require.NoError(t, buf.Insert(ctx, 3, "d"))
	assert.Equal(t, 5, buf.Released())

	assert.Equal(t, 0, buf.Close())
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, drain(buf))
}

func TestReorderBuffer_DuplicateIndex(t *testing.T) {
	ctx := context.Background()
	buf := orderedbuffer.NewReorderBuffer[int](4)

	require.NoError(t, buf.Insert(ctx, 0, 10))
	require.NoError(t, buf.Insert(ctx, 2, 30))

	assert.ErrorIs(t, buf.Insert(ctx, 0, 11), orderedbuffer.ErrDuplicateIndex, "already released")
	assert.ErrorIs(t, buf.Insert(ctx, 2, 31), orderedbuffer.ErrDuplicateIndex, "still held")
}

func TestReorderBuffer_InsertAfterClose(t *testing.T) {
	ctx := context.Background()
	buf := orderedbuffer.NewReorderBuffer[int](2)

	require.NoError(t, buf.Insert(ctx, 1, 2))
	assert.Equal(t, 1, buf.Close(), "index 1 is held behind the missing 0")
	assert.Equal(t, 0, buf.Close())

	assert.ErrorIs(t, buf.Insert(ctx, 0, 1), orderedbuffer.ErrClosedBuffer)
	assert.Empty(t, drain(buf))
}

func TestReorderBuffer_FullSinkRespectsContext(t *testing.T) {
	buf := orderedbuffer.NewReorderBuffer[int](0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, buf.Insert(ctx, 0, 1), context.Canceled)
}

func TestReorderBuffer_ConcurrentInserts(t *testing.T) {
	const n = 100
	ctx := context.Background()
	buf := orderedbuffer.NewReorderBuffer[int](n)

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, buf.Insert(ctx, n-1-i, n-1-i))
		}()
	}
	wg.Wait()
	buf.Close()

	got := drain(buf)
	require.Len(t, got, n)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}
