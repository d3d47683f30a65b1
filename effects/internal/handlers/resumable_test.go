package handlers_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/on-the-ground/boundrun/effects/internal/handlers"
	effectmodel "github.com/on-the-ground/boundrun/effects/internal/model"
)

func TestResumableHandler_ReturnsResult(t *testing.T) {
	ctx := context.Background()
	handler := handlers.NewResumableHandler(ctx, 1, func(_ context.Context, s string) (int, error) {
		return len(s), nil
	}, func() {})
	defer handler.Close()

	select {
	case res, ok := <-handler.PerformEffect(ctx, "boundrun"):
		require.True(t, ok)
		assert.NoError(t, res.Err)
		assert.Equal(t, 8, res.Value)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for result")
	}
}

func TestResumableHandler_PropagatesError(t *testing.T) {
	ctx := context.Background()
	errEmpty := errors.New("empty")
	handler := handlers.NewResumableHandler(ctx, 1, func(_ context.Context, s string) (int, error) {
		if s == "" {
			return 0, errEmpty
		}
		return len(s), nil
	}, func() {})
	defer handler.Close()

	res := <-handler.PerformEffect(ctx, "")
	assert.ErrorIs(t, res.Err, errEmpty)
}

func TestResumableHandler_ClosedHandlerClosesChannel(t *testing.T) {
	ctx := context.Background()
	handler := handlers.NewResumableHandler(ctx, 1, func(_ context.Context, s string) (string, error) {
		return strings.ToUpper(s), nil
	}, func() {})
	handler.Close()

	select {
	case _, ok := <-handler.PerformEffect(ctx, "x"):
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("result channel was never closed")
	}
}

func TestPartitionableResumableHandler_RoutesByKey(t *testing.T) {
	ctx := context.Background()
	handler := handlers.NewPartitionableResumableHandler(
		ctx,
		effectmodel.NewEffectScopeConfig(4, 3),
		func(_ context.Context, op keyedOp) (string, error) {
			return op.key, nil
		},
		func() {},
	)
	defer handler.Close()

	for _, key := range []string{"a", "b", "c", "d"} {
		res := <-handler.PerformEffect(ctx, keyedOp{key: key})
		assert.Equal(t, key, res.Value)
	}
}

func TestResumableHandler_CloseReleasesQueuedPerformers(t *testing.T) {
	ctx := context.Background()
	entered := make(chan struct{})
	release := make(chan struct{})
	handler := handlers.NewResumableHandler(ctx, 4, func(_ context.Context, n int) (int, error) {
		if n == 0 {
			close(entered)
			<-release
		}
		return n, nil
	}, func() {})

	first := handler.PerformEffect(ctx, 0)
	<-entered
	queued := []<-chan handlers.ResumableResult[int]{
		handler.PerformEffect(ctx, 1),
		handler.PerformEffect(ctx, 2),
	}

	closed := make(chan struct{})
	go func() {
		handler.Close()
		close(closed)
	}()
	close(release)

	select {
	case res, ok := <-first:
		require.True(t, ok)
		assert.Equal(t, 0, res.Value)
	case <-time.After(time.Second):
		t.Fatal("in-flight performer never resumed")
	}
	for i, ch := range queued {
		select {
		case res, ok := <-ch:
			if ok {
				assert.Equal(t, i+1, res.Value)
			}
		case <-time.After(time.Second):
			t.Fatalf("queued performer %d was left hanging", i+1)
		}
	}
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("Close did not return")
	}
}
