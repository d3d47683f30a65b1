package task_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/on-the-ground/boundrun/effects/task"
)

func TestCancelable_CancelBeforeRunSkipsTask(t *testing.T) {
	invoked := false
	wrapped, cancel := task.Cancelable(func(context.Context) (int, error) {
		invoked = true
		return 1, nil
	})
	cancel()
	cancel()

	_, err := wrapped(context.Background())
	assert.ErrorIs(t, err, task.ErrCanceled)
	assert.False(t, invoked)
}

func TestCancelable_CancelWhileRunning(t *testing.T) {
	started := make(chan struct{})
	innerCtxErr := make(chan error, 1)
	wrapped, cancel := task.Cancelable(func(ctx context.Context) (int, error) {
		close(started)
		<-ctx.Done()
		innerCtxErr <- ctx.Err()
		return 1, nil
	})

	go func() {
		<-started
		cancel()
	}()

	outcomes := newExecutor(t, 1).Run(context.Background(), wrapped)
	assert.ErrorIs(t, outcomes[0].Err, task.ErrCanceled)

	select {
	case err := <-innerCtxErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("inner task context was not cancelled")
	}
}

func TestCancelable_NotCancelled(t *testing.T) {
	wrapped, cancel := task.Cancelable(func(context.Context) (int, error) {
		return 7, nil
	})
	defer cancel()

	v, err := wrapped(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestCancelable_RecoversInnerPanic(t *testing.T) {
	wrapped, cancel := task.Cancelable(func(context.Context) (int, error) {
		panic("inner")
	})
	defer cancel()

	_, err := wrapped(context.Background())
	assert.ErrorIs(t, err, task.ErrTaskPanicked)
}
