package handlers

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// effectScope owns the workers of one registered handler.
//
// Sends and Close are serialized by mu: once Close has returned, no message
// can reach a worker channel, and every message accepted before it has been
// handled or drained.
type effectScope[T any] struct {
	EffectId   string
	dispatcher WorkerDispatcher[T]
	closeFn    func()

	mu     sync.RWMutex
	closed bool
}

// send hands msg to its worker. It reports false when the scope is closed or
// ctx is done first.
func (es *effectScope[T]) send(ctx context.Context, msg T) bool {
	es.mu.RLock()
	defer es.mu.RUnlock()
	if es.closed {
		return false
	}
	select {
	case <-ctx.Done():
		return false
	case es.dispatcher.GetChannelOf(msg) <- msg:
		return true
	}
}

// Close stops the workers, waits for them to drain, then runs the teardown.
// Closing twice is a no-op.
func (es *effectScope[T]) Close() {
	es.mu.Lock()
	if es.closed {
		es.mu.Unlock()
		return
	}
	es.closed = true
	es.mu.Unlock()

	es.closeFn()
	zap.L().Debug("effect scope closed", zap.String("effectId", es.EffectId))
}

func newEffectScope[T any](
	dispatcher WorkerDispatcher[T],
	cancelFn context.CancelFunc,
	teardown func(),
) *effectScope[T] {
	return &effectScope[T]{
		EffectId:   uuid.NewString(),
		dispatcher: dispatcher,
		closeFn: func() {
			cancelFn()
			<-dispatcher.Stopped()
			teardown()
		},
	}
}
