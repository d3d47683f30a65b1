package handlers

import (
	"context"

	"go.uber.org/zap"

	effectmodel "github.com/on-the-ground/boundrun/effects/internal/model"
)

// ResumableResult is what a resumable handler sends back to the performer.
type ResumableResult[T any] struct {
	Value T
	Err   error
}

func ResumableResultFrom[R any](res R, err error) ResumableResult[R] {
	return ResumableResult[R]{Value: res, Err: err}
}

type ResumableEffectMessage[P any, R any] struct {
	Payload  P
	ResumeCh chan ResumableResult[R]
}

var _ effectmodel.Partitionable = ResumableEffectMessage[any, any]{}

func (rem ResumableEffectMessage[P, R]) PartitionKey() string {
	if p, ok := any(rem.Payload).(effectmodel.Partitionable); ok {
		return p.PartitionKey()
	}
	return ""
}

type ResumableHandler[P any, R any] struct {
	*effectScope[ResumableEffectMessage[P, R]]
}

// NewResumableHandler handles every payload on a single worker.
func NewResumableHandler[P any, R any](
	ctx context.Context,
	bufferSize int,
	handleFn func(context.Context, P) (R, error),
	teardown func(),
) ResumableHandler[P, R] {
	ctx, cancelFn := context.WithCancel(ctx)
	return ResumableHandler[P, R]{
		effectScope: newEffectScope(
			NewSingleQueue(ctx, bufferSize, resume(handleFn), abandon[P, R]),
			cancelFn,
			teardown,
		),
	}
}

// NewPartitionableResumableHandler spreads payloads over config.NumWorkers
// workers by PartitionKey.
func NewPartitionableResumableHandler[P effectmodel.Partitionable, R any](
	ctx context.Context,
	config effectmodel.EffectScopeConfig,
	handleFn func(context.Context, P) (R, error),
	teardown func(),
) ResumableHandler[P, R] {
	ctx, cancelFn := context.WithCancel(ctx)
	return ResumableHandler[P, R]{
		effectScope: newEffectScope(
			NewPartitionedQueue(ctx, config.NumWorkers, config.BufferSize, resume(handleFn), abandon[P, R]),
			cancelFn,
			teardown,
		),
	}
}

func resume[P any, R any](
	handleFn func(context.Context, P) (R, error),
) func(context.Context, ResumableEffectMessage[P, R]) {
	return func(ctx context.Context, msg ResumableEffectMessage[P, R]) {
		defer close(msg.ResumeCh)
		// ResumeCh has room for the single result.
		msg.ResumeCh <- ResumableResultFrom(handleFn(ctx, msg.Payload))
	}
}

// abandon releases the performer of a message the handler never got to.
func abandon[P any, R any](msg ResumableEffectMessage[P, R]) {
	close(msg.ResumeCh)
}

// PerformEffect hands payload to a worker. The returned channel yields at most
// one result and is closed afterwards; it is closed without a result when ctx
// is done first or the handler is closed before handling payload.
func (rh ResumableHandler[P, R]) PerformEffect(ctx context.Context, payload P) <-chan ResumableResult[R] {
	resumeCh := make(chan ResumableResult[R], 1)
	msg := ResumableEffectMessage[P, R]{
		Payload:  payload,
		ResumeCh: resumeCh,
	}

	if !rh.send(ctx, msg) {
		if ctx.Err() == nil {
			zap.L().Warn("effect performed on a closed handler",
				zap.String("effectId", rh.EffectId),
				zap.Any("payload", payload),
			)
		}
		close(resumeCh)
	}
	return resumeCh
}
