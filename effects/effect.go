package effects

import (
	"context"

	"go.uber.org/zap"

	"github.com/on-the-ground/boundrun/effects/internal/handlers"
	"github.com/on-the-ground/boundrun/effects/internal/helper"
	effectmodel "github.com/on-the-ground/boundrun/effects/internal/model"
)

// WithResumablePartitionableEffectHandler registers a resumable effect handler for a given effect enum.
//
// Payloads are spread over config.NumWorkers workers by PartitionKey(), so
// payloads sharing a key are handled in order. Suitable for keyed state such as
// cache entries.
//
// Usage:
//
//	ctx, end := WithResumablePartitionableEffectHandler(ctx, config, MyEffectEnum, handleFn)
//	defer end()
func WithResumablePartitionableEffectHandler[P effectmodel.Partitionable, R any](
	ctx context.Context,
	config effectmodel.EffectScopeConfig,
	enum effectmodel.EffectEnum,
	handleFn func(context.Context, P) (R, error),
	teardown ...func(),
) (context.Context, func() context.Context) {
	handler := handlers.NewPartitionableResumableHandler(ctx, config, handleFn, normalizeTeardown(teardown))
	return register(ctx, enum, handler.EffectId, handler.Close, handler)
}

// WithResumableEffectHandler registers a resumable effect handler served by a
// single worker.
func WithResumableEffectHandler[P any, R any](
	ctx context.Context,
	bufferSize int,
	enum effectmodel.EffectEnum,
	handleFn func(context.Context, P) (R, error),
	teardown ...func(),
) (context.Context, func() context.Context) {
	handler := handlers.NewResumableHandler(ctx, bufferSize, handleFn, normalizeTeardown(teardown))
	return register(ctx, enum, handler.EffectId, handler.Close, handler)
}

// PerformResumableEffect sends a payload to the resumable effect handler and
// returns the channel its result will arrive on.
//
// Panics if no handler is registered for the given effect enum.
func PerformResumableEffect[P any, R any](
	ctx context.Context,
	enum effectmodel.EffectEnum,
	payload P,
) <-chan handlers.ResumableResult[R] {
	handler := helper.MustLookupHandler[handlers.ResumableHandler[P, R]](ctx, enum)
	return handler.PerformEffect(ctx, payload)
}

// AwaitResumableEffect performs the effect and blocks for its result or ctx.
func AwaitResumableEffect[P any, R any](
	ctx context.Context,
	enum effectmodel.EffectEnum,
	payload P,
) (R, error) {
	select {
	case res, ok := <-PerformResumableEffect[P, R](ctx, enum, payload):
		if ok {
			return res.Value, res.Err
		}
	case <-ctx.Done():
	}
	var zero R
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	return zero, ErrHandlerClosed
}

// WithFireAndForgetEffectHandler registers a fire-and-forget effect handler for a given effect enum.
//
// Suitable for one-shot effects like logging or spawning background work.
func WithFireAndForgetEffectHandler[P any](
	ctx context.Context,
	bufferSize int,
	enum effectmodel.EffectEnum,
	handleFn func(context.Context, P),
	teardown ...func(),
) (context.Context, func() context.Context) {
	handler := handlers.NewFireAndForgetHandler(ctx, bufferSize, handleFn, normalizeTeardown(teardown))
	return register(ctx, enum, handler.EffectId, handler.Close, handler)
}

// FireAndForgetEffect hands payload to the handler without waiting.
//
// Panics if no handler is registered for the given enum.
func FireAndForgetEffect[P any](
	ctx context.Context,
	enum effectmodel.EffectEnum,
	payload P,
) {
	handler := helper.MustLookupHandler[handlers.FireAndForgetHandler[P]](ctx, enum)
	handler.FireAndForgetEffect(ctx, payload)
}

// HasHandler reports whether a handler for enum is visible from ctx.
func HasHandler(ctx context.Context, enum effectmodel.EffectEnum) bool {
	return helper.Registered(ctx, enum)
}

func register(
	ctx context.Context,
	enum effectmodel.EffectEnum,
	effectId string,
	closeFn func(),
	handler any,
) (context.Context, func() context.Context) {
	ctxWith := context.WithValue(ctx, enum, handler)
	zap.L().Debug("created effect handler", zap.String("effectId", effectId), zap.String("enum", string(enum)))

	return ctxWith, func() context.Context {
		closeFn()
		zap.L().Debug("closed effect handler", zap.String("effectId", effectId), zap.String("enum", string(enum)))
		return ctx
	}
}

// normalizeTeardown flattens optional teardown functions into a single callable.
//
// Accepts either 0 or 1 teardown functions. Panics if more than one is passed.
func normalizeTeardown(teardown []func()) func() {
	switch len(teardown) {
	case 1:
		return teardown[0]
	case 0:
		return func() {}
	default:
		panic("normalizeTeardown: only one or zero teardown functions allowed")
	}
}
