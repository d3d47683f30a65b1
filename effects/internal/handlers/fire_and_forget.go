package handlers

import (
	"context"

	"go.uber.org/zap"
)

type FireAndForgetHandler[P any] struct {
	*effectScope[P]
}

// NewFireAndForgetHandler handles payloads on a single worker without
// reporting anything back to the performer. Payloads accepted before Close are
// still handled, with a done context.
func NewFireAndForgetHandler[P any](
	ctx context.Context,
	bufferSize int,
	handleFn func(context.Context, P),
	teardown func(),
) FireAndForgetHandler[P] {
	ctx, cancelFn := context.WithCancel(ctx)
	return FireAndForgetHandler[P]{
		effectScope: newEffectScope(
			NewSingleQueue(ctx, bufferSize, handleFn, func(payload P) { handleFn(ctx, payload) }),
			cancelFn,
			teardown,
		),
	}
}

func (ffh FireAndForgetHandler[P]) FireAndForgetEffect(ctx context.Context, payload P) {
	if !ffh.send(ctx, payload) && ctx.Err() == nil {
		zap.L().Warn("effect performed on a closed handler",
			zap.String("effectId", ffh.EffectId),
			zap.Any("payload", payload),
		)
	}
}
