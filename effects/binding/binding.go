package binding

import (
	"context"
	"errors"
	"fmt"

	"github.com/on-the-ground/boundrun/effects"
	effectmodel "github.com/on-the-ground/boundrun/effects/internal/model"
)

// ErrKeyNotFound is returned when neither this scope nor any upper scope binds a key.
var ErrKeyNotFound = errors.New("key not found")

// Payload is the key looked up by the binding effect.
type Payload string

func (bp Payload) PartitionKey() string {
	return string(bp)
}

// WithEffectHandler registers a resumable, partitionable binding handler over
// bindingMap.
//
//   - Keys missing locally are delegated to the nearest upper binding scope.
//   - The teardown returns the parent context.
func WithEffectHandler(
	ctx context.Context,
	config effectmodel.EffectScopeConfig,
	bindingMap map[string]any,
) (context.Context, func() context.Context) {
	if bindingMap == nil {
		bindingMap = make(map[string]any)
	}
	bh := bindingHandler{bindingMap: bindingMap, upper: ctx}
	return effects.WithResumablePartitionableEffectHandler[Payload, any](
		ctx,
		config,
		effectmodel.EffectBinding,
		bh.handle,
	)
}

// Effect looks key up through the binding handler in ctx.
func Effect(ctx context.Context, key string) (any, error) {
	return effects.AwaitResumableEffect[Payload, any](ctx, effectmodel.EffectBinding, Payload(key))
}

type bindingHandler struct {
	bindingMap map[string]any
	upper      context.Context
}

// handle answers from the local map, falling back to the scope that was
// current when the handler was registered.
func (bh bindingHandler) handle(_ context.Context, payload Payload) (any, error) {
	key := string(payload)
	if v, ok := bh.bindingMap[key]; ok {
		return v, nil
	}
	if !effects.HasHandler(bh.upper, effectmodel.EffectBinding) {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return Effect(bh.upper, key)
}
