// Package helper resolves the handler an effect is performed against.
package helper

import (
	"context"
	"errors"
	"fmt"

	effectmodel "github.com/on-the-ground/boundrun/effects/internal/model"
)

// ErrHandlerTypeMismatch means a handler is registered for the enum, but for
// other payload or result types than the performer uses.
var ErrHandlerTypeMismatch = errors.New("effect handler has a different type")

// LookupHandler returns the handler registered for enum in ctx as H.
func LookupHandler[H any](ctx context.Context, enum effectmodel.EffectEnum) (H, error) {
	var zero H
	raw := ctx.Value(enum)
	if raw == nil {
		return zero, fmt.Errorf("%w: %v", effectmodel.ErrNoEffectHandler, enum)
	}
	h, ok := raw.(H)
	if !ok {
		return zero, fmt.Errorf("%w: %v is served by %T, performed as %T", ErrHandlerTypeMismatch, enum, raw, zero)
	}
	return h, nil
}

// MustLookupHandler panics where LookupHandler would fail. Performing an
// effect outside its handler scope is a programming error.
func MustLookupHandler[H any](ctx context.Context, enum effectmodel.EffectEnum) H {
	h, err := LookupHandler[H](ctx, enum)
	if err != nil {
		panic(err)
	}
	return h
}

// Registered reports whether any handler for enum is visible from ctx.
func Registered(ctx context.Context, enum effectmodel.EffectEnum) bool {
	return ctx.Value(enum) != nil
}
