package binding

import (
	"context"
	"errors"
	"fmt"

	"github.com/on-the-ground/boundrun/effects"
	effectmodel "github.com/on-the-ground/boundrun/effects/internal/model"
	"github.com/on-the-ground/boundrun/shared/helper"
)

// GetTyped fetches key and asserts it to T.
func GetTyped[T any](ctx context.Context, key string) (T, error) {
	return helper.GetTypedValueOf[T](func() (any, error) {
		return Effect(ctx, key)
	})
}

// MustGetTyped is the panic-on-failure variant of GetTyped.
func MustGetTyped[T any](ctx context.Context, key string) T {
	return helper.MustGetTypedValue[T](func() (any, error) {
		return Effect(ctx, key)
	})
}

// GetOr returns the bound value for key, or def when there is no binding scope
// in ctx or the key is unbound. A bound value of the wrong type is an error.
func GetOr[T any](ctx context.Context, key string, def T) (T, error) {
	if !effects.HasHandler(ctx, effectmodel.EffectBinding) {
		return def, nil
	}
	v, err := GetTyped[T](ctx, key)
	switch {
	case errors.Is(err, ErrKeyNotFound):
		return def, nil
	case err != nil:
		return v, fmt.Errorf("binding %s: %w", key, err)
	}
	return v, nil
}
