package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/on-the-ground/boundrun/effects"
	effectmodel "github.com/on-the-ground/boundrun/effects/internal/model"
	"github.com/on-the-ground/boundrun/effects/log"
	"github.com/on-the-ground/boundrun/shared/helper"
)

// ErrUnexpectedPayload is returned when a payload's key or value type does not
// match the handler's.
var ErrUnexpectedPayload = errors.New("unexpected cache payload")

// WithEffectHandler registers a resumable, partitionable cache handler over store.
//
//   - Payloads are routed by key, so operations on one key apply in order.
//   - Different keys may be handled concurrently; store must allow that when
//     config.NumWorkers > 1.
//   - The teardown returns the parent context.
func WithEffectHandler[K comparable, V any](
	ctx context.Context,
	config effects.EffectScopeConfig,
	store Store[K, V],
) (context.Context, func() context.Context) {
	h := handler[K, V]{store: store, logCtx: ctx}
	return effects.WithResumablePartitionableEffectHandler(
		ctx,
		config,
		effectmodel.EffectCache,
		h.handle,
	)
}

// EffectGet looks key up. found is false when the store has no entry.
func EffectGet[K comparable, V any](ctx context.Context, key K) (value V, found bool, err error) {
	res, err := helper.GetTypedValueOf[lookup[V]](func() (any, error) {
		return effect(ctx, Get[K]{Key: key})
	})
	return res.value, res.found, err
}

func EffectPut[K comparable, V any](ctx context.Context, key K, value V) error {
	_, err := effect(ctx, Put[K, V]{Key: key, Value: value})
	return err
}

func EffectRemove[K comparable](ctx context.Context, key K) error {
	_, err := effect(ctx, Remove[K]{Key: key})
	return err
}

func effect(ctx context.Context, payload Payload) (any, error) {
	return effects.AwaitResumableEffect[Payload, any](ctx, effectmodel.EffectCache, payload)
}

type handler[K comparable, V any] struct {
	store  Store[K, V]
	logCtx context.Context
}

func (h handler[K, V]) handle(_ context.Context, payload Payload) (any, error) {
	switch p := payload.(type) {
	case Get[K]:
		v, ok, err := h.store.Get(p.Key)
		if err != nil {
			return nil, h.fail("get", p.Key, err)
		}
		return lookup[V]{value: v, found: ok}, nil
	case Put[K, V]:
		if err := h.store.Set(p.Key, p.Value); err != nil {
			return nil, h.fail("put", p.Key, err)
		}
		return nil, nil
	case Remove[K]:
		if err := h.store.Delete(p.Key); err != nil {
			return nil, h.fail("remove", p.Key, err)
		}
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnexpectedPayload, payload)
	}
}

func (h handler[K, V]) fail(op string, key K, err error) error {
	log.TryLogEff(h.logCtx, log.LogWarn, "cache store failed", map[string]interface{}{
		"op":    op,
		"key":   key,
		"error": err.Error(),
	})
	return fmt.Errorf("cache %s %v: %w", op, key, err)
}
