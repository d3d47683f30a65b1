// Package lease bounds how many owners may hold a named resource at once,
// across every run that shares the handler scope.
package lease

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/on-the-ground/boundrun/effects"
	effectmodel "github.com/on-the-ground/boundrun/effects/internal/model"
	"github.com/on-the-ground/boundrun/shared/helper"
)

var (
	ErrUnregisteredResource = errors.New("unregistered resource")
	ErrResourceInUse        = errors.New("unable to deregister resource in use")
	ErrAlreadyRegistered    = errors.New("resource already registered")
	ErrInvalidOwners        = errors.New("number of owners must be at least 1")
	ErrNotHeld              = errors.New("lease not held")
)

// WithInMemoryEffectHandler registers a lease handler keeping its permits in memory.
// The teardown returns the parent context.
func WithInMemoryEffectHandler(
	ctx context.Context,
	config effects.EffectScopeConfig,
) (context.Context, func() context.Context) {
	t := &table{permits: make(map[string]chan struct{})}
	return effects.WithResumablePartitionableEffectHandler(
		ctx,
		config,
		effectmodel.EffectLease,
		t.handle,
	)
}

// Register creates key with numOwners permits.
func Register(ctx context.Context, key string, numOwners int) error {
	if numOwners < 1 {
		return fmt.Errorf("%w: key %s", ErrInvalidOwners, key)
	}
	_, err := effect(ctx, register{Key: key, NumOwners: numOwners})
	return err
}

// Deregister removes key. It fails while any owner holds it.
func Deregister(ctx context.Context, key string) error {
	_, err := effect(ctx, deregister{Key: key})
	return err
}

// Acquire blocks until a permit of key is free or ctx is done.
func Acquire(ctx context.Context, key string) error {
	permits, err := permitsOf(ctx, key)
	if err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case permits <- struct{}{}:
		return nil
	}
}

// Release returns a permit of key.
func Release(ctx context.Context, key string) error {
	permits, err := permitsOf(ctx, key)
	if err != nil {
		return err
	}
	select {
	case <-permits:
		return nil
	default:
		return fmt.Errorf("%w: key %s", ErrNotHeld, key)
	}
}

// Leased wraps fn so that it runs while holding a permit of key.
func Leased[R any](key string, fn func(context.Context) (R, error)) func(context.Context) (R, error) {
	return func(ctx context.Context) (R, error) {
		if err := Acquire(ctx, key); err != nil {
			var zero R
			return zero, err
		}
		defer func() { _ = Release(context.WithoutCancel(ctx), key) }()
		return fn(ctx)
	}
}

func permitsOf(ctx context.Context, key string) (chan struct{}, error) {
	return helper.GetTypedValueOf[chan struct{}](func() (any, error) {
		return effect(ctx, lookup{Key: key})
	})
}

func effect(ctx context.Context, payload Payload) (any, error) {
	return effects.AwaitResumableEffect[Payload, any](ctx, effectmodel.EffectLease, payload)
}

// table holds one buffered channel per key; its length is the number of
// current owners. Workers own disjoint keys, but share the map.
type table struct {
	mu      sync.Mutex
	permits map[string]chan struct{}
}

func (t *table) handle(_ context.Context, payload Payload) (any, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch p := payload.(type) {
	case register:
		if _, ok := t.permits[p.Key]; ok {
			return nil, fmt.Errorf("%w: key %s", ErrAlreadyRegistered, p.Key)
		}
		t.permits[p.Key] = make(chan struct{}, p.NumOwners)
		return nil, nil
	case deregister:
		ch, ok := t.permits[p.Key]
		if !ok {
			return nil, fmt.Errorf("%w: key %s", ErrUnregisteredResource, p.Key)
		}
		if len(ch) != 0 {
			return nil, fmt.Errorf("%w: key %s", ErrResourceInUse, p.Key)
		}
		delete(t.permits, p.Key)
		return nil, nil
	case lookup:
		ch, ok := t.permits[p.Key]
		if !ok {
			return nil, fmt.Errorf("%w: key %s", ErrUnregisteredResource, p.Key)
		}
		return ch, nil
	default:
		panic(fmt.Sprintf("exhaustive match fallback, payload type: %T", payload))
	}
}
