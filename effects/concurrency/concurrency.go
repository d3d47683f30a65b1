package concurrency

import (
	"context"
	"sync"

	"github.com/on-the-ground/boundrun/effects"
	effectmodel "github.com/on-the-ground/boundrun/effects/internal/model"
	"github.com/on-the-ground/boundrun/effects/log"
)

// WithEffectHandler installs a fire-and-forget concurrency effect handler.
//
// It allows `Eff(ctx, fns...)` to spawn goroutines under a managed scope.
//
//   - Children keep the values of ctx but are cancelled only when ctx is.
//   - The returned teardown blocks until every spawned child has returned.
//   - Payloads performed after teardown are dropped.
func WithEffectHandler(
	ctx context.Context,
	bufferSize int,
) (context.Context, func() context.Context) {
	sv := &supervisor{
		scope:   context.WithoutCancel(ctx),
		cancels: make(map[uint64]context.CancelFunc),
		doneCh:  make(chan struct{}),
	}
	sv.watchParentCancel(ctx)

	return effects.WithFireAndForgetEffectHandler(
		ctx,
		bufferSize,
		effectmodel.EffectConcurrency,
		sv.spawnChildren,
		func() {
			sv.waitChildren(ctx)
			close(sv.doneCh)
		},
	)
}

// Eff hands fns to the concurrency handler in ctx. Each fn runs in its own goroutine.
func Eff(ctx context.Context, fns ...func(context.Context)) {
	effects.FireAndForgetEffect[Payload](ctx, effectmodel.EffectConcurrency, fns)
}

type Payload []func(context.Context)

// supervisor tracks the children of one concurrency scope.
type supervisor struct {
	scope context.Context

	mu      sync.Mutex
	wg      sync.WaitGroup
	nextID  uint64
	cancels map[uint64]context.CancelFunc
	closed  bool

	doneCh chan struct{}
}

// watchParentCancel cancels every child once the parent context is done.
func (s *supervisor) watchParentCancel(parent context.Context) {
	ready := make(chan struct{})
	go func() {
		close(ready)
		select {
		case <-parent.Done():
			log.TryLogEff(s.scope, log.LogInfo, "context cancelled, cancelling child routines", nil)
			s.mu.Lock()
			for _, cancel := range s.cancels {
				cancel()
			}
			s.mu.Unlock()
		case <-s.doneCh:
		}
	}()
	<-ready
}

func (s *supervisor) spawnChildren(_ context.Context, fns Payload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		log.TryLogEff(s.scope, log.LogWarn, "concurrency scope closed, dropping routines", map[string]interface{}{
			"count": len(fns),
		})
		return
	}

	for _, fn := range fns {
		childCtx, cancel := context.WithCancel(s.scope)
		id := s.nextID
		s.nextID++
		s.cancels[id] = cancel
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.forget(id)
			defer func() {
				if r := recover(); r != nil {
					log.TryLogEff(s.scope, log.LogError, "panic in child routine", map[string]interface{}{
						"error": r,
					})
				}
			}()
			fn(childCtx)
		}()
	}
}

// forget cancels and drops the child id once it has returned.
func (s *supervisor) forget(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cancel, ok := s.cancels[id]; ok {
		cancel()
		delete(s.cancels, id)
	}
}

// running reports how many children have not returned yet.
func (s *supervisor) running() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cancels)
}

// waitChildren refuses new children, then blocks until the running ones return.
func (s *supervisor) waitChildren(ctx context.Context) {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	log.TryLogEff(ctx, log.LogDebug, "waiting for all routines to finish", nil)
	s.wg.Wait()
	log.TryLogEff(ctx, log.LogDebug, "all routines finished", nil)
}
