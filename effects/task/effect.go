package task

import (
	"context"

	"github.com/google/uuid"

	"github.com/on-the-ground/boundrun/effects"
	"github.com/on-the-ground/boundrun/effects/binding"
	"github.com/on-the-ground/boundrun/effects/concurrency"
	"github.com/on-the-ground/boundrun/effects/configkeys"
	effectmodel "github.com/on-the-ground/boundrun/effects/internal/model"
	"github.com/on-the-ground/boundrun/effects/log"
)

// Payload is one batch handed to the task effect handler.
type Payload[R any] struct {
	runID string
	tasks []Task[R]
}

func (p Payload[R]) PartitionKey() string {
	return p.runID
}

// WithEffectHandler registers exec as the task effect handler of the returned
// context.
//
//   - Each batch runs in a goroutine owned by a concurrency scope opened here,
//     so the tasks see the values of ctx and are cancelled with it.
//   - config.NumWorkers batches may run at the same time; more are queued.
//   - The teardown waits for running batches and returns the parent context.
//   - Batches still queued at teardown fail with effects.ErrHandlerClosed.
func WithEffectHandler[R any](
	ctx context.Context,
	config effectmodel.EffectScopeConfig,
	exec *Executor[R],
) (context.Context, func() context.Context) {
	return withEffectHandler(ctx, config, config.BufferSize, exec)
}

func withEffectHandler[R any](
	ctx context.Context,
	config effectmodel.EffectScopeConfig,
	concurrencyBufferSize int,
	exec *Executor[R],
) (context.Context, func() context.Context) {
	parent := ctx
	scopeCtx, endOfConcurrency := concurrency.WithEffectHandler(ctx, concurrencyBufferSize)

	handleFn := func(workerCtx context.Context, p Payload[R]) ([]Outcome[R], error) {
		done := make(chan []Outcome[R], 1)
		concurrency.Eff(scopeCtx, func(runCtx context.Context) {
			done <- exec.Run(runCtx, p.tasks...)
		})
		select {
		case outcomes := <-done:
			return outcomes, nil
		case <-workerCtx.Done():
			log.TryLogEff(scopeCtx, log.LogWarn, "task handler closed before run settled", map[string]interface{}{
				"run_id": p.runID,
			})
			return nil, workerCtx.Err()
		}
	}

	taskCtx, endOfTask := effects.WithResumablePartitionableEffectHandler(
		scopeCtx,
		config,
		effectmodel.EffectTask,
		handleFn,
	)
	return taskCtx, func() context.Context {
		endOfTask()
		endOfConcurrency()
		return parent
	}
}

// WithConfiguredEffectHandler reads the limit and handler sizing from the
// binding effect in ctx, falling back to one worker, a buffer of one and
// Unlimited. The concurrency scope buffer defaults to the handler buffer.
func WithConfiguredEffectHandler[R any](
	ctx context.Context,
	opts ...Option,
) (context.Context, func() context.Context, error) {
	bufferSize, err := binding.GetOr(ctx, configkeys.ConfigEffectTaskHandlerBufferSize, 1)
	if err != nil {
		return nil, nil, err
	}
	numWorkers, err := binding.GetOr(ctx, configkeys.ConfigEffectTaskHandlerNumWorkers, 1)
	if err != nil {
		return nil, nil, err
	}
	limit, err := binding.GetOr(ctx, configkeys.ConfigEffectTaskLimit, Unlimited)
	if err != nil {
		return nil, nil, err
	}
	concurrencyBufferSize, err := binding.GetOr(ctx, configkeys.ConfigEffectConcurrencyHandlerBufferSize, bufferSize)
	if err != nil {
		return nil, nil, err
	}
	exec, err := NewExecutor[R](limit, opts...)
	if err != nil {
		return nil, nil, err
	}
	ctx, end := withEffectHandler(ctx, effectmodel.NewEffectScopeConfig(bufferSize, numWorkers), concurrencyBufferSize, exec)
	return ctx, end, nil
}

// Eff runs tasks through the task effect handler in ctx and waits for every
// outcome. It panics if no handler is registered.
func Eff[R any](ctx context.Context, tasks ...Task[R]) ([]Outcome[R], error) {
	if len(tasks) == 0 {
		return []Outcome[R]{}, nil
	}
	return effects.AwaitResumableEffect[Payload[R], []Outcome[R]](
		ctx,
		effectmodel.EffectTask,
		Payload[R]{runID: uuid.NewString(), tasks: tasks},
	)
}
