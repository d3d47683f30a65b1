package task

import (
	"context"
	"math"

	"github.com/gammazero/deque"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/on-the-ground/boundrun/shared/orderedbuffer"
)

// Unlimited admits every task of a run at once.
const Unlimited = math.MaxInt

// Executor runs batches of tasks with at most Limit of them in flight.
// It keeps no state between runs and may be shared by concurrent callers;
// the limit applies to each run separately.
type Executor[R any] struct {
	limit int
	opts  options
}

func NewExecutor[R any](limit int, opts ...Option) (*Executor[R], error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}
	return &Executor[R]{limit: limit, opts: newOptions(opts)}, nil
}

func (e *Executor[R]) Limit() int {
	return e.limit
}

// Run starts the tasks in input order, admitting the next one as soon as any
// in-flight task settles, and returns once every task has settled. A failed
// or panicking task only affects its own Outcome. The result is aligned with
// tasks and never nil.
func (e *Executor[R]) Run(ctx context.Context, tasks ...Task[R]) []Outcome[R] {
	results := make([]Outcome[R], len(tasks))
	if len(tasks) == 0 {
		return results
	}
	e.each(ctx, tasks, func(settled Indexed[R]) bool {
		results[settled.Index] = settled.Outcome
		return true
	})
	return results
}

// Stream runs tasks like Run but emits each Outcome as soon as it and every
// task before it have settled. The channel is closed after the last one, and
// carries one Outcome per task even when ctx is done.
func (e *Executor[R]) Stream(ctx context.Context, tasks ...Task[R]) <-chan Indexed[R] {
	buf := orderedbuffer.NewReorderBuffer[Indexed[R]](len(tasks))
	// The sink holds every outcome of the run, so Insert never blocks.
	insertCtx := context.WithoutCancel(ctx)
	go func() {
		defer buf.Close()
		e.each(ctx, tasks, func(settled Indexed[R]) bool {
			return buf.Insert(insertCtx, settled.Index, settled) == nil
		})
	}()
	return buf.Source()
}

// each is the admission loop shared by every entry point. yield sees each
// settlement in delivery order; returning false stops admitting pending tasks
// and cancels the context of those still in flight. Tasks already in flight
// settle in the background.
func (e *Executor[R]) each(ctx context.Context, tasks []Task[R], yield func(Indexed[R]) bool) {
	runID := uuid.NewString()
	logger := e.opts.logger.With(zap.String("run_id", runID))
	if e.opts.metrics != nil {
		e.opts.metrics.RecordRun()
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var pending deque.Deque[int]
	for i := range tasks {
		pending.PushBack(i)
	}

	set := newSettlementSet[R](len(tasks), e.opts.metrics)
	logger.Debug("run started", zap.Int("tasks", len(tasks)), zap.Int("limit", e.limit))

	settledCount, failed := 0, 0
	for pending.Len() > 0 || set.len() > 0 {
		for pending.Len() > 0 && set.len() < e.limit {
			i := pending.PopFront()
			set.launch(runCtx, i, tasks[i])
		}

		settled := set.next()
		settledCount++
		if !settled.OK() {
			failed++
		}
		if !yield(settled) {
			logger.Debug("run stopped early",
				zap.Int("settled", settledCount),
				zap.Int("abandoned", set.len()),
				zap.Int("not_started", pending.Len()),
			)
			return
		}
	}
	logger.Debug("run finished", zap.Int("tasks", len(tasks)), zap.Int("failed", failed))
}

// Run builds a one-off Executor with limit and runs tasks on it.
func Run[R any](ctx context.Context, limit int, tasks ...Task[R]) ([]Outcome[R], error) {
	exec, err := NewExecutor[R](limit)
	if err != nil {
		return nil, err
	}
	return exec.Run(ctx, tasks...), nil
}

func unlimited[R any]() *Executor[R] {
	return &Executor[R]{limit: Unlimited, opts: newOptions(nil)}
}
