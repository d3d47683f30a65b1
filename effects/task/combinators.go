package task

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

var (
	ErrNoTasks   = errors.New("no tasks to race")
	ErrAllFailed = errors.New("all tasks failed")
)

// AllSettled waits for every task and reports each outcome in input order.
func (e *Executor[R]) AllSettled(ctx context.Context, tasks ...Task[R]) []Outcome[R] {
	return e.Run(ctx, tasks...)
}

// All returns every value in input order, or the first error in settlement
// order. On the first failure no further task is admitted and the context of
// those in flight is cancelled.
func (e *Executor[R]) All(ctx context.Context, tasks ...Task[R]) ([]R, error) {
	values := make([]R, len(tasks))
	var firstErr error
	e.each(ctx, tasks, func(settled Indexed[R]) bool {
		if settled.Err != nil {
			firstErr = fmt.Errorf("task %d: %w", settled.Index, settled.Err)
			return false
		}
		values[settled.Index] = settled.Value
		return true
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return values, nil
}

// Race returns the outcome of whichever task settles first, success or not.
func (e *Executor[R]) Race(ctx context.Context, tasks ...Task[R]) (R, error) {
	var zero R
	if len(tasks) == 0 {
		return zero, ErrNoTasks
	}
	var first Outcome[R]
	e.each(ctx, tasks, func(settled Indexed[R]) bool {
		first = settled.Outcome
		return false
	})
	return first.Value, first.Err
}

// Any returns the first successful value in settlement order. When every task
// fails the error matches ErrAllFailed and carries each task error in input
// order.
func (e *Executor[R]) Any(ctx context.Context, tasks ...Task[R]) (R, error) {
	var (
		zero  R
		found bool
		value R
	)
	errs := make([]error, len(tasks))
	e.each(ctx, tasks, func(settled Indexed[R]) bool {
		if settled.Err != nil {
			errs[settled.Index] = settled.Err
			return true
		}
		found, value = true, settled.Value
		return false
	})
	if found {
		return value, nil
	}
	return zero, multierr.Combine(append([]error{ErrAllFailed}, errs...)...)
}

// AllSettled runs every task at once. See Executor.AllSettled.
func AllSettled[R any](ctx context.Context, tasks ...Task[R]) []Outcome[R] {
	return unlimited[R]().AllSettled(ctx, tasks...)
}

// All runs every task at once. See Executor.All.
func All[R any](ctx context.Context, tasks ...Task[R]) ([]R, error) {
	return unlimited[R]().All(ctx, tasks...)
}

// Race runs every task at once. See Executor.Race.
func Race[R any](ctx context.Context, tasks ...Task[R]) (R, error) {
	return unlimited[R]().Race(ctx, tasks...)
}

// Any runs every task at once. See Executor.Any.
func Any[R any](ctx context.Context, tasks ...Task[R]) (R, error) {
	return unlimited[R]().Any(ctx, tasks...)
}
