package task

import (
	"context"

	"github.com/samber/lo"
)

// MapLimit applies fn to every item with at most limit calls in flight. The
// outcomes line up with items.
func MapLimit[T, R any](
	ctx context.Context,
	items []T,
	limit int,
	fn func(ctx context.Context, item T, index int) (R, error),
	opts ...Option,
) ([]Outcome[R], error) {
	exec, err := NewExecutor[R](limit, opts...)
	if err != nil {
		return nil, err
	}
	tasks := lo.Map(items, func(item T, index int) Task[R] {
		return func(ctx context.Context) (R, error) {
			return fn(ctx, item, index)
		}
	})
	return exec.Run(ctx, tasks...), nil
}

// RunSequential runs tasks one after another in input order.
func RunSequential[R any](ctx context.Context, tasks ...Task[R]) []Outcome[R] {
	exec := &Executor[R]{limit: 1, opts: newOptions(nil)}
	return exec.Run(ctx, tasks...)
}
