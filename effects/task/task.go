// Package task runs ordered batches of tasks with a bound on how many may be
// in flight at once, collecting one Outcome per task in input order.
package task

import (
	"context"
	"errors"

	"github.com/on-the-ground/boundrun/effects"
)

var (
	ErrInvalidLimit = errors.New("limit must be at least 1")
	ErrTaskPanicked = errors.New("task panicked")
)

// Task is one unit of work. The context is the caller's run context.
type Task[R any] func(context.Context) (R, error)

// Outcome is the settled result of one task.
type Outcome[R any] struct {
	Value R
	Err   error
	// Span runs from admission to settlement.
	Span effects.TimeSpan
}

func (o Outcome[R]) OK() bool {
	return o.Err == nil
}

// Indexed tags an Outcome with the input position of its task.
type Indexed[R any] struct {
	Index int
	Outcome[R]
}

// Values returns the successful values in input order and the errors of the
// failed outcomes, also in input order.
func Values[R any](outcomes []Outcome[R]) ([]R, []error) {
	values := make([]R, 0, len(outcomes))
	var errs []error
	for _, o := range outcomes {
		if o.Err != nil {
			errs = append(errs, o.Err)
			continue
		}
		values = append(values, o.Value)
	}
	return values, errs
}
