package task

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var ErrCanceled = errors.New("task canceled")

// Cancelable wraps t with a cancel handle. Once cancel is called the wrapped
// task settles with ErrCanceled right away, whatever t eventually returns, and
// the context given to t is cancelled. Cancelling before the wrapped task is
// invoked means t never runs. cancel is safe to call more than once.
func Cancelable[R any](t Task[R]) (Task[R], context.CancelFunc) {
	canceled := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() { close(canceled) })
	}

	wrapped := func(ctx context.Context) (R, error) {
		var zero R
		select {
		case <-canceled:
			return zero, ErrCanceled
		default:
		}

		ctx, stop := context.WithCancel(ctx)
		defer stop()

		type result struct {
			value R
			err   error
		}
		done := make(chan result, 1)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					done <- result{err: fmt.Errorf("%w: %v", ErrTaskPanicked, r)}
				}
			}()
			v, err := t(ctx)
			done <- result{v, err}
		}()

		select {
		case res := <-done:
			select {
			case <-canceled:
				return zero, ErrCanceled
			default:
			}
			return res.value, res.err
		case <-canceled:
			return zero, ErrCanceled
		}
	}
	return wrapped, cancel
}
