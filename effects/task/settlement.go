package task

import (
	"context"
	"fmt"
	"time"

	"github.com/on-the-ground/boundrun/effects"
	"github.com/on-the-ground/boundrun/shared/metrics"
)

// settlementSet holds the in-flight tasks of one run. Every launched task
// delivers exactly one Indexed on settled; next yields them in delivery order.
type settlementSet[R any] struct {
	settled  chan Indexed[R]
	inFlight int
	metrics  *metrics.Executor
}

// newSettlementSet sizes the channel for every task of the run, so a settling
// task never blocks even after the run stopped reading.
func newSettlementSet[R any](numTasks int, m *metrics.Executor) *settlementSet[R] {
	return &settlementSet[R]{
		settled: make(chan Indexed[R], numTasks),
		metrics: m,
	}
}

func (s *settlementSet[R]) len() int {
	return s.inFlight
}

func (s *settlementSet[R]) launch(ctx context.Context, index int, t Task[R]) {
	s.inFlight++
	if s.metrics != nil {
		s.metrics.RecordStart()
	}
	go func() {
		o := invoke(ctx, t)
		if s.metrics != nil {
			s.metrics.RecordSettle(o.OK(), o.Span.Duration())
		}
		s.settled <- Indexed[R]{Index: index, Outcome: o}
	}()
}

// next blocks until one in-flight task settles and removes it from the set.
func (s *settlementSet[R]) next() Indexed[R] {
	settled := <-s.settled
	s.inFlight--
	return settled
}

func invoke[R any](ctx context.Context, t Task[R]) (o Outcome[R]) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			o = Outcome[R]{Err: fmt.Errorf("%w: %v", ErrTaskPanicked, r)}
		}
		o.Span = effects.Since(start)
	}()
	v, err := t(ctx)
	return Outcome[R]{Value: v, Err: err}
}
