package handlers

import (
	"context"
	"sync"

	effectmodel "github.com/on-the-ground/boundrun/effects/internal/model"
)

// WorkerDispatcher picks the worker channel a message must be sent to.
type WorkerDispatcher[T any] interface {
	GetChannelOf(msg T) chan T
	// Stopped is closed once every worker has drained its channel and returned.
	Stopped() <-chan struct{}
}

type singleQueue[T any] struct {
	effectCh chan T
	stopped  chan struct{}
}

func (q singleQueue[T]) GetChannelOf(_ T) chan T {
	return q.effectCh
}

func (q singleQueue[T]) Stopped() <-chan struct{} {
	return q.stopped
}

// NewSingleQueue starts one worker that handles every message in arrival order.
// Once ctx is done the worker passes whatever is still buffered to drainFn,
// closes its channel and stops.
func NewSingleQueue[T any](
	ctx context.Context,
	bufferSize int,
	handleFn func(context.Context, T),
	drainFn func(T),
) WorkerDispatcher[T] {
	q := singleQueue[T]{
		effectCh: make(chan T, bufferSize),
		stopped:  make(chan struct{}),
	}
	ready := make(chan struct{})
	go func() {
		defer close(q.stopped)
		close(ready)
		runWorker(ctx, q.effectCh, handleFn, drainFn)
	}()
	<-ready
	return q
}

type partitionedQueue[T effectmodel.Partitionable] struct {
	effectChs []chan T
	stopped   chan struct{}
}

func (pq partitionedQueue[T]) GetChannelOf(msg T) chan T {
	return pq.effectChs[getIndexByHash(msg, len(pq.effectChs))]
}

func (pq partitionedQueue[T]) Stopped() <-chan struct{} {
	return pq.stopped
}

// NewPartitionedQueue starts numWorkers workers. Messages sharing a
// PartitionKey always land on the same worker, so they are handled in order.
func NewPartitionedQueue[T effectmodel.Partitionable](
	ctx context.Context,
	numWorkers, bufferSize int,
	handleFn func(context.Context, T),
	drainFn func(T),
) WorkerDispatcher[T] {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	pq := partitionedQueue[T]{
		effectChs: make([]chan T, numWorkers),
		stopped:   make(chan struct{}),
	}
	var ready, running sync.WaitGroup
	for i := range pq.effectChs {
		ch := make(chan T, bufferSize)
		pq.effectChs[i] = ch
		ready.Add(1)
		running.Add(1)
		go func() {
			defer running.Done()
			ready.Done()
			runWorker(ctx, ch, handleFn, drainFn)
		}()
	}
	ready.Wait()
	go func() {
		running.Wait()
		close(pq.stopped)
	}()
	return pq
}

func runWorker[T any](ctx context.Context, ch chan T, handleFn func(context.Context, T), drainFn func(T)) {
	defer close(ch)
	for {
		select {
		case msg := <-ch:
			handleFn(ctx, msg)
		case <-ctx.Done():
			for {
				select {
				case msg := <-ch:
					drainFn(msg)
				default:
					return
				}
			}
		}
	}
}
