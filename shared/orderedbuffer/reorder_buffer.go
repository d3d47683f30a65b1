package orderedbuffer

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrClosedBuffer   = errors.New("buffer is closed")
	ErrDuplicateIndex = errors.New("index already inserted")
)

// ReorderBuffer accepts values tagged with a sequence index in any order and
// releases them on Source strictly by index, starting at 0. A value is held
// until every lower index has been released.
type ReorderBuffer[T any] struct {
	mu     sync.Mutex
	held   map[int]T
	next   int
	sink   chan T
	closed bool
}

// NewReorderBuffer returns a buffer whose Source can hold sinkSize released
// values before Insert blocks on the reader.
func NewReorderBuffer[T any](sinkSize int) *ReorderBuffer[T] {
	return &ReorderBuffer[T]{
		held: make(map[int]T),
		sink: make(chan T, max(sinkSize, 0)),
	}
}

// Insert stores val at index and releases the contiguous run that starts at
// the next expected index. It blocks while the sink is full, giving up when
// ctx is done.
func (b *ReorderBuffer[T]) Insert(ctx context.Context, index int, val T) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosedBuffer
	}
	if _, ok := b.held[index]; ok || index < b.next {
		return ErrDuplicateIndex
	}
	b.held[index] = val

	for {
		v, ok := b.held[b.next]
		if !ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case b.sink <- v:
		}
		delete(b.held, b.next)
		b.next++
	}
}

func (b *ReorderBuffer[T]) Source() <-chan T {
	return b.sink
}

// Released reports how many values have been sent to Source.
func (b *ReorderBuffer[T]) Released() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.next
}

// Close closes Source and returns the number of values still held behind a
// missing index. Closing twice is a no-op.
func (b *ReorderBuffer[T]) Close() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0
	}
	b.closed = true
	close(b.sink)
	dropped := len(b.held)
	clear(b.held)
	return dropped
}
