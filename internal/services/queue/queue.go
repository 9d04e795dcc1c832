// Package queue provides the unbounded per-worker FIFO used by the pinned
// pool.
//
// Pop may suspend the caller until an item is available. How it waits is a
// policy chosen at construction:
//
//   - Block: park on a sync.Cond until Push signals. No CPU is burnt while
//     the queue is empty.
//   - Spin: opt-in. Poll with non-blocking checks in a tight loop, never
//     yielding or sleeping. Lowest hand-off latency at the cost of a fully busy core per
//     waiting consumer. Only sensible when every consumer owns a core.
//
// The queue never refuses a Push: there is no capacity bound, so a producer
// that outpaces its consumers grows memory without limit.
package queue

import (
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

// Mode selects how Pop waits on an empty queue.
type Mode int

const (
	Block Mode = iota
	Spin
)

func (m Mode) String() string {
	switch m {
	case Block:
		return "block"
	case Spin:
		return "spin"
	default:
		return "unknown"
	}
}

// ParseMode maps "block" / "spin" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "block", "":
		return Block, nil
	case "spin":
		return Spin, nil
	default:
		return Block, errors.Errorf("unknown wait mode %q (want spin or block)", s)
	}
}

// Queue is an unbounded FIFO safe for one or more producers and consumers.
type Queue[T any] struct {
	mode  Mode
	mu    sync.Mutex
	cond  *sync.Cond
	items []T
	head  int
	size  atomic.Int64 // readable without the lock
}

// New creates an empty queue.
func New[T any](mode Mode) *Queue[T] {
	q := &Queue[T]{mode: mode}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Mode returns the wait policy.
func (q *Queue[T]) Mode() Mode {
	return q.mode
}

// Push appends v and wakes one blocked consumer.
func (q *Queue[T]) Push(v T) {
	q.mu.Lock()
	q.items = append(q.items, v)
	q.size.Add(1)
	q.mu.Unlock()

	if q.mode == Block {
		q.cond.Signal()
	}
}

// TryPop removes the oldest item without waiting.
func (q *Queue[T]) TryPop() (T, bool) {
	var zero T
	if q.size.Load() == 0 {
		return zero, false
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	return q.popLocked()
}

// Pop removes the oldest item, waiting according to the queue's Mode.
func (q *Queue[T]) Pop() T {
	if q.mode == Spin {
		for {
			if v, ok := q.TryPop(); ok {
				return v
			}
		}
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	for q.head == len(q.items) {
		q.cond.Wait()
	}
	v, _ := q.popLocked()
	return v
}

func (q *Queue[T]) popLocked() (T, bool) {
	var zero T
	if q.head == len(q.items) {
		return zero, false
	}

	v := q.items[q.head]
	q.items[q.head] = zero
	q.head++
	q.size.Add(-1)

	// Reclaim the consumed prefix once the queue drains.
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	}
	return v, true
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	return int(q.size.Load())
}

// Empty reports whether the queue holds no items. Lock-free.
func (q *Queue[T]) Empty() bool {
	return q.size.Load() == 0
}
