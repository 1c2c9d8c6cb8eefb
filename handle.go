// Package lfqueue implements an unbounded, lock-free, multi-producer
// multi-consumer FIFO queue.
//
// The queue is a singly-linked list of fixed-size nodes. Producers advance
// a tail cursor and consumers advance a head cursor; neither side ever
// takes a lock, though an individual Push or Pop may briefly spin if it
// observes a neighbour installing or awaiting a successor node. See
// DESIGN.md for the protocol this package implements.
package lfqueue

import (
	"io"
	"sync/atomic"
)

const defaultNodeCapacity = 7

// Option configures a Queue at construction time.
type Option func(*config)

type config struct {
	nodeCapacity int
}

// WithNodeCapacity sets K, the number of data slots per node (capacity
// must be >= 2). Production code has no reason to change the default of 7;
// tests that want to exercise node-boundary and node-reclamation behaviour
// frequently use a small capacity such as 3 so that crossing a node
// boundary doesn't require thousands of pushes.
func WithNodeCapacity(capacity int) Option {
	return func(c *config) {
		if capacity < 2 {
			panic("lfqueue: node capacity must be >= 2")
		}
		c.nodeCapacity = capacity
	}
}

// Queue is a handle to an unbounded lock-free MPMC FIFO queue. A Queue
// value is cheap to copy by reference via Clone, and the zero value is not
// usable — construct one with New.
type Queue[T any] struct {
	shared *shared[T]
	closed atomic.Bool
}

// shared is the reference-counted inner queue. Go has no destructors, so
// the refcount is driven explicitly by Clone/Close rather than by scope
// exit; refs starts at 1 for the handle New returns.
type shared[T any] struct {
	inner *inner[T]
	refs  atomic.Int64
}

// New constructs an empty queue.
func New[T any](opts ...Option) *Queue[T] {
	cfg := config{nodeCapacity: defaultNodeCapacity}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &shared[T]{inner: newInner[T](cfg.nodeCapacity)}
	s.refs.Store(1)
	return &Queue[T]{shared: s}
}

// Clone returns a new handle sharing the same underlying queue. The
// returned handle must eventually be closed independently of q.
func (q *Queue[T]) Clone() *Queue[T] {
	q.shared.refs.Add(1)
	return &Queue[T]{shared: q.shared}
}

// Push enqueues item. Push never fails and never blocks on another
// goroutine beyond a brief spin.
func (q *Queue[T]) Push(item T) {
	q.shared.inner.push(item)
}

// Pop dequeues the next item in FIFO order. ok is false if the queue was
// observed empty at the moment of the call; a concurrent Push may make the
// queue non-empty again immediately afterwards.
func (q *Queue[T]) Pop() (value T, ok bool) {
	return q.shared.inner.pop()
}

// Close releases this handle. When the last handle sharing the underlying
// queue is closed, any payloads still enqueued are released: each is
// cleared so the garbage collector can reclaim it, and any payload
// implementing io.Closer has its Close method invoked on this goroutine.
// Close is idempotent: only the first call on a given handle releases its
// reference, and later calls on the same handle do nothing.
func (q *Queue[T]) Close() error {
	if !q.closed.CompareAndSwap(false, true) {
		return nil
	}
	if q.shared.refs.Add(-1) == 0 {
		q.shared.inner.releaseAll()
	}
	return nil
}

// closeIfCloser invokes Close on item if it implements io.Closer, mirroring
// a destructor running on the releasing goroutine. The error, if any, is
// intentionally discarded: the queue has no channel back to a caller at
// this point, matching how a Drop impl in the reference implementation
// cannot itself fail or report to anyone.
func closeIfCloser[T any](item T) {
	if c, ok := any(item).(io.Closer); ok {
		_ = c.Close()
	}
}
