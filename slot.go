package lfqueue

import (
	"runtime"
	"sync/atomic"
)

// Slot state bit flags. They are strictly monotonic: once set for a given
// slot, a bit is never cleared again for the lifetime of that slot.
const (
	// filled is set by the producer once the payload has been written.
	filled uint32 = 1 << iota
	// reading is set by the consumer as it takes the payload out, so a peer
	// draining goroutine can tell this slot is still (or was) in use.
	reading
	// draining is set on a slot whose node has been scheduled for
	// destruction but which was still active when the draining goroutine
	// arrived; whichever goroutine set `reading` is obliged to resume the
	// drain once it observes `draining`.
	draining
)

// slot holds one payload of the queue plus its monotonic state word.
type slot[T any] struct {
	item  T
	state atomic.Uint32

	// consumed records whether Pop has already moved this slot's payload
	// out to a caller. It exists alongside the three protocol bits above
	// rather than as a fourth one because it tracks something outside the
	// reclamation protocol itself: whether anyone still owes this slot's
	// payload a release (a Close call, if it implements io.Closer) when
	// the last queue handle is closed. A slot that was filled but never
	// popped before that close is filled and not consumed, while the last
	// data slot of a node never gets `reading` set even after it is popped,
	// so the three protocol bits alone cannot tell the two cases apart.
	consumed atomic.Bool
}

// waitFilled spins until the slot's item has been published by the
// producer that claimed it.
func (s *slot[T]) waitFilled() {
	for s.state.Load()&filled == 0 {
		runtime.Gosched()
	}
}

// fetchOr atomically ORs bit into the slot state and returns the value the
// state held immediately before the OR was applied. The standard library's
// atomic.Uint32 has no built-in fetch-or, so this is expressed as a
// compare-and-swap retry loop, exactly as the rest of the protocol expresses
// its other read-modify-write steps.
func (s *slot[T]) fetchOr(bit uint32) uint32 {
	for {
		old := s.state.Load()
		if old&bit == bit {
			return old
		}
		if s.state.CompareAndSwap(old, old|bit) {
			return old
		}
	}
}

// clear drops the slot's reference to its payload once it has been moved
// out, so the garbage collector does not keep a stale item reachable
// through a still-linked node. clear itself never calls Close: releaseAll
// calls closeIfCloser (see handle.go) before clear for a payload that was
// never popped, while pop clears without closing because the payload now
// belongs to its caller.
func (s *slot[T]) clear() {
	var zero T
	s.item = zero
}
