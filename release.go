package lfqueue

// releaseAll walks the remaining chain from head.node, clearing every
// still-filled slot (closing it if it implements io.Closer) so the
// garbage collector can reclaim the whole chain. It runs exactly once, on
// whichever goroutine closes the last Queue handle referencing this inner
// queue, and assumes no concurrent Push/Pop is still in flight — exactly
// the same precondition the reference implementation's Drop has.
func (q *inner[T]) releaseAll() {
	n := q.head.get().node.Load()
	for n != nil {
		next := n.get().next.Load()
		for i := 0; i < q.capacity; i++ {
			s := &n.get().container[i]
			if s.state.Load()&filled != 0 && !s.consumed.Load() {
				closeIfCloser(s.item)
				s.clear()
				s.consumed.Store(true)
			}
		}
		n = next
	}
}
