package corun

// TaskQueue specializes PagedSlabQueue with an element count and the two
// mutation primitives spec.md §4.4 adds on top of the base slab: removal
// from the middle by swapping in the tail element, and free-list-driven
// compaction.
type TaskQueue[E any] struct {
	PagedSlabQueue[E]
	count int
}

// NewTaskQueue returns an empty TaskQueue using alloc for page acquisition.
func NewTaskQueue[E any](alloc PageAllocator[E]) *TaskQueue[E] {
	return &TaskQueue[E]{PagedSlabQueue: *NewPagedSlabQueue(alloc)}
}

// Count returns the number of live elements.
func (q *TaskQueue[E]) Count() int { return q.count }

// Insert pushes v at the tail and increments Count.
func (q *TaskQueue[E]) Insert(v E) (Handle[E], error) {
	h, err := q.PushLast(v)
	if err != nil {
		return Handle[E]{}, err
	}
	q.count++
	return h, nil
}

// PopFirst removes and returns the head element, decrementing Count. Shadows
// [PagedSlabQueue.PopFirst] so external callers popping a TaskQueue directly
// (rather than through [TaskQueue.RemoveBySwap]/[TaskQueue.Compact]) keep
// Count accurate.
func (q *TaskQueue[E]) PopFirst() (E, error) {
	v, err := q.PagedSlabQueue.PopFirst()
	if err != nil {
		var zero E
		return zero, err
	}
	q.count--
	return v, nil
}

// PopLast removes and returns the tail element, decrementing Count. Shadows
// [PagedSlabQueue.PopLast] for the same reason as [TaskQueue.PopFirst].
func (q *TaskQueue[E]) PopLast() (E, error) {
	v, err := q.PagedSlabQueue.PopLast()
	if err != nil {
		var zero E
		return zero, err
	}
	q.count--
	return v, nil
}

// RemoveBySwap removes the element at elem in O(1): if elem is not the tail,
// the tail element is moved into elem's slot before being popped (spec.md
// §4.4 remove_by_swap). onRelocate, if non-nil, is called with the relocated
// value and its new Handle — the caller's hook for fixing up any bookkeeping
// keyed by the old Handle (the value itself never changes, since Go pointer
// stability means nothing about it needs relinking; see [Link]).
func (q *TaskQueue[E]) RemoveBySwap(elem Handle[E], onRelocate func(v E, dest Handle[E])) error {
	if elem.pg == nil {
		return ErrInvalid
	}
	last := q.lastHandle()
	if last.pg == nil {
		return ErrInvalid
	}
	if elem.pg == last.pg && elem.idx == last.idx {
		if _, err := q.PagedSlabQueue.PopLast(); err != nil {
			return err
		}
		q.count--
		return nil
	}
	v := last.Get()
	elem.Set(v)
	if onRelocate != nil {
		onRelocate(v, elem)
	}
	if _, err := q.PagedSlabQueue.PopLast(); err != nil {
		return err
	}
	q.count--
	return nil
}

// lastHandle returns a Handle to the current tail element, or the zero
// Handle if empty.
func (q *TaskQueue[E]) lastHandle() Handle[E] {
	tail := q.last
	if tail == nil || tail.empty() {
		return Handle[E]{}
	}
	return Handle[E]{pg: tail, idx: tail.end - 1}
}

// Compact closes every hole in freeList (collected earliest-first during a
// forward walk, per spec.md §4.4's caller contract) by sliding each
// surviving record down over the holes ahead of it, then truncating the
// now-vacated tail in one shot. onRelocate, if non-nil, is called once per
// record that actually changes slot, with its value and new Handle. A
// survivor already sitting before any hole is left untouched. Survivors
// retain their relative order (spec.md §8's worked compaction scenario: freeing
// every even-indexed record out of 10000 must leave the odd-indexed ones in
// their original order, not merely as a set).
//
// This runs two cursors in lockstep over a single forward walk: read visits
// every slot, write only the ones a survivor is moved into, so write never
// gets ahead of read and a record is never overwritten before it has been
// read. Total cursor steps are O(n) in the queue length, and one copy is made
// for every survivor that sits after the first hole, so the copy count can
// exceed len(freeList). The pair-with-the-tail scheme spec.md §4.4 sketches
// copies fewer records, but it pairs holes with whatever
// currently sits at the tail, which reorders survivors whenever a hole isn't
// adjacent to the tail, so it can't satisfy the ordering guarantee above.
func (q *TaskQueue[E]) Compact(freeList []Handle[E], onRelocate func(v E, dest Handle[E])) error {
	holes := make([]Handle[E], 0, len(freeList))
	for _, h := range freeList {
		if h.Valid() {
			holes = append(holes, h)
		}
	}
	if len(holes) == 0 {
		return nil
	}

	read := q.Iterate()
	write := q.Iterate()
	j := 0
	for read.Next() {
		rh := read.Handle()
		if j < len(holes) && holes[j].pg == rh.pg && holes[j].idx == rh.idx {
			j++
			continue
		}
		if !write.Next() {
			return ErrInvalid
		}
		wh := write.Handle()
		if wh.pg != rh.pg || wh.idx != rh.idx {
			v := rh.Get()
			wh.Set(v)
			if onRelocate != nil {
				onRelocate(v, wh)
			}
		}
	}

	for range holes {
		if _, err := q.PagedSlabQueue.PopLast(); err != nil {
			return err
		}
		q.count--
	}
	return nil
}
