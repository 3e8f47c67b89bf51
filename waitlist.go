package corun

// WaitList is an ordered queue of task-record waiters (spec.md §3.1, §4.6):
// a self-headed dual-linked ring, realized directly as a [Dlist] over each
// task's own wait-linkd field — the "self-headed ring" spec.md names is
// exactly Dlist's nil-is-empty, last-pointer-only convention, so WaitList
// adds no structure of its own beyond the task-record-specific API.
type WaitList struct {
	ring Dlist[*TaskRecord]
}

// NewWaitList returns an empty WaitList.
func NewWaitList() *WaitList { return &WaitList{} }

// Empty reports whether l holds no waiters.
func (l *WaitList) Empty() bool { return l.ring.Empty() }

// Add appends task at the tail (spec.md §4.6 add). Fails with [ErrInvalid]
// if task already holds other wait-linkage.
func (l *WaitList) Add(task *TaskRecord) error {
	if task.waitD.Linked() {
		return ErrInvalid
	}
	l.ring.InsertLast(task.waitD)
	return nil
}

// PopFirst removes and returns the head waiter, or [ErrNoData] if l is empty
// (spec.md §4.6 pop_first).
func (l *WaitList) PopFirst() (*TaskRecord, error) {
	return l.ring.RemoveFirst()
}

// PopAll hands over every waiter in original FIFO order and resets l to
// empty (spec.md §4.6 pop_all). Splicing the ring directly would be O(1);
// this package instead walks and collects into a slice for caller
// convenience, since every consumer in this package wants the individual
// records (to move each into the wake-up bucket) rather than the raw ring.
func (l *WaitList) PopAll() []*TaskRecord {
	var out []*TaskRecord
	for {
		t, err := l.PopFirst()
		if err != nil {
			break
		}
		out = append(out, t)
	}
	return out
}
