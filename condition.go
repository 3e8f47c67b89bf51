package corun

// WaitCondition holds at most one direct waiter; additional waiters chain
// through the first waiter's wait-list linkd into a FIFO (spec.md §3.1,
// §4.6). Represents an arbitrary application-defined signal — the runner
// does not know or care what it means, only how to move waiters on and off
// it.
type WaitCondition struct {
	first *TaskRecord // nil iff empty
}

// Empty reports whether any task currently waits on c.
func (c *WaitCondition) Empty() bool { return c.first == nil }

// Link attaches task to c (spec.md §4.6 link). Precondition: task holds no
// other wait-linkage. Appends to the tail of the FIFO chain when c already
// has a waiter.
func (c *WaitCondition) Link(task *TaskRecord) error {
	if task.waitD.Linked() {
		return ErrInvalid
	}
	task.waitCondOn = c
	if c.first == nil {
		InitSelf(task.waitD)
		c.first = task
		return nil
	}
	InitPrev(task.waitD, c.first.waitD)
	return nil
}

// Unlink detaches task from c (spec.md §4.6 unlink), wherever in the chain
// it sits. No-op if task is not linked.
func (c *WaitCondition) Unlink(task *TaskRecord) {
	if !task.waitD.Linked() {
		return
	}
	next := task.waitD.Next()
	wasFirst := c.first == task
	FreeLinkD(task.waitD)
	task.waitCondOn = nil
	if wasFirst {
		if next == task.waitD {
			c.first = nil
		} else {
			c.first = next.Owner()
		}
	}
}

// WakeOne moves c's first waiter, if any, into r's wake-up bucket (spec.md
// §4.6 wake_one). The next waiter in the chain, if any, becomes first.
func (c *WaitCondition) WakeOne(r *Runner) {
	if c.first == nil {
		return
	}
	w := c.first
	next := w.waitD.Next()
	FreeLinkD(w.waitD)
	w.waitCondOn = nil
	if next == w.waitD {
		c.first = nil
	} else {
		c.first = next.Owner()
	}
	r.wake(w, 0, nil)
}

// WakeAll splices the entire waiter chain into r's wake-up bucket, in FIFO
// order, and leaves c empty (spec.md §4.6 wake_all).
func (c *WaitCondition) WakeAll(r *Runner) {
	if c.first == nil {
		return
	}
	start := c.first
	c.first = nil
	w := start
	for {
		next := w.waitD.Next()
		FreeLinkD(w.waitD)
		w.waitCondOn = nil
		r.wake(w, 0, nil)
		if next == nil || next == w.waitD || next.Owner() == start {
			break
		}
		w = next.Owner()
	}
}
