package corun

// ExitEvent is a single-waiter join slot (spec.md §3.1, §4.6): empty, or
// holding a back-link to the one task record currently waiting for this
// event's originator to exit. Every [TaskRecord] owns one; a second task may
// not join a task already being joined by someone else.
type ExitEvent struct {
	waiter *TaskRecord
	link   Link // event-side of the waiter<->event Link pair (spec.md §9)
}

// Waiting reports whether a task currently holds this event's single slot.
func (e *ExitEvent) Waiting() bool { return e.waiter != nil }

// join attaches waiter to e. Fails with [ErrInvalid] if e already has a
// waiter (spec.md §3.1: "a single-waiter slot") — that is a caller bug, not
// a recoverable race, since this package forbids concurrent access entirely.
func (e *ExitEvent) join(waiter *TaskRecord) error {
	if e.waiter != nil {
		return ErrInvalid
	}
	e.waiter = waiter
	waiter.waitExitOn = e
	InitLink(&e.link, &waiter.eventLk)
	return nil
}

// clear detaches e's waiter, if any, without waking it. Used by
// [Runner.AbortAll] to clear every event back-link before any queue is torn
// down (spec.md §4.7 abort-all ordering).
func (e *ExitEvent) clear() {
	if e.waiter == nil {
		return
	}
	e.waiter.waitExitOn = nil
	FreeLink(&e.link)
	e.waiter = nil
}

// signal wakes e's waiter, if any, delivering code as its exit-code payload,
// and clears the slot (spec.md §4.6 exit event signal). Signalling an empty
// event, or the same event twice, is a no-op. Fails with [ErrInvalid] if the
// waiter's wait-linkage does not point into the waiting-on-exit bucket r
// expects (a structural invariant violation, never silently repaired —
// spec.md §7).
func (e *ExitEvent) signal(r *Runner, code int32) error {
	if e.waiter == nil {
		return nil
	}
	w := e.waiter
	if !r.isWaitingOnExit(w) {
		return ErrInvalid
	}
	FreeLink(&e.link)
	e.waiter = nil
	w.waitExitOn = nil
	r.wake(w, code, nil)
	return nil
}
