package corun

import "time"

// Runner is the scheduler: a fixed set of task-state buckets (spec.md §3.1,
// §4.7), a wake-up landing zone, and the options resolved at construction.
// Grounded on the teacher's Loop (loop.go): the same idea of named buckets
// drained in a fixed phase order each tick, reshaped from the teacher's
// multi-goroutine Submit/poll model to spec.md §5's strictly single-threaded,
// caller-driven RunAll model.
//
// admission/runnable/waitingCond/waitingExit/wakeup are the five buckets
// spec.md §4.7 names; this realization's task records are uniform size (see
// task.go), so the "two bucket variants" §4.7 mentions for exit-event
// attachment collapse into one bucket each — a task either waits on a
// condition or on an exit event, tracked by which bucket holds it plus the
// waitCondOn/waitExitOn fields, rather than by record layout. "wait-list
// storage" (§4.7 item 5) needs no bucket of its own here: its nodes are the
// same intrusive waitD fields already living inside every TaskRecord.
type Runner struct {
	state fastState

	admission   TaskQueue[*TaskRecord]
	runnable    TaskQueue[*TaskRecord]
	waitingCond TaskQueue[*TaskRecord]
	waitingExit TaskQueue[*TaskRecord]
	wakeup      TaskQueue[*TaskRecord]

	logger      Logger
	metrics     *Metrics
	onAbortTask func(task *TaskRecord, err error)

	// pendingRunnable holds tasks the exit-chain fast path (processExit)
	// readied with CONTINUE. It is never inserted into runnable directly
	// from processExit, since processExit can itself be invoked from inside
	// runRunnablePass's cursor walk over that very bucket; draining it after
	// each phase's own loop has finished keeps every mutation of a bucket
	// outside the lifetime of any cursor walking it.
	pendingRunnable []*TaskRecord
}

// NewRunner returns an empty Runner configured by opts.
func NewRunner(opts ...RunnerOption) (*Runner, error) {
	cfg, err := resolveRunnerOptions(opts)
	if err != nil {
		return nil, err
	}
	r := &Runner{
		logger:      cfg.logger,
		onAbortTask: cfg.onAbortTask,
	}
	r.admission = *NewTaskQueue[*TaskRecord](cfg.pageAllocator)
	r.runnable = *NewTaskQueue[*TaskRecord](cfg.pageAllocator)
	r.waitingCond = *NewTaskQueue[*TaskRecord](cfg.pageAllocator)
	r.waitingExit = *NewTaskQueue[*TaskRecord](cfg.pageAllocator)
	r.wakeup = *NewTaskQueue[*TaskRecord](cfg.pageAllocator)
	if cfg.metricsEnabled {
		r.metrics = &Metrics{}
	}
	return r, nil
}

// Metrics returns the Runner's metrics, or nil if WithMetrics was not
// enabled.
func (r *Runner) Metrics() *Metrics { return r.metrics }

// Spawn admits a new task with initial user state arg (spec.md §3.3: created
// by spawn into the admission bucket). Fails with [ErrOutOfMemory] if no page
// could be acquired for the admission bucket (spec.md §8 scenario 5).
func (r *Runner) Spawn(fn TaskFunc, arg any) (*TaskRecord, error) {
	t := NewTaskRecord(fn, arg)
	if err := r.insertInto(&r.admission, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *Runner) reportFault(kind error, function string, err error) {
	r.logger.LogFault(Fault{Kind: kind, Function: function, File: "runner.go", Size: -1, Err: err})
}

func (r *Runner) insertInto(q *TaskQueue[*TaskRecord], t *TaskRecord) error {
	h, err := q.Insert(t)
	if err != nil {
		return err
	}
	t.handle, t.bucket = h, q
	return nil
}

// removeFromBucket excises t from whichever bucket currently holds it, in
// O(1) via remove_by_swap (spec.md §4.4), fixing up the relocated record's
// Handle.
func (r *Runner) removeFromBucket(t *TaskRecord) error {
	q := t.bucket
	if q == nil {
		return ErrInvalid
	}
	err := q.RemoveBySwap(t.handle, func(v *TaskRecord, dest Handle[*TaskRecord]) {
		v.handle = dest
	})
	t.handle, t.bucket = Handle[*TaskRecord]{}, nil
	return err
}

// isWaitingOnExit reports whether t currently sits in the waiting-on-exit
// bucket, the structural check [ExitEvent.signal] requires before waking its
// back-linked waiter (spec.md §4.6: "Fails with INVALID if the back-link
// points outside the waiting-on-exit bucket").
func (r *Runner) isWaitingOnExit(t *TaskRecord) bool {
	return t.bucket == &r.waitingExit
}

// wake moves t, currently parked in waitingCond or waitingExit, into the
// wake-up bucket with the given payload (spec.md §4.6 wake_one/wake_all,
// exit event signal). Processed either by the next pass's wake-up phase, or
// immediately by the exit-chain fast path in processExit.
func (r *Runner) wake(t *TaskRecord, code int32, err error) {
	t.waitCode, t.waitErr = code, err
	if rerr := r.removeFromBucket(t); rerr != nil {
		r.reportFault(ErrInvalid, "Runner.wake", rerr)
	}
	if ierr := r.insertInto(&r.wakeup, t); ierr != nil {
		r.reportFault(ErrOutOfMemory, "Runner.wake", ierr)
	}
}

// invoke calls t's function with cmd and, on WAIT, links t onto the target
// condition or exit event and moves it to the matching waiting bucket
// (spec.md §4.7 "classify the result"). EXIT and CONTINUE are left for the
// caller: invoke never itself triggers the exit chain, so that
// [Runner.processExit] can call it directly without recursing back through
// [Runner.dispatch] (see processExit).
func (r *Runner) invoke(t *TaskRecord, cmd TaskCommand) TaskCommand {
	p := &TaskParam{Runner: r, Task: t, reason: t.waitErr, code: t.waitCode}
	t.waitErr, t.waitCode = nil, 0
	result := t.fn(p, cmd)
	if result == WAIT {
		switch target := p.waitTarget.(type) {
		case *WaitCondition:
			if err := target.Link(t); err != nil {
				r.reportFault(ErrInvalid, "Runner.invoke", err)
				return result
			}
			if err := r.insertInto(&r.waitingCond, t); err != nil {
				r.reportFault(ErrOutOfMemory, "Runner.invoke", err)
			}
		case *ExitEvent:
			if err := target.join(t); err != nil {
				r.reportFault(ErrInvalid, "Runner.invoke", err)
				return result
			}
			if err := r.insertInto(&r.waitingExit, t); err != nil {
				r.reportFault(ErrOutOfMemory, "Runner.invoke", err)
			}
		default:
			r.reportFault(ErrInvalid, "Runner.invoke", nil)
		}
	}
	return result
}

// dispatch is invoke plus the exit chain: whenever a task's outcome is EXIT,
// processExit runs its waiter (if any) immediately, in the same step.
func (r *Runner) dispatch(t *TaskRecord, cmd TaskCommand) TaskCommand {
	result := r.invoke(t, cmd)
	if result == EXIT {
		r.processExit(t)
	}
	return result
}

// processExit runs the mid-pass exit-chain fast path (spec.md §4.7): t has
// just exited with t.code already set by its own call to [Exit]. If another
// task is parked on t's exit event, that waiter is invoked immediately, in
// the same step, rather than waiting for a future pass's wake-up phase. If
// the waiter exits too, the chain continues up to whoever is waiting on it,
// letting a producer/consumer chain of depth N unwind in one call without
// growing the Go call stack — the loop calls [Runner.invoke] directly rather
// than [Runner.dispatch], so a waiter that itself exits is handled by this
// same loop iterating again, not by a recursive processExit call. A waiter
// that lands on CONTINUE is queued to pendingRunnable rather than inserted
// into runnable directly, since this path can run while runRunnablePass's
// own cursor is still walking that bucket.
func (r *Runner) processExit(t *TaskRecord) {
	for {
		w := t.exit.waiter
		if w == nil {
			return
		}
		if err := t.exit.signal(r, t.code); err != nil {
			r.reportFault(ErrInvalid, "Runner.processExit", err)
			return
		}
		// w was just queued onto the wake-up bucket by signal/wake; drain it
		// immediately instead of deferring to this pass's wake-up phase.
		if err := r.removeFromBucket(w); err != nil {
			r.reportFault(ErrInvalid, "Runner.processExit", err)
			return
		}
		switch result := r.invoke(w, CONTINUE); result {
		case CONTINUE:
			r.pendingRunnable = append(r.pendingRunnable, w)
			return
		case EXIT:
			t = w
		default:
			return
		}
	}
}

// drainPendingRunnable moves every task processExit queued while some
// bucket's cursor was active into runnable, now that it is safe to do so.
// Reports whether it inserted anything.
func (r *Runner) drainPendingRunnable() bool {
	if len(r.pendingRunnable) == 0 {
		return false
	}
	pending := r.pendingRunnable
	r.pendingRunnable = nil
	for _, t := range pending {
		if err := r.insertInto(&r.runnable, t); err != nil {
			r.reportFault(ErrOutOfMemory, "Runner.drainPendingRunnable", err)
		}
	}
	return true
}

// runRunnablePass is phase (a) of one pass (spec.md §4.7): invoke every task
// currently in the runnable bucket with CONTINUE, compacting the holes left
// by tasks that suspended or exited.
func (r *Runner) runRunnablePass() {
	cur := r.runnable.Iterate()
	var freeList []Handle[*TaskRecord]
	for cur.Next() {
		t := cur.Value()
		if result := r.dispatch(t, CONTINUE); result != CONTINUE {
			freeList = append(freeList, cur.Handle())
		}
	}
	if len(freeList) == 0 {
		return
	}
	if err := r.runnable.Compact(freeList, func(v *TaskRecord, dest Handle[*TaskRecord]) {
		v.handle = dest
	}); err != nil {
		r.reportFault(ErrInvalid, "Runner.runRunnablePass", err)
	}
}

// runAdmissionPass is phase (b): every task record currently in admission,
// plus any freshly spawned while running one of them, is invoked once with
// RUN and popped (spec.md §4.7, §3.3: "first invocation reclassifies it").
// Reports whether any task transitioned directly into runnable.
func (r *Runner) runAdmissionPass() bool {
	produced := false
	for {
		t, err := r.admission.PopFirst()
		if err != nil {
			break
		}
		t.handle, t.bucket = Handle[*TaskRecord]{}, nil
		if result := r.dispatch(t, RUN); result == CONTINUE {
			if ierr := r.insertInto(&r.runnable, t); ierr != nil {
				r.reportFault(ErrOutOfMemory, "Runner.runAdmissionPass", ierr)
				continue
			}
			produced = true
		}
	}
	return produced
}

// runWakeupPass is phase (c): snapshot the wake-up bucket into scratch and
// clear the live bucket before draining, so a task woken by draining the
// scratch lands in the (now-empty) live bucket and is left for a later round
// of RunAll's loop, or for the next RunAll call if no further round runs —
// the "copy-and-clear discipline" of spec.md §4.7, and ordering
// guarantee (ii) of spec.md §5.
func (r *Runner) runWakeupPass() bool {
	var scratch []*TaskRecord
	for {
		t, err := r.wakeup.PopFirst()
		if err != nil {
			break
		}
		t.handle, t.bucket = Handle[*TaskRecord]{}, nil
		scratch = append(scratch, t)
	}
	produced := false
	for _, t := range scratch {
		if result := r.dispatch(t, CONTINUE); result == CONTINUE {
			if err := r.insertInto(&r.runnable, t); err != nil {
				r.reportFault(ErrOutOfMemory, "Runner.runWakeupPass", err)
				continue
			}
			produced = true
		}
	}
	return produced
}

// RunAll runs one pass (spec.md §4.7 run_all): drain runnable, admit new
// tasks, process wake-ups, and repeat while admission, wake-up or the
// exit-chain fast path produced new runnable work, until quiescent. Fails with [ErrBusy] if a pass is
// already in progress (reentrant call, spec.md §4.7's prohibition).
func (r *Runner) RunAll() error {
	if !r.state.TryTransition(stateIdle, statePassInProgress) {
		return ErrBusy
	}
	var start time.Time
	if r.metrics != nil {
		start = time.Now()
	}
	for {
		r.runRunnablePass()
		flushed1 := r.drainPendingRunnable()
		admitted := r.runAdmissionPass()
		flushed2 := r.drainPendingRunnable()
		woken := r.runWakeupPass()
		flushed3 := r.drainPendingRunnable()
		if !admitted && !woken && !flushed1 && !flushed2 && !flushed3 {
			break
		}
	}
	if r.metrics != nil {
		r.metrics.Passes++
		r.metrics.Pass.Record(time.Since(start))
		r.metrics.Bucket.Update("admission", r.admission.Count())
		r.metrics.Bucket.Update("runnable", r.runnable.Count())
		r.metrics.Bucket.Update("waiting-on-condition", r.waitingCond.Count())
		r.metrics.Bucket.Update("waiting-on-exit", r.waitingExit.Count())
		r.metrics.Bucket.Update("wake-up", r.wakeup.Count())
	}
	r.state.Store(stateIdle)
	return nil
}

// AbortAll tears down the runner (spec.md §4.7 abort-all, §3.3 "freed by
// aborting all remaining tasks"): clears every exit-event back-link first so
// no stale reference is dereferenced during teardown, frees the wake-up
// bucket, drops admission tasks outright (they never ran, so ABORT would
// have nothing to clean up), then invokes every other task once with EXIT as
// the ABORT signal — spec.md §6 fixes only four TaskCommand values, so this
// package reuses the on-exit-cleanup path rather than inventing a fifth
// (documented in DESIGN.md). A task that does not itself return EXIT from
// that invocation is considered to have failed cleanup (spec.md §7) and is
// reported via [WithAbortNotifier] plus an aggregated [ErrAbort].
func (r *Runner) AbortAll() error {
	var agg Faults

	cur := r.waitingExit.Iterate()
	for cur.Next() {
		w := cur.Value()
		if w.waitExitOn != nil {
			w.waitExitOn.clear()
		}
	}

	for {
		if _, err := r.wakeup.PopFirst(); err != nil {
			break
		}
	}

	for {
		if _, err := r.admission.PopFirst(); err != nil {
			break
		}
	}

	for _, q := range [...]*TaskQueue[*TaskRecord]{&r.runnable, &r.waitingCond, &r.waitingExit} {
		for {
			t, err := q.PopFirst()
			if err != nil {
				break
			}
			t.handle, t.bucket = Handle[*TaskRecord]{}, nil
			if t.waitCondOn != nil {
				t.waitCondOn.Unlink(t)
			}
			result := t.fn(&TaskParam{Runner: r, Task: t, reason: ErrAbort}, EXIT)
			var cbErr error
			if result != EXIT {
				cbErr = ErrAbort
				agg.Add(ErrAbort)
				r.reportFault(ErrAbort, "Runner.AbortAll", nil)
			}
			if r.onAbortTask != nil {
				r.onAbortTask(t, cbErr)
			}
		}
	}

	r.state.Store(stateIdle)
	return agg.Err()
}
