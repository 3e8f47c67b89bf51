// Package corun provides a cooperative, single-threaded task scheduler.
//
// A [Runner] multiplexes many lightweight tasks onto one goroutine without
// preemption, per-task stacks, or heap allocation on the steady-state path.
// Tasks voluntarily suspend by returning a [TaskCommand] from their body;
// the Runner moves them between buckets and wakes waiters in amortized O(1)
// per operation.
//
// # Architecture
//
// [TaskRecord] holds a task's function pointer, opaque state, and resume
// point. Records live in [TaskQueue] buckets, which are backed by
// [PagedSlabQueue], a ring of fixed-size pages that never allocates past
// warm-up under steady load. Tasks coordinate via [ExitEvent] (join-on-exit),
// [WaitCondition] (an arbitrary application-defined signal), and [WaitList]
// (a FIFO of blocked waiters) — all three built from the intrusive [Link]
// and [LinkD] primitives in link.go and the ring-walking helpers in dlist.go.
//
// # Execution Model
//
// One call to [Runner.RunAll] drains the runnable buckets, admits newly
// spawned tasks, and processes wake-ups, repeating these rounds until
// quiescent. A task signalled while the runnable or admission phase runs is
// resumed by the same round's wake-up phase. That phase works from a
// snapshot, so a task signalled while it drains waits for a later round,
// which may be the next RunAll call. The exit-chain fast path is the
// exception: it resumes a waiter as soon as the task it joined exits, which
// lets a chain of N producer/consumer tasks unwind inside a single RunAll
// call.
//
// # Thread Safety
//
// None of this package's types are safe for concurrent use. Exactly one
// goroutine may call into a [Runner] at a time; parallelism is achieved by
// running one Runner per goroutine, sharing no state between them.
//
// # Usage
//
//	r, err := corun.NewRunner()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	producer, err := r.Spawn(func(p *corun.TaskParam, cmd corun.TaskCommand) corun.TaskCommand {
//	    return corun.Exit(p, 9)
//	}, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	var outcome int32
//	waited := false
//	_, err = r.Spawn(func(p *corun.TaskParam, cmd corun.TaskCommand) corun.TaskCommand {
//	    if !waited {
//	        waited = true
//	        return corun.WaitExit(p, producer, 0)
//	    }
//	    outcome = p.Code()
//	    return corun.Exit(p, 0)
//	}, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := r.RunAll(); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(outcome) // 9
package corun
