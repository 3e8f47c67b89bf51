package corun

import "sync/atomic"

// runnerState is a CAS-guarded state tag used solely to reject a reentrant
// Runner.RunAll call (spec.md §4.7: "run_all must not be invoked while a
// pass is already in progress on this runner; doing so yields BUSY").
// AbortAll only stores stateIdle into it; stateAborted is defined but no
// Runner method enters it.
//
// Unlike the teacher's FastState (which arbitrates genuinely concurrent
// goroutines polling/submitting against a running loop), this guard exists
// purely for reentrancy detection: the runner itself is single-threaded and
// forbids concurrent access entirely (spec.md §5). It is kept as a CAS,
// rather than a plain bool, to match the teacher's TryTransition idiom and
// because a bool read-modify-write is not obviously simpler once a defer'd
// reset on panic is taken into account.
type runnerState uint32

const (
	stateIdle runnerState = iota
	statePassInProgress
	stateAborted
)

func (s runnerState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case statePassInProgress:
		return "pass-in-progress"
	case stateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// fastState is a minimal atomic wrapper, grounded on the teacher's
// FastState/TryTransition CAS pattern (state.go).
type fastState struct {
	v atomic.Uint32
}

func (s *fastState) Load() runnerState {
	return runnerState(s.v.Load())
}

func (s *fastState) Store(v runnerState) {
	s.v.Store(uint32(v))
}

func (s *fastState) TryTransition(from, to runnerState) bool {
	return s.v.CompareAndSwap(uint32(from), uint32(to))
}
