// Package corun: error taxonomy with cause-chain support.
package corun

import (
	"errors"
	"fmt"
)

// Sentinel errors for the six error kinds fixed by this package's contract
// (spec.md §6). Callers should match against these with [errors.Is]; a
// returned error may be wrapped in a [*Fault] or [*Faults] and still match.
var (
	// ErrInvalid reports a structural invariant violation or an out-of-range
	// argument (e.g. a record larger than MaxRecordSize).
	ErrInvalid = errors.New("corun: invalid")

	// ErrOutOfMemory reports that the PageAllocator could not supply a page.
	ErrOutOfMemory = errors.New("corun: out of memory")

	// ErrNoData reports a pop against an empty queue.
	ErrNoData = errors.New("corun: no data")

	// ErrOverflow reports a pop/shrink larger than the data available.
	ErrOverflow = errors.New("corun: overflow")

	// ErrBusy reports a reentrant Runner.RunAll call.
	ErrBusy = errors.New("corun: busy")

	// ErrAbort reports that a task failed to clean up after receiving ABORT.
	ErrAbort = errors.New("corun: abort")
)

// Fault wraps one of the sentinel errors above with the reporting site, for
// the log sink contract in spec.md §6: "one record per reported error with
// fields {kind, file, line, function, optional size/err}".
type Fault struct {
	Kind     error // one of the Err* sentinels above
	File     string
	Line     int
	Function string
	Size     int   // -1 if not applicable to this fault
	Err      error // wrapped cause, may be nil
}

// Error implements error.
func (f *Fault) Error() string {
	if f.Function == "" {
		return fmt.Sprintf("%v", f.Kind)
	}
	if f.Err != nil {
		return fmt.Sprintf("%v: %s (%s:%d): %v", f.Kind, f.Function, f.File, f.Line, f.Err)
	}
	return fmt.Sprintf("%v: %s (%s:%d)", f.Kind, f.Function, f.File, f.Line)
}

// Unwrap lets errors.Is/As see through to both Kind and the wrapped cause.
func (f *Fault) Unwrap() []error {
	if f.Err != nil {
		return []error{f.Kind, f.Err}
	}
	return []error{f.Kind}
}

// Faults aggregates errors from a bulk operation (Dlist.Free, Runner.AbortAll)
// that must attempt every sub-step even after a failure. Every sub-error is
// collected; a caller that does not inspect Errors directly sees only the
// last one via Error(), matching spec.md §7's "aggregate ... return the last
// error" policy, while partial release is still allowed to complete.
type Faults struct {
	Errors []error
}

// Add appends err if non-nil and returns the receiver for chaining.
func (f *Faults) Add(err error) *Faults {
	if err != nil {
		f.Errors = append(f.Errors, err)
	}
	return f
}

// Err returns nil if no errors were added, the sole error if exactly one was
// added, or the receiver (as an error) otherwise.
func (f *Faults) Err() error {
	switch len(f.Errors) {
	case 0:
		return nil
	case 1:
		return f.Errors[0]
	default:
		return f
	}
}

// Error implements error, reporting the last collected error.
func (f *Faults) Error() string {
	if len(f.Errors) == 0 {
		return "corun: no errors"
	}
	last := f.Errors[len(f.Errors)-1]
	return fmt.Sprintf("%v (and %d more)", last, len(f.Errors)-1)
}

// Unwrap exposes every collected error to errors.Is/As.
func (f *Faults) Unwrap() []error {
	return f.Errors
}
