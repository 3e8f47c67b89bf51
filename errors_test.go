package corun

import (
	"errors"
	"testing"
)

func TestFault_ErrorFormatting(t *testing.T) {
	f := &Fault{Kind: ErrInvalid}
	if f.Error() != ErrInvalid.Error() {
		t.Fatalf("Error() with no Function = %q, want %q", f.Error(), ErrInvalid.Error())
	}

	f2 := &Fault{Kind: ErrOutOfMemory, Function: "Runner.Spawn", File: "runner.go", Line: 10}
	if !errors.Is(f2, ErrOutOfMemory) {
		t.Fatal("errors.Is must match the wrapped Kind")
	}

	cause := errors.New("boom")
	f3 := &Fault{Kind: ErrInvalid, Function: "X", File: "y.go", Line: 1, Err: cause}
	if !errors.Is(f3, cause) {
		t.Fatal("errors.Is must also match the wrapped cause")
	}
}

func TestFaults_ErrAggregation(t *testing.T) {
	var agg Faults
	if agg.Err() != nil {
		t.Fatal("empty Faults.Err() must be nil")
	}
	agg.Add(nil)
	if agg.Err() != nil {
		t.Fatal("adding nil must not produce an error")
	}
	agg.Add(ErrInvalid)
	if agg.Err() != ErrInvalid {
		t.Fatalf("single-error Faults.Err() = %v, want the sole error unwrapped", agg.Err())
	}
	agg.Add(ErrOutOfMemory)
	err := agg.Err()
	if err != &agg {
		t.Fatal("multi-error Faults.Err() must return the aggregate itself")
	}
	if !errors.Is(err, ErrInvalid) || !errors.Is(err, ErrOutOfMemory) {
		t.Fatal("errors.Is must see every aggregated error")
	}
}
