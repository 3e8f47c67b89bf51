package corun

import "testing"

func TestPoolPageAllocator_AcquireReleaseResets(t *testing.T) {
	a := NewPoolPageAllocator[int]()
	p, err := a.Acquire()
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	p.start, p.end = 2, 3
	p.slots[2] = 7
	a.Release(p)

	p2, err := a.Acquire()
	if err != nil {
		t.Fatalf("Acquire after Release: %v", err)
	}
	if p2.start != 0 || p2.end != 0 {
		t.Fatalf("reacquired page start/end = %d/%d, want 0/0", p2.start, p2.end)
	}
}

func TestPoolPageAllocator_DistinctElementTypes(t *testing.T) {
	ints := NewPoolPageAllocator[int]()
	strs := NewPoolPageAllocator[string]()
	pi, err := ints.Acquire()
	if err != nil {
		t.Fatalf("Acquire int: %v", err)
	}
	ps, err := strs.Acquire()
	if err != nil {
		t.Fatalf("Acquire string: %v", err)
	}
	pi.slots[0] = 1
	ps.slots[0] = "x"
	if pi.slots[0] != 1 || ps.slots[0] != "x" {
		t.Fatal("allocators for different element types must not share storage")
	}
}
