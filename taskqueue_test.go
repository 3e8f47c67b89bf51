package corun

import "testing"

func TestTaskQueue_InsertCount(t *testing.T) {
	q := NewTaskQueue[int](NewPoolPageAllocator[int]())
	if q.Count() != 0 {
		t.Fatalf("Count = %d, want 0", q.Count())
	}
	for i := 0; i < 5; i++ {
		if _, err := q.Insert(i); err != nil {
			t.Fatalf("Insert(%d): %v", i, err)
		}
	}
	if q.Count() != 5 {
		t.Fatalf("Count = %d, want 5", q.Count())
	}
}

func TestTaskQueue_PopFirstPopLastDecrementsCount(t *testing.T) {
	q := NewTaskQueue[int](NewPoolPageAllocator[int]())
	q.Insert(1)
	q.Insert(2)
	q.Insert(3)
	if _, err := q.PopFirst(); err != nil {
		t.Fatalf("PopFirst: %v", err)
	}
	if q.Count() != 2 {
		t.Fatalf("Count after PopFirst = %d, want 2", q.Count())
	}
	if _, err := q.PopLast(); err != nil {
		t.Fatalf("PopLast: %v", err)
	}
	if q.Count() != 1 {
		t.Fatalf("Count after PopLast = %d, want 1", q.Count())
	}
}

func TestTaskQueue_RemoveBySwapTail(t *testing.T) {
	q := NewTaskQueue[int](NewPoolPageAllocator[int]())
	h1, _ := q.Insert(1)
	h2, _ := q.Insert(2)
	_ = h1

	var relocated []int
	if err := q.RemoveBySwap(h2, func(v int, dest Handle[int]) { relocated = append(relocated, v) }); err != nil {
		t.Fatalf("RemoveBySwap: %v", err)
	}
	if len(relocated) != 0 {
		t.Fatal("removing the tail element must not trigger onRelocate")
	}
	if q.Count() != 1 {
		t.Fatalf("Count = %d, want 1", q.Count())
	}
}

func TestTaskQueue_RemoveBySwapMiddle(t *testing.T) {
	q := NewTaskQueue[int](NewPoolPageAllocator[int]())
	h0, _ := q.Insert(10)
	h1, _ := q.Insert(20)
	h2, _ := q.Insert(30)
	_ = h2

	var relocatedVal int
	var relocatedDest Handle[int]
	if err := q.RemoveBySwap(h0, func(v int, dest Handle[int]) {
		relocatedVal, relocatedDest = v, dest
	}); err != nil {
		t.Fatalf("RemoveBySwap: %v", err)
	}
	if relocatedVal != 30 {
		t.Fatalf("relocated value = %d, want 30 (the former tail)", relocatedVal)
	}
	if relocatedDest.Get() != 30 {
		t.Fatalf("relocated handle reads %d, want 30", relocatedDest.Get())
	}
	if q.Count() != 2 {
		t.Fatalf("Count = %d, want 2", q.Count())
	}
	if h1.Get() != 20 {
		t.Fatalf("surviving element corrupted: got %d, want 20", h1.Get())
	}
}

func TestTaskQueue_RemoveBySwapInvalidHandle(t *testing.T) {
	q := NewTaskQueue[int](NewPoolPageAllocator[int]())
	q.Insert(1)
	if err := q.RemoveBySwap(Handle[int]{}, nil); err != ErrInvalid {
		t.Fatalf("RemoveBySwap(zero handle) = %v, want ErrInvalid", err)
	}
}

func TestTaskQueue_Compact(t *testing.T) {
	q := NewTaskQueue[int](NewPoolPageAllocator[int]())
	var handles []Handle[int]
	for i := 0; i < 10; i++ {
		h, err := q.Insert(i)
		if err != nil {
			t.Fatalf("Insert(%d): %v", i, err)
		}
		handles = append(handles, h)
	}
	// remove every even-indexed element via a compacting free-list
	freeList := []Handle[int]{handles[0], handles[2], handles[4], handles[6], handles[8]}
	relocated := 0
	if err := q.Compact(freeList, func(v int, dest Handle[int]) { relocated++ }); err != nil {
		t.Fatalf("Compact: %v", err)
	}
	if q.Count() != 5 {
		t.Fatalf("Count after Compact = %d, want 5", q.Count())
	}
	// survivors must retain relative order: 1, 3, 5, 7, 9
	cur := q.Iterate()
	var got []int
	for cur.Next() {
		got = append(got, cur.Value())
	}
	want := []int{1, 3, 5, 7, 9}
	if len(got) != len(want) {
		t.Fatalf("survivors = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("survivors = %v, want %v", got, want)
		}
	}
}

func TestTaskQueue_CompactLarge(t *testing.T) {
	const n = 10000
	q := NewTaskQueue[int](NewPoolPageAllocator[int]())
	var handles []Handle[int]
	for i := 0; i < n; i++ {
		h, err := q.Insert(i)
		if err != nil {
			t.Fatalf("Insert(%d): %v", i, err)
		}
		handles = append(handles, h)
	}
	// remove every record from the middle third
	var freeList []Handle[int]
	for i := n / 3; i < 2*n/3; i++ {
		freeList = append(freeList, handles[i])
	}
	if err := q.Compact(freeList, func(v int, dest Handle[int]) {
		handles[v] = dest
	}); err != nil {
		t.Fatalf("Compact: %v", err)
	}
	wantCount := n - len(freeList)
	if q.Count() != wantCount {
		t.Fatalf("Count = %d, want %d", q.Count(), wantCount)
	}
	var got []int
	cur := q.Iterate()
	for cur.Next() {
		got = append(got, cur.Value())
	}
	if len(got) != wantCount {
		t.Fatalf("survivor count = %d, want %d", len(got), wantCount)
	}
	prev := -1
	for _, v := range got {
		if v <= prev {
			t.Fatalf("survivors out of relative order near %d", v)
		}
		if v >= n/3 && v < 2*n/3 {
			t.Fatalf("survivor %d should have been removed", v)
		}
		prev = v
	}
}
