package corun

// Dlist is a circular doubly-linked list of externally-owned elements
// (spec.md §4.1): a single "last" pointer with first = last.Next(), so an
// empty list is a nil last rather than a dedicated sentinel node. Every
// operation is O(1).
type Dlist[E any] struct {
	last *LinkD[E] // nil iff empty
}

// NewDlist returns an empty Dlist.
func NewDlist[E any]() *Dlist[E] { return &Dlist[E]{} }

// Empty reports whether d holds no elements.
func (d *Dlist[E]) Empty() bool { return d.last == nil }

// First returns the head link, or nil if d is empty.
func (d *Dlist[E]) First() *LinkD[E] {
	if d.last == nil {
		return nil
	}
	return d.last.Next()
}

// Last returns the tail link, or nil if d is empty.
func (d *Dlist[E]) Last() *LinkD[E] { return d.last }

// InsertFirst inserts node at the head.
func (d *Dlist[E]) InsertFirst(node *LinkD[E]) {
	if d.last == nil {
		InitSelf(node)
		d.last = node
		return
	}
	InitPrev(node, d.First())
}

// InsertLast inserts node at the tail.
func (d *Dlist[E]) InsertLast(node *LinkD[E]) {
	if d.last == nil {
		InitSelf(node)
		d.last = node
		return
	}
	InitNext(node, d.last)
	d.last = node
}

// InsertAfter inserts node immediately after pivot, which must already be in
// d.
func (d *Dlist[E]) InsertAfter(pivot, node *LinkD[E]) {
	InitNext(node, pivot)
	if pivot == d.last {
		d.last = node
	}
}

// InsertBefore inserts node immediately before pivot, which must already be
// in d.
func (d *Dlist[E]) InsertBefore(pivot, node *LinkD[E]) {
	InitPrev(node, pivot)
}

// Remove excises node from d. node must currently be in d.
func (d *Dlist[E]) Remove(node *LinkD[E]) {
	prev := node.Prev()
	wasLast := d.last == node
	FreeLinkD(node)
	if wasLast {
		if prev == node {
			d.last = nil
		} else {
			d.last = prev
		}
	}
}

// RemoveFirst removes and returns the head element, or [ErrNoData] if empty.
func (d *Dlist[E]) RemoveFirst() (E, error) {
	var zero E
	f := d.First()
	if f == nil {
		return zero, ErrNoData
	}
	v := f.Owner()
	d.Remove(f)
	return v, nil
}

// RemoveLast removes and returns the tail element, or [ErrNoData] if empty.
func (d *Dlist[E]) RemoveLast() (E, error) {
	var zero E
	if d.last == nil {
		return zero, ErrNoData
	}
	v := d.last.Owner()
	d.Remove(d.last)
	return v, nil
}

// Replace substitutes newNode for old in place. old must currently be in d.
func (d *Dlist[E]) Replace(old, newNode *LinkD[E]) {
	InitNext(newNode, old)
	wasLast := d.last == old
	FreeLinkD(old)
	if wasLast {
		d.last = newNode
	}
}

// Splice concatenates other onto the tail of d, emptying other.
func (d *Dlist[E]) Splice(other *Dlist[E]) {
	if other.last == nil {
		return
	}
	if d.last == nil {
		d.last = other.last
		other.last = nil
		return
	}
	SpliceLinkD(d.last, other.last)
	d.last = other.last
	other.last = nil
}

// Walker walks a Dlist from front to back (or back to front, via
// [Dlist.WalkReverse]). It is safe against removal of the currently-yielded
// node only (spec.md §4.1); removing any other node mid-walk is undefined.
// The walker resolves "final element" by comparing against d's last pointer
// as cached when the walk began, matching the source's convention.
type Walker[E any] struct {
	d        *Dlist[E]
	cur      *LinkD[E]
	next     *LinkD[E] // cur's successor in walk order, saved when cur was yielded
	boundary *LinkD[E]
	reverse  bool
	started  bool
	done     bool
}

// Walk returns a forward walker over d, from first to last.
func (d *Dlist[E]) Walk() *Walker[E] {
	return &Walker[E]{d: d, boundary: d.last}
}

// WalkReverse returns a reverse walker over d, from last to first.
func (d *Dlist[E]) WalkReverse() *Walker[E] {
	return &Walker[E]{d: d, boundary: d.First(), reverse: true}
}

// Next advances the walker and reports whether an element was produced.
func (w *Walker[E]) Next() (E, bool) {
	var zero E
	if w.done || w.boundary == nil {
		return zero, false
	}
	if !w.started {
		w.started = true
		if w.reverse {
			w.cur = w.d.last
		} else {
			w.cur = w.d.First()
		}
	} else {
		if w.cur == w.boundary {
			w.done = true
			return zero, false
		}
		w.cur = w.next
	}
	if w.cur == nil {
		w.done = true
		return zero, false
	}
	v := w.cur.Owner()
	if w.cur == w.boundary {
		w.done = true
	}
	if w.reverse {
		w.next = w.cur.Prev()
	} else {
		w.next = w.cur.Next()
	}
	return v, true
}

// Free walks d, unlinking and (if adapter is non-nil) deleting every
// element, aggregating errors from the deleter rather than stopping at the
// first one (spec.md §4.1 free / §7 "every sub-release is attempted"). d is
// empty on return regardless of errors. Idempotent: freeing an already-empty
// list returns nil.
func (d *Dlist[E]) Free(adapter TypeAdapter) error {
	var agg Faults
	for {
		v, err := d.RemoveFirst()
		if err != nil {
			break
		}
		if derr := safeDelete(adapter, v); derr != nil {
			agg.Add(derr)
		}
	}
	return agg.Err()
}
