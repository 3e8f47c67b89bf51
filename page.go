package corun

import "golang.org/x/exp/constraints"

// pageCapacity is the number of element slots per page. spec.md §6 fixes
// page size at 4096 bytes and maximum record size at 512 bytes, guaranteeing
// "one-in-eight fill": every page holds at least 8 maximum-size records.
// This package's slot-based realization makes that bound
// literal — every page holds exactly pageCapacity slots of E, regardless of
// E's actual in-memory size, trading the source's byte-packed layout for a
// Go-generic one while preserving the structural invariant.
const pageCapacity = PageSize / MaxRecordSize

// Page is one fixed-capacity slab in a [PagedSlabQueue]'s ring (spec.md
// §4.3). start and end are slot indices rather than byte offsets:
// start ≤ end ≤ pageCapacity, and exactly the slots [start, end) are live —
// spec.md §3.2 invariant 4, restated at element instead of byte granularity.
type Page[E any] struct {
	prev, next *Page[E]
	owner      any // *PagedSlabQueue[E]; any to let Page be referenced before PagedSlabQueue's own generic instantiation cycle
	start, end int
	slots      [pageCapacity]E
}

func (p *Page[E]) reset() {
	p.prev, p.next, p.owner = nil, nil, nil
	p.start, p.end = 0, 0
	var zero E
	for i := range p.slots {
		p.slots[i] = zero
	}
}

func (p *Page[E]) length() int  { return p.end - p.start }
func (p *Page[E]) full() bool   { return p.end >= pageCapacity }
func (p *Page[E]) empty() bool  { return p.start >= p.end }

// Handle identifies one live slot, giving O(1) queue-from-address lookup
// (spec.md §4.3's queue_from_address) via a direct field read instead of an
// address-masking computation — the index-based realization spec.md §9
// sanctions in place of raw-pointer relinking.
type Handle[E any] struct {
	pg  *Page[E]
	idx int
}

// Queue returns the queue owning h's page, or nil for the zero Handle.
func (h Handle[E]) Queue() *PagedSlabQueue[E] {
	if h.pg == nil {
		return nil
	}
	return h.pg.owner.(*PagedSlabQueue[E])
}

// Valid reports whether h still refers to a live slot.
func (h Handle[E]) Valid() bool {
	return h.pg != nil && h.idx >= h.pg.start && h.idx < h.pg.end
}

// Get returns the element h refers to. Calling Get on an invalid Handle
// panics, the same contract as indexing a slice out of bounds.
func (h Handle[E]) Get() E {
	return h.pg.slots[h.idx]
}

// Set overwrites the element h refers to.
func (h Handle[E]) Set(v E) {
	h.pg.slots[h.idx] = v
}

// minOf returns the lesser of a and b, used by [PagedSlabQueue.ResizeLast] to
// bound how many slots survive a relocation (spec.md §4.3: "copying the
// first min(old,new) bytes").
func minOf[T constraints.Integer](a, b T) T {
	if a < b {
		return a
	}
	return b
}
