package corun

import "sync"

// PageSize is the fixed page size spec.md §6 fixes for every page this
// package acquires: 4096 bytes, page-aligned by construction since pages are
// never sliced out of a larger allocation.
const PageSize = 4096

// MaxRecordSize is the largest single record a [PagedSlabQueue] may hold
// (spec.md §6). It fixes pageCapacity (see page.go); neither queue
// construction nor pushing checks the in-memory size of E, since every
// page holds exactly pageCapacity slots of E whatever E's size is.
const MaxRecordSize = 512

// PageAllocator is the external page-memory collaborator (spec.md §6,
// explicitly out of scope for the core): Acquire hands out one page at a
// time, Release returns it. Acquire returns [ErrOutOfMemory] on exhaustion.
// Implementations need not zero a returned page's bookkeeping; callers reset
// it via [Page.reset] semantics on acquisition.
type PageAllocator[E any] interface {
	Acquire() (*Page[E], error)
	// Release returns a page previously obtained from Acquire. Releasing a
	// page not obtained from this allocator is undefined.
	Release(*Page[E])
}

// poolPageAllocator is the default [PageAllocator], a [sync.Pool] of pages
// owned by this allocator value. Grounded on the teacher's chunkPool in ingress.go,
// which recycles fixed-capacity chunks the same way across every
// [ChunkedIngress] instance.
type poolPageAllocator[E any] struct {
	pool sync.Pool
}

func newPoolPageAllocator[E any]() *poolPageAllocator[E] {
	a := &poolPageAllocator[E]{}
	a.pool.New = func() any { return &Page[E]{} }
	return a
}

func (a *poolPageAllocator[E]) Acquire() (*Page[E], error) {
	p := a.pool.Get().(*Page[E])
	p.reset()
	return p, nil
}

func (a *poolPageAllocator[E]) Release(p *Page[E]) {
	p.reset()
	a.pool.Put(p)
}

// NewPoolPageAllocator returns a [PageAllocator] for element type E backed by
// its own new pool. [NewRunner] creates one of these per Runner, shared by
// its *TaskRecord buckets, unless [WithPageAllocator] overrides it.
func NewPoolPageAllocator[E any]() PageAllocator[E] {
	return newPoolPageAllocator[E]()
}
