package corun

// Link is a mutual back-reference between two holders (spec.md §4.2): each
// side points at the other's Link field, or both are nil. It backs, for
// example, an [ExitEvent]'s reference to its single waiter.
//
// The source realizes this with raw pointers into relocatable records and
// therefore needs an explicit relink step after any bitwise move (spec.md
// §9). Go pointers are never relocated by the runtime, so every record this
// package exposes a *Link for keeps a fixed address for its lifetime;
// RelinkLink is kept only for API parity with the spec and does no more than
// reassert an already-true invariant.
type Link struct {
	peer *Link
}

// Linked reports whether a has a counterpart.
func (a *Link) Linked() bool { return a.peer != nil }

// Peer returns a's counterpart, or nil.
func (a *Link) Peer() *Link { return a.peer }

// InitLink sets a ↔ b: a.peer = b and b.peer = a.
func InitLink(a, b *Link) {
	a.peer = b
	b.peer = a
}

// FreeLink clears both a and its counterpart, if any. Idempotent.
func FreeLink(a *Link) {
	if a.peer != nil {
		a.peer.peer = nil
		a.peer = nil
	}
}

// RelinkLink reasserts a.peer.peer == a. A no-op under this package's
// pointer-stable realization (spec.md §9); kept so callers that port logic
// from the source's memcpy-based move sites need not special-case this.
func RelinkLink(a *Link) {
	if a.peer != nil {
		a.peer.peer = a
	}
}

// UnlinkLink clears only a's counterpart, leaving a itself untouched. Used
// just before a is dropped wholesale (spec.md §9 preserves this asymmetry
// from the source's unlink_link).
func UnlinkLink(a *Link) {
	if a.peer != nil {
		a.peer.peer = nil
	}
}

// LinkD is a ring-membership link with prev/next pointers (spec.md §4.2),
// parameterized by the owning type E so the ring can be walked back to its
// elements without an interface indirection or unsafe pointer arithmetic. A
// ring of size one is a self-loop; a fully detached node has both pointers
// nil.
type LinkD[E any] struct {
	prev, next *LinkD[E]
	owner      E
}

// NewLinkD returns a detached LinkD owned by owner.
func NewLinkD[E any](owner E) *LinkD[E] {
	return &LinkD[E]{owner: owner}
}

// Owner returns the element this link is embedded in.
func (a *LinkD[E]) Owner() E { return a.owner }

// Linked reports whether a currently participates in a ring.
func (a *LinkD[E]) Linked() bool { return a.next != nil }

// Next returns the next node in a's ring, or nil if a is detached.
func (a *LinkD[E]) Next() *LinkD[E] { return a.next }

// Prev returns the previous node in a's ring, or nil if a is detached.
func (a *LinkD[E]) Prev() *LinkD[E] { return a.prev }

// InitSelf makes a into a one-element ring, for use as a sentinel head.
func InitSelf[E any](a *LinkD[E]) {
	a.prev, a.next = a, a
}

// InitNext splices newNode into pivot's ring immediately after pivot.
func InitNext[E any](newNode, pivot *LinkD[E]) {
	newNode.prev = pivot
	newNode.next = pivot.next
	pivot.next.prev = newNode
	pivot.next = newNode
}

// InitPrev splices newNode into pivot's ring immediately before pivot.
func InitPrev[E any](newNode, pivot *LinkD[E]) {
	newNode.next = pivot
	newNode.prev = pivot.prev
	pivot.prev.next = newNode
	pivot.prev = newNode
}

// FreeLinkD excises a from its ring, leaving a with both pointers nil. If
// exactly one other node remains, that node is left as a one-element ring
// looped to itself; it is not detached. Idempotent: freeing an
// already-detached node is a no-op.
func FreeLinkD[E any](a *LinkD[E]) {
	if a.next == nil {
		return
	}
	if a.next == a {
		a.prev, a.next = nil, nil
		return
	}
	a.prev.next = a.next
	a.next.prev = a.prev
	if a.next.next == a.next {
		// exactly one node remains in the ring besides a's former
		// neighbours — nothing further to normalise, a itself is detached.
	}
	a.prev, a.next = nil, nil
}

// SpliceLinkD concatenates two rings into one by crossing their last-to-first
// edges: a's successor becomes b's old successor and vice versa. If either
// ring is nil (empty), the other is left unchanged.
func SpliceLinkD[E any](a, b *LinkD[E]) {
	if a == nil || b == nil {
		return
	}
	aNext, bNext := a.next, b.next
	a.next = bNext
	bNext.prev = a
	b.next = aNext
	aNext.prev = b
}
