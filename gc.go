package gc

import "runtime"

// handle is the shared state a Gc[T] wraps: the target box plus the single
// per-instance "is this handle currently rooted" bit spec.md §3/§4.E
// describes. spec.md stores that bit by stealing the low bit of the box
// pointer, which is safe in a language with no tracing host runtime.
// Go's own runtime does scan pointer-typed words, so hiding a live pointer
// inside a tagged uintptr would hide it from Go's garbage collector too
// (the box would then only stay alive via its membership in the Heap's
// intrusive list — true while it's on the list, but the conservative case
// of a *box[T] escaping that invariant makes this not worth the risk). A
// plain bool field costs the one extra word spec.md §9 calls out as the
// tradeoff, in exchange for never being wrong. See SPEC_FULL.md's
// "Resolved Open Questions."
//
// Like os.File, Gc[T] is a thin value wrapping a pointer to shared state:
// copying a Gc[T] by assignment aliases the same handle rather than
// creating an independent root. Call Clone to obtain an independently
// rooted handle to the same box.
type handle[T Trace] struct {
	box    *box[T]
	rooted bool
}

// Gc is the managed pointer of spec.md §4.E.
type Gc[T Trace] struct {
	h *handle[T]
}

// New moves value into a freshly allocated box on heap, as spec.md's
// Gc::new. The returned handle is rooted. Any Gc/GcCell fields inside
// value are immediately unrooted (the unroot-on-new rule): they are no
// longer held outside the heap, they're now reachable by tracing through
// this box, so they must stop contributing to their targets' root counts.
// New may trigger a collection.
func New[T Trace](heap *Heap, value T) Gc[T] {
	if heap == nil {
		heap = DefaultHeap()
	}

	b := newBox(value)
	heap.insert(b)
	b.value.gcUnroot()

	h := &handle[T]{box: b, rooted: true}
	runtime.SetFinalizer(h, finalizeHandle[T])
	return Gc[T]{h: h}
}

// finalizeHandle is the backstop spec.md's "drop" contract becomes in a
// language without deterministic destructors: if the caller never called
// Release, the box's root count is still decremented once Go's own
// collector reclaims this handle object. Its timing is unspecified, so
// Release remains the primary, deterministic way to drop a handle.
func finalizeHandle[T Trace](h *handle[T]) {
	if h.rooted {
		h.box.hdr().decRoots()
		h.rooted = false
	}
}

// Clone returns a new handle to the same box, incrementing the target's
// root count and rooting the new handle (spec.md's Gc::clone).
func (g Gc[T]) Clone() Gc[T] {
	g.h.box.hdr().incRoots()
	nh := &handle[T]{box: g.h.box, rooted: true}
	runtime.SetFinalizer(nh, finalizeHandle[T])
	return Gc[T]{h: nh}
}

// Value returns a pointer to the payload. It panics with the
// UseDuringSweep condition if the owning heap is currently sweeping:
// finalizers must not dereference managed pointers belonging to other
// candidates (spec.md §5/§7).
func (g Gc[T]) Value() *T {
	hdr := g.h.box.hdr()
	if hdr.owner != nil && hdr.owner.sweeping {
		panic("gc: cannot dereference a managed pointer while its heap is sweeping (UseDuringSweep)")
	}
	return &g.h.box.value
}

// Release deterministically unroots this handle, the explicit analogue of
// spec.md's Gc drop contract. Calling it more than once, or calling it on
// a handle stored in a field inside a managed payload (whose rooted bit
// New's unroot-on-new step cleared), is a no-op.
func (g Gc[T]) Release() {
	if g.h == nil || !g.h.rooted {
		return
	}
	g.h.box.hdr().decRoots()
	g.h.rooted = false
	runtime.SetFinalizer(g.h, nil)
}

// PtrEq reports whether a and b refer to the same box, independent of
// their individual root state (spec.md's Gc::ptr_eq).
func PtrEq[T Trace](a, b Gc[T]) bool {
	return a.h.box == b.h.box
}

// IntoRaw consumes the handle without adjusting the target's root count —
// the root this handle held is still live, now owned implicitly by the
// returned pointer until a matching FromRaw call rehydrates it.
func (g Gc[T]) IntoRaw() *T {
	runtime.SetFinalizer(g.h, nil)
	g.h.rooted = false
	return &g.h.box.value
}

// FromRaw rehydrates a handle from a pointer previously returned by
// IntoRaw, locating the owning box at its fixed offset before the payload
// (spec.md's Gc::from_raw). It does not touch the target's root count: the
// root IntoRaw left in place is simply re-wrapped.
func FromRaw[T Trace](p *T) Gc[T] {
	b := boxFromPayload(p)
	h := &handle[T]{box: b, rooted: true}
	runtime.SetFinalizer(h, finalizeHandle[T])
	return Gc[T]{h: h}
}

func (g Gc[T]) gcTrace(c *collector) {
	if g.h == nil {
		return
	}
	g.h.box.traceValue(c)
}

func (g Gc[T]) gcRoot() {
	if g.h == nil {
		return
	}
	if g.h.rooted {
		panic("gc: root called on an already rooted handle (DoubleRoot)")
	}
	g.h.box.hdr().incRoots()
	g.h.rooted = true
}

func (g Gc[T]) gcUnroot() {
	if g.h == nil {
		return
	}
	if !g.h.rooted {
		panic("gc: unroot called on a handle that is not rooted (DoubleUnroot)")
	}
	g.h.box.hdr().decRoots()
	g.h.rooted = false
}

func (g Gc[T]) gcFinalizeGlue() {
	if g.h == nil {
		return
	}
	g.h.box.finalizeGlueValue()
}
