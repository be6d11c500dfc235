package gc

import "unsafe"

// boxOps is the erased-payload-type view of a box[T], the Go realization of
// the fat-pointer-with-vtable alternative spec.md §9 names directly for
// walking a list of heterogeneous payload types: an interface value pairs a
// data pointer with a method table, which is exactly "header pointer plus
// payload trace operations."
type boxOps interface {
	hdr() *header
	next() boxOps
	setNext(boxOps)
	sizeValue() uintptr
	traceValue(c *collector)
	finalizeGlueValue()
}

// box is the managed box of spec.md §3: a header plus an in-place payload.
// Go has no portable way to compute a payload offset from an arbitrary
// header type the way the teacher's block allocator does (gc_blocks.go,
// objHeader); a generic struct gives the same fixed layout without unsafe
// arithmetic for the common case, and boxFromPayload below recovers the
// header for the into_raw/from_raw round trip spec.md §4.E requires.
type box[T Trace] struct {
	h     header
	value T
}

func newBox[T Trace](value T) *box[T] {
	return &box[T]{h: header{word: 1}, value: value}
}

func (b *box[T]) hdr() *header      { return &b.h }
func (b *box[T]) next() boxOps      { return b.h.next }
func (b *box[T]) setNext(n boxOps)  { b.h.next = n }
func (b *box[T]) sizeValue() uintptr { return unsafe.Sizeof(*b) }

// traceValue marks this box and, the first time it is marked in a
// collection cycle, recursively traces its payload. The mark flag makes
// this idempotent within one cycle, breaking cycles (spec.md §4.A).
func (b *box[T]) traceValue(c *collector) {
	if b.h.isMarked() {
		return
	}
	b.h.mark()
	b.value.gcTrace(c)
}

// finalizeGlueValue runs the payload's Finalize (if any) followed by
// finalize_glue on owned subvalues, exactly once per box lifetime: the
// finalized bit guard makes repeated calls (one from the collector's
// candidate loop, others from a parent's transitive gcFinalizeGlue walk)
// safe, which is how spec.md testable property 5 ("finalize run at most
// once per box-lifetime") is actually enforced.
func (b *box[T]) finalizeGlueValue() {
	if b.h.isFinalized() {
		return
	}
	b.h.setFinalized()
	if fin, ok := any(&b.value).(Finalizer); ok {
		fin.Finalize()
	}
	b.value.gcFinalizeGlue()
}

// boxFromPayload recovers the owning box from a pointer to its payload,
// the Go analogue of the Rust crate's "locate the header at a fixed
// negative offset" into_raw/from_raw technique.
func boxFromPayload[T Trace](p *T) *box[T] {
	var zero box[T]
	offset := unsafe.Offsetof(zero.value)
	return (*box[T])(unsafe.Pointer(uintptr(unsafe.Pointer(p)) - offset))
}
