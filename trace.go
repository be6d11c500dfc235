package gc

// Finalizer is the user-overridable finalization capability (spec.md §6).
// The default, for types that don't implement it, is a no-op — checked via
// a type assertion in box.finalizeGlueValue rather than requiring every
// Trace implementor to also implement Finalizer.
type Finalizer interface {
	Finalize()
}

// Trace is the capability every payload placed into a Heap must implement
// (spec.md §4.A). Deriving it mechanically for arbitrary user aggregates is
// out of scope (spec.md §1); implementors call the four operations on each
// of their own Gc/GcCell fields by hand, the way the teacher's
// gcLayout.scan walks an object's pointer words by hand instead of via
// reflection.
//
//   - gcTrace marks the boxes of every managed pointer transitively owned
//     and recurses into their payloads (idempotent per cycle via the mark
//     bit).
//   - gcRoot/gcUnroot increment/decrement the root count of every managed
//     pointer directly owned. They must balance: anything rooted is
//     eventually unrooted exactly once.
//   - gcFinalizeGlue recurses into owned subvalues. The payload's own
//     Finalize (if implemented) is run by box.finalizeGlueValue just
//     before it calls gcFinalizeGlue, so gcFinalizeGlue does not call it.
//
// Scalar leaves (ints, strings, plain structs with no Gc/GcCell fields)
// never need to implement Trace themselves: they simply aren't placed
// directly inside a Heap, only as fields of a type that does implement it,
// in which case the aggregate's gcTrace/gcRoot/gcUnroot/gcFinalizeGlue
// methods skip over them.
type Trace interface {
	gcTrace(c *collector)
	gcRoot()
	gcUnroot()
	gcFinalizeGlue()
}

// collector threads through a single collection cycle. It doesn't hold
// mutable scan state of its own (tracing recurses on the Go call stack
// rather than via an explicit work list like the teacher's scanList in
// gc_blocks.go, since a hosted Go program doesn't need to bound native
// stack usage the way a microcontroller target does); it exists so Trace
// implementations have a stable parameter to extend later without a
// breaking signature change, and so a box can assert it belongs to the
// heap currently collecting.
type collector struct {
	heap *Heap
}

// GcVec is a small generic Trace implementation for a slice of managed
// pointers, the one "container support" surface this package keeps: the
// Non-goals in spec.md §1 exclude mechanical Trace derivation for the rest
// of the standard library's containers.
type GcVec[T Trace] []Gc[T]

func (v GcVec[T]) gcTrace(c *collector) {
	for _, g := range v {
		g.gcTrace(c)
	}
}

func (v GcVec[T]) gcRoot() {
	for _, g := range v {
		g.gcRoot()
	}
}

func (v GcVec[T]) gcUnroot() {
	for _, g := range v {
		g.gcUnroot()
	}
}

func (v GcVec[T]) gcFinalizeGlue() {
	for _, g := range v {
		g.gcFinalizeGlue()
	}
}
