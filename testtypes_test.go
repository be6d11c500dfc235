package gc

// leaf is a Trace implementor with no managed fields of its own, the
// simplest possible payload for exercising allocation and sweep without
// any cycle machinery.
type leaf struct {
	label string
}

func (leaf) gcTrace(*collector) {}
func (leaf) gcRoot()            {}
func (leaf) gcUnroot()          {}
func (leaf) gcFinalizeGlue()    {}

// trackedLeaf is a leaf that records when it's finalized, for tests that
// need to observe reclamation.
type trackedLeaf struct {
	label    string
	finalize *bool
}

func (l trackedLeaf) gcTrace(*collector) {}
func (l trackedLeaf) gcRoot()            {}
func (l trackedLeaf) gcUnroot()          {}
func (l trackedLeaf) gcFinalizeGlue()    {}
func (l trackedLeaf) Finalize() {
	if l.finalize != nil {
		*l.finalize = true
	}
}

// pair is a two-field aggregate used to exercise GcCell projections
// (MapRef/SplitRef/MapRefMut) against more than one field.
type pair struct {
	a, b leaf
}

func (p pair) gcTrace(c *collector) { p.a.gcTrace(c); p.b.gcTrace(c) }
func (p pair) gcRoot()              { p.a.gcRoot(); p.b.gcRoot() }
func (p pair) gcUnroot()            { p.a.gcUnroot(); p.b.gcUnroot() }
func (p pair) gcFinalizeGlue()      { p.a.gcFinalizeGlue(); p.b.gcFinalizeGlue() }

// optGc is a nullable managed pointer, standing in for the Option<Gc<T>>
// field a cyclic data structure built on this package needs to represent
// "no link yet" before the cycle is closed.
type optGc[T Trace] struct {
	has bool
	g   Gc[T]
}

func (o optGc[T]) gcTrace(c *collector) {
	if o.has {
		o.g.gcTrace(c)
	}
}

func (o optGc[T]) gcRoot() {
	if o.has {
		o.g.gcRoot()
	}
}

func (o optGc[T]) gcUnroot() {
	if o.has {
		o.g.gcUnroot()
	}
}

func (o optGc[T]) gcFinalizeGlue() {
	if o.has {
		o.g.gcFinalizeGlue()
	}
}

// ringNode is a cyclic structure's element: a label, a mutable link to
// the previous node (starts empty, closed into a cycle after
// construction via BorrowMut), and finalize-tracking instrumentation.
type ringNode struct {
	label    string
	prev     *GcCell[optGc[ringNode]]
	finalize *bool
}

func newRingNode(label string, finalize *bool) ringNode {
	return ringNode{
		label:    label,
		prev:     NewGcCell(optGc[ringNode]{}),
		finalize: finalize,
	}
}

func (n ringNode) gcTrace(c *collector) { n.prev.gcTrace(c) }
func (n ringNode) gcRoot()              { n.prev.gcRoot() }
func (n ringNode) gcUnroot()            { n.prev.gcUnroot() }
func (n ringNode) gcFinalizeGlue()      { n.prev.gcFinalizeGlue() }
func (n ringNode) Finalize() {
	if n.finalize != nil {
		*n.finalize = true
	}
}

// link closes n's prev pointer onto target, transferring target's root
// (via Clone, then the BorrowMut guard's release-time unroot) into being
// reachable only by tracing through n.
func (n ringNode) link(target Gc[ringNode]) {
	ref := n.prev.BorrowMut()
	*ref.Value() = optGc[ringNode]{has: true, g: target.Clone()}
	ref.Release()
}

// resurrecting is a payload whose Finalize rehydrates a fresh, rooted
// handle to its own box into an external slot, demonstrating the
// finalizer-resurrection path of spec.md §4.D/§7.
type resurrecting struct {
	text string
	into *GcCell[optGc[resurrecting]]
}

func (r resurrecting) gcTrace(*collector) {}
func (r resurrecting) gcRoot()            {}
func (r resurrecting) gcUnroot()          {}
func (r resurrecting) gcFinalizeGlue()    {}

// Finalize has a pointer receiver so box.finalizeGlueValue's
// any(&b.value).(Finalizer) assertion hands it the real address of the
// payload inside its box, letting boxFromPayload below recompute the
// owning box rather than operating on a detached copy. Resurrection
// establishes a fresh root itself (the box reached Finalize with a root
// count of zero, unlike the IntoRaw/FromRaw pairing FromRaw is meant
// for, where the root is only ever parked, never actually given up) and
// then uses FromRaw to wrap the now-rooted box in a handle.
func (r *resurrecting) Finalize() {
	if r.into == nil {
		return
	}
	boxFromPayload(r).hdr().incRoots()
	revived := FromRaw(r)
	ref := r.into.BorrowMut()
	*ref.Value() = optGc[resurrecting]{has: true, g: revived}
	ref.Release()
}
