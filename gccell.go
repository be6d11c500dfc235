package gc

// cellFlag packs GcCell's rooted bit and its dynamic borrow state into one
// word, directly grounded on the teacher's src/sync/mutex.go RWMutex, which
// encodes a reader count and a distinguished writer sentinel
// (rwMutexMaxReaders) into a single futex word. Bit 0 is the rooted flag;
// the remaining bits are the borrow state: 0 means unused, all of those
// bits set is the writing sentinel, and any other value is a reading count
// shifted left by one so it never collides with bit 0 (spec.md §3).
type cellFlag uint32

const (
	cellRootedBit cellFlag = 1
	cellStateMask cellFlag = ^cellFlag(0) &^ cellRootedBit
)

func (f cellFlag) rooted() bool       { return f&cellRootedBit != 0 }
func (f cellFlag) isWriting() bool    { return f&cellStateMask == cellStateMask }
func (f cellFlag) readingCount() uint32 {
	if f.isWriting() {
		return 0
	}
	return uint32(f&cellStateMask) >> 1
}
func (f cellFlag) withRooted(rooted bool) cellFlag {
	if rooted {
		return f | cellRootedBit
	}
	return f &^ cellRootedBit
}
func (f cellFlag) startWriting() cellFlag { return cellStateMask | (f & cellRootedBit) }
func (f cellFlag) stopWriting() cellFlag  { return f & cellRootedBit }
func (f cellFlag) incReading() cellFlag   { return f + 2 }
func (f cellFlag) decReading() cellFlag   { return f - 2 }

// GcCell is the borrow-checked interior-mutability cell of spec.md §4.F.
// Gc[T] only gives shared access; GcCell supplies dynamic borrow checking
// and coordinates with rooting the way a RefCell coordinates with Rust's
// borrow checker, except the borrow state here also has to interact with
// tracing: while a writer guard is held, the collector cannot safely trace
// through the cell (the region may transiently violate T's Trace
// invariants mid-mutation), so the contents are rooted independently for
// the guard's lifetime instead.
type GcCell[T Trace] struct {
	flag  cellFlag
	value T
}

// NewGcCell creates a cell whose contents start rooted (the usual case: a
// cell constructed on the stack, not yet moved into a managed box) and
// whose borrow state is unused.
func NewGcCell[T Trace](value T) *GcCell[T] {
	return &GcCell[T]{flag: cellRootedBit, value: value}
}

func (c *GcCell[T]) gcTrace(col *collector) {
	if c.flag.isWriting() {
		// The writer guard rooted the contents independently; the
		// collector doesn't need to (and must not, per spec.md §4.D/§5)
		// trace through an actively-mutable region.
		return
	}
	c.value.gcTrace(col)
}

func (c *GcCell[T]) gcRoot() {
	wasWriting := c.flag.isWriting()
	c.flag = c.flag.withRooted(true)
	if !wasWriting {
		c.value.gcRoot()
	}
}

func (c *GcCell[T]) gcUnroot() {
	wasWriting := c.flag.isWriting()
	c.flag = c.flag.withRooted(false)
	if !wasWriting {
		c.value.gcUnroot()
	}
}

func (c *GcCell[T]) gcFinalizeGlue() {
	if fin, ok := any(&c.value).(Finalizer); ok {
		fin.Finalize()
	}
	c.value.gcFinalizeGlue()
}

// TryBorrow returns a shared-borrow guard, or ErrAlreadyWriting if a
// BorrowMut guard is currently held.
func (c *GcCell[T]) TryBorrow() (*GcCellRef[T], error) {
	if c.flag.isWriting() {
		return nil, ErrAlreadyWriting
	}
	c.flag = c.flag.incReading()
	return &GcCellRef[T]{flag: &c.flag, ptr: &c.value}, nil
}

// Borrow is TryBorrow, panicking instead of returning an error.
func (c *GcCell[T]) Borrow() *GcCellRef[T] {
	r, err := c.TryBorrow()
	if err != nil {
		panic(err)
	}
	return r
}

// TryBorrowMut returns an exclusive-borrow guard, or ErrAlreadyBorrowed if
// any borrow (reading or writing) is currently active. If the cell's
// contents aren't currently rooted (the common case: the cell lives inside
// a managed box and is only reachable by tracing), the guard roots them
// for its own lifetime, since the collector can't trace through the cell
// while it's being mutated.
func (c *GcCell[T]) TryBorrowMut() (*GcCellRefMut[T], error) {
	if c.flag.isWriting() || c.flag.readingCount() > 0 {
		return nil, ErrAlreadyBorrowed
	}
	wasRooted := c.flag.rooted()
	c.flag = c.flag.startWriting()

	rootedByGuard := false
	if !wasRooted {
		c.value.gcRoot()
		rootedByGuard = true
	}
	return &GcCellRefMut[T]{
		flag:          &c.flag,
		ptr:           &c.value,
		rootedByGuard: rootedByGuard,
		unroot:        func() { c.value.gcUnroot() },
	}, nil
}

// BorrowMut is TryBorrowMut, panicking instead of returning an error.
func (c *GcCell[T]) BorrowMut() *GcCellRefMut[T] {
	r, err := c.TryBorrowMut()
	if err != nil {
		panic(err)
	}
	return r
}

// GcCellRef is a RAII shared-borrow guard. It must be released (via
// Release) when the borrow ends; Go has no scope-based destructors, so
// unlike Rust's GcCellRef this isn't automatic.
type GcCellRef[T any] struct {
	flag *cellFlag
	ptr  *T
}

// Value returns the borrowed contents.
func (r *GcCellRef[T]) Value() *T { return r.ptr }

// Release ends the borrow. Safe to call more than once.
func (r *GcCellRef[T]) Release() {
	if r.flag == nil {
		return
	}
	*r.flag = r.flag.decReading()
	r.flag = nil
}

// GcCellRefMut is a RAII exclusive-borrow guard.
type GcCellRefMut[T any] struct {
	flag          *cellFlag
	ptr           *T
	rootedByGuard bool
	unroot        func()
}

// Value returns the mutably borrowed contents.
func (r *GcCellRefMut[T]) Value() *T { return r.ptr }

// Release ends the borrow, unrooting the contents first if this guard was
// the one that rooted them. Safe to call more than once.
func (r *GcCellRefMut[T]) Release() {
	if r.flag == nil {
		return
	}
	if r.rootedByGuard && r.unroot != nil {
		r.unroot()
	}
	*r.flag = r.flag.stopWriting()
	r.flag = nil
}

// MapRef projects a shared-borrow guard onto a sub-value, consuming r and
// reusing its reader-count slot (spec.md §4.F, GcCellRef::map).
func MapRef[T, U any](r *GcCellRef[T], f func(*T) *U) *GcCellRef[U] {
	g := &GcCellRef[U]{flag: r.flag, ptr: f(r.ptr)}
	r.flag = nil
	return g
}

// SplitRef projects a shared-borrow guard into two independent guards that
// share the underlying borrow count, incrementing it once for the second
// projection (spec.md §4.F, GcCellRef::map_split).
func SplitRef[T, U1, U2 any](r *GcCellRef[T], f func(*T) (*U1, *U2)) (*GcCellRef[U1], *GcCellRef[U2]) {
	p1, p2 := f(r.ptr)
	*r.flag = r.flag.incReading()
	g1 := &GcCellRef[U1]{flag: r.flag, ptr: p1}
	g2 := &GcCellRef[U2]{flag: r.flag, ptr: p2}
	r.flag = nil
	return g1, g2
}

// MapRefMut re-parents an exclusive-borrow guard onto a sub-value,
// transferring ownership of the writer state (and the independent
// rooting, if this guard is the one holding it) to the projection
// (spec.md §4.F, GcCellRefMut::map).
func MapRefMut[T, U any](r *GcCellRefMut[T], f func(*T) *U) *GcCellRefMut[U] {
	g := &GcCellRefMut[U]{flag: r.flag, ptr: f(r.ptr), rootedByGuard: r.rootedByGuard, unroot: r.unroot}
	r.flag = nil
	return g
}
