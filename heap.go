package gc

// Heap is the per-"thread" heap state of spec.md §3. Go has no thread-local
// storage as a language feature, a gap spec.md §9 ("Global state")
// anticipates directly: "pass the heap state through an explicit context
// parameter." A Heap is that context parameter. It must not be used from
// more than one goroutine concurrently, exactly as spec.md forbids
// cross-thread sharing of a single thread's heap.
type Heap struct {
	head           boxOps
	bytesAllocated uint64
	config         Config
	stats          Stats
	sweeping       bool
	collecting     bool
	trace          *traceWriter
}

// NewHeap creates an independent heap with the given configuration. Most
// programs only need one; use DefaultHeap for that case, or NewHeap when a
// test or a goroutine needs its own isolated heap.
func NewHeap(cfg Config) *Heap {
	if err := cfg.Verify(); err != nil {
		panic(err)
	}
	h := &Heap{config: cfg}
	if cfg.Verbose {
		h.trace = newTraceWriter()
	}
	return h
}

var defaultHeap = NewHeap(DefaultConfig())

// DefaultHeap returns the package-level convenience heap used by
// functions that don't take an explicit *Heap.
func DefaultHeap() *Heap {
	return defaultHeap
}

// Config returns the heap's current configuration.
func (h *Heap) Config() Config { return h.config }

// Configure updates the heap's configuration in place (spec.md §6,
// configure(fn(&mut GcConfig))). The updated configuration is validated
// before being applied.
func (h *Heap) Configure(fn func(*Config)) {
	cfg := h.config
	fn(&cfg)
	if err := cfg.Verify(); err != nil {
		panic(err)
	}
	h.config = cfg
	if cfg.Verbose && h.trace == nil {
		h.trace = newTraceWriter()
	} else if !cfg.Verbose {
		h.trace = nil
	}
}

// Stats returns a snapshot of the heap's observable statistics.
func (h *Heap) Stats() Stats {
	s := h.stats
	s.BytesAllocated = h.bytesAllocated
	return s
}

// insert performs the allocation path of spec.md §4.C: consult the
// threshold, collect if needed, adapt the threshold geometrically against
// the survivors, then splice the new box onto the head of the list.
func (h *Heap) insert(b boxOps) {
	size := uint64(b.sizeValue())

	if h.bytesAllocated > h.config.Threshold {
		if h.trace != nil {
			h.trace.tracef("allocation threshold exceeded (%d > %d), collecting", h.bytesAllocated, h.config.Threshold)
		}
		h.collect()
		if floor := uint64(float64(h.config.Threshold) * h.config.UsedSpaceRatio); h.bytesAllocated > floor {
			h.config.Threshold = uint64(float64(h.bytesAllocated) / h.config.UsedSpaceRatio)
			if h.trace != nil {
				h.trace.tracef("raised threshold to %d", h.config.Threshold)
			}
		}
	}

	b.hdr().owner = h
	b.setNext(h.head)
	h.head = b
	h.bytesAllocated += size
}

// ForceCollect triggers a collection cycle now (spec.md §6, force_collect).
// Calling it reentrantly from within a finalizer panics with the
// FinalizerReentrancy condition (spec.md §7): the outer collection already
// holds exclusive access to this heap's state.
func (h *Heap) ForceCollect() {
	if h.collecting {
		panic("gc: force_collect called from within a finalizer (FinalizerReentrancy)")
	}
	h.collect()
}

// FinalizerSafe reports whether the calling code is safe to dereference
// managed pointers belonging to this heap right now (spec.md §6,
// finalizer_safe).
func (h *Heap) FinalizerSafe() bool {
	return !h.sweeping
}

// Teardown runs when the heap itself is no longer needed. Unless
// Config.LeakOnDrop is set, it performs one final collection so finalizers
// run for boxes reachable at exit (spec.md §4.C).
func (h *Heap) Teardown() {
	if !h.config.LeakOnDrop {
		h.collect()
	}
}
