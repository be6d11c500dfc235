package gc

// candidate is a box discovered unmarked in the first collect-candidates
// pass, paired with the address of the intrusive-list slot that currently
// references it, exactly as spec.md §4.D step 2 describes ("record in a
// candidate list together with a pointer to the list link that points at
// it so sweep can splice it out").
type candidate struct {
	box  boxOps
	link *boxOps
}

// collect runs one collection cycle: the seven-step algorithm of
// spec.md §4.D. It borrows the list-walking mark/sweep shape of the
// teacher's runGC in gc_blocks.go (which itself has no finalize phase),
// restructured around explicit candidate tracking instead of an in-place
// free list, since a hosted Go box's memory is reclaimed by the host
// runtime once nothing references it rather than by an explicit free call.
func (h *Heap) collect() {
	h.collecting = true
	defer func() {
		h.collecting = false
		h.sweeping = false
	}()

	if h.trace != nil {
		h.trace.tracef("collection start: %d bytes allocated, checksum %04x", h.bytesAllocated, h.checksumList())
	}

	c := &collector{heap: h}

	// Step 1: first mark pass.
	h.markAll(c)

	// Step 2: collect candidates, unmarking survivors as we go.
	candidates := h.collectCandidates()

	// Step 3: early exit.
	if len(candidates) == 0 {
		h.stats.CollectionsPerformed++
		if h.trace != nil {
			h.trace.tracef("collection done: nothing to reclaim")
		}
		return
	}

	// Step 4: finalize unmarked candidates. A finalizer may resurrect a
	// candidate by making it reachable again; it must not dereference
	// managed pointers (enforced by the sweeping flag, which is set while
	// finalizers run here as well as during the step 6 sweep).
	h.sweeping = true
	for _, cand := range candidates {
		if !cand.box.hdr().isFinalized() {
			cand.box.finalizeGlueValue()
		}
	}
	h.sweeping = false

	// Step 5: second mark pass. Resurrected candidates get re-marked here.
	h.markAll(c)

	var toSweep []*candidate
	for _, cand := range candidates {
		hdr := cand.box.hdr()
		if hdr.isMarked() {
			// Resurrected: survives, ready for the next cycle.
			hdr.unmark()
			continue
		}
		if hdr.isFinalized() {
			toSweep = append(toSweep, cand)
		}
	}

	// Step 6: sweep, in reverse discovery order so that a candidate whose
	// own splice updates a sibling candidate's link field doesn't race
	// against that sibling's own unlinking.
	h.sweeping = true
	for i := len(toSweep) - 1; i >= 0; i-- {
		cand := toSweep[i]
		*cand.link = cand.box.next()
		h.bytesAllocated -= uint64(cand.box.sizeValue())
	}
	h.sweeping = false

	// Step 5 re-marked every reachable box, not only resurrected
	// candidates; clear those marks so the next cycle starts unmarked.
	for cur := h.head; cur != nil; cur = cur.next() {
		cur.hdr().unmark()
	}

	h.stats.CollectionsPerformed++
	if h.trace != nil {
		h.trace.tracef("collection done: reclaimed %d of %d candidates", len(toSweep), len(candidates))
	}
}

// markAll is steps 1 and 5: walk the list once, tracing every box whose
// root count is positive. A box may also be reached as a descendant of a
// root; traceValue's mark-bit check makes repeat visits a no-op.
func (h *Heap) markAll(c *collector) {
	for cur := h.head; cur != nil; cur = cur.next() {
		if cur.hdr().roots() > 0 {
			cur.traceValue(c)
		}
	}
}

// collectCandidates is step 2: walk the list, unmarking survivors and
// recording unmarked boxes as candidates together with the link that
// currently references them.
func (h *Heap) collectCandidates() []*candidate {
	var candidates []*candidate

	link := &h.head
	cur := h.head
	for cur != nil {
		hdr := cur.hdr()
		next := hdr.next

		if hdr.isMarked() {
			hdr.unmark()
		} else {
			candidates = append(candidates, &candidate{box: cur, link: link})
		}

		link = &hdr.next
		cur = next
	}

	return candidates
}
