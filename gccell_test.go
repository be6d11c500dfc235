package gc

import "testing"

func TestGcCellSharedBorrowsCoexist(t *testing.T) {
	c := NewGcCell(leaf{label: "x"})
	r1, err := c.TryBorrow()
	if err != nil {
		t.Fatalf("first TryBorrow: %v", err)
	}
	r2, err := c.TryBorrow()
	if err != nil {
		t.Fatalf("second concurrent TryBorrow: %v", err)
	}
	if r1.Value().label != "x" || r2.Value().label != "x" {
		t.Fatal("shared borrows did not see the cell's contents")
	}
	r1.Release()
	r2.Release()
}

func TestGcCellWriteExcludesRead(t *testing.T) {
	c := NewGcCell(leaf{label: "x"})
	w := c.BorrowMut()
	if _, err := c.TryBorrow(); err != ErrAlreadyWriting {
		t.Fatalf("TryBorrow while writing = %v, want ErrAlreadyWriting", err)
	}
	w.Release()
	if _, err := c.TryBorrow(); err != nil {
		t.Fatalf("TryBorrow after write release: %v", err)
	}
}

func TestGcCellReadExcludesWrite(t *testing.T) {
	c := NewGcCell(leaf{label: "x"})
	r := c.Borrow()
	if _, err := c.TryBorrowMut(); err != ErrAlreadyBorrowed {
		t.Fatalf("TryBorrowMut while reading = %v, want ErrAlreadyBorrowed", err)
	}
	r.Release()
	if _, err := c.TryBorrowMut(); err != nil {
		t.Fatalf("TryBorrowMut after read release: %v", err)
	}
}

func TestGcCellWriteExcludesWrite(t *testing.T) {
	c := NewGcCell(leaf{label: "x"})
	w1 := c.BorrowMut()
	if _, err := c.TryBorrowMut(); err != ErrAlreadyBorrowed {
		t.Fatalf("second TryBorrowMut while writing = %v, want ErrAlreadyBorrowed", err)
	}
	w1.Release()
}

func TestGcCellBorrowPanicsOnCollision(t *testing.T) {
	c := NewGcCell(leaf{label: "x"})
	w := c.BorrowMut()
	defer w.Release()

	defer func() {
		if recover() == nil {
			t.Fatal("Borrow during an active write did not panic")
		}
	}()
	c.Borrow()
}

func TestMapRefProjectsWithoutChangingBorrowCount(t *testing.T) {
	c := NewGcCell(leaf{label: "x"})
	r := c.Borrow()
	labelRef := MapRef(r, func(l *leaf) *string { return &l.label })
	if *labelRef.Value() != "x" {
		t.Fatalf("MapRef.Value() = %q, want x", *labelRef.Value())
	}
	// The cell must still be considered read-locked through the
	// projection: a concurrent write attempt must fail.
	if _, err := c.TryBorrowMut(); err != ErrAlreadyBorrowed {
		t.Fatalf("TryBorrowMut through an active MapRef projection = %v, want ErrAlreadyBorrowed", err)
	}
	labelRef.Release()
	if _, err := c.TryBorrowMut(); err != nil {
		t.Fatalf("TryBorrowMut after releasing the projection: %v", err)
	}
}

func TestSplitRefIncrementsSharedCount(t *testing.T) {
	c := NewGcCell(pair{a: leaf{label: "a"}, b: leaf{label: "b"}})
	r := c.Borrow()
	ra, rb := SplitRef(r, func(p *pair) (*leaf, *leaf) { return &p.a, &p.b })

	if _, err := c.TryBorrowMut(); err != ErrAlreadyBorrowed {
		t.Fatalf("TryBorrowMut while both split halves are live = %v, want ErrAlreadyBorrowed", err)
	}
	ra.Release()
	if _, err := c.TryBorrowMut(); err != ErrAlreadyBorrowed {
		t.Fatalf("TryBorrowMut while one split half is still live = %v, want ErrAlreadyBorrowed", err)
	}
	rb.Release()
	if _, err := c.TryBorrowMut(); err != nil {
		t.Fatalf("TryBorrowMut after releasing both split halves: %v", err)
	}
}

func TestMapRefMutPreservesWriterState(t *testing.T) {
	c := NewGcCell(pair{a: leaf{label: "a"}, b: leaf{label: "b"}})
	w := c.BorrowMut()
	aRef := MapRefMut(w, func(p *pair) *leaf { return &p.a })
	aRef.Value().label = "changed"

	if _, err := c.TryBorrow(); err != ErrAlreadyWriting {
		t.Fatalf("TryBorrow through an active MapRefMut projection = %v, want ErrAlreadyWriting", err)
	}
	aRef.Release()
	r, err := c.TryBorrow()
	if err != nil {
		t.Fatalf("TryBorrow after releasing the mut projection: %v", err)
	}
	if r.Value().a.label != "changed" {
		t.Fatalf("mutation through MapRefMut projection did not stick: got %q", r.Value().a.label)
	}
	r.Release()
}

func TestGcCellWritingStateClearsOnRelease(t *testing.T) {
	c := NewGcCell(optGc[leaf]{})
	w := c.BorrowMut()
	if !c.flag.isWriting() {
		t.Fatal("cell does not report writing while a BorrowMut guard is held")
	}
	w.Release()
	if c.flag.isWriting() {
		t.Fatal("cell still reports writing after the guard was released")
	}
	// gcTrace must skip contents while writing (spec.md: the collector
	// cannot safely trace through an actively-mutated cell); that skip is
	// not exercised here, and the ring/cycle scenarios in collect_test.go
	// release every BorrowMut guard before they collect.
}
