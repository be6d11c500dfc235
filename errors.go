package gc

import "errors"

// Errors returned from the fallible try_* borrow APIs (spec.md §7,
// BorrowCollision). The panicking Borrow/BorrowMut entry points panic with
// these directly, unwrapped: a fixed, recognizable sentinel rather than a
// formatted message.
var (
	ErrAlreadyWriting  = errors.New("gc: already writing")
	ErrAlreadyBorrowed = errors.New("gc: already borrowed")
)
