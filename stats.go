package gc

import (
	"fmt"

	"github.com/inhies/go-bytesize"
)

// Stats is the observable snapshot spec.md §3/§6 calls GcStats.
type Stats struct {
	BytesAllocated       uint64
	CollectionsPerformed uint64
}

// String renders BytesAllocated with go-bytesize, matching the style
// tinygo itself uses to report flash/RAM sizes (builder/sizes_test.go)
// rather than printing a raw byte count.
func (s Stats) String() string {
	return fmt.Sprintf("%s allocated, %d collections performed",
		bytesize.New(float64(s.BytesAllocated)), s.CollectionsPerformed)
}
