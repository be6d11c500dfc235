package gc

import (
	"encoding/binary"

	"github.com/sigurn/crc16"
)

// checksumList computes a cheap structural checksum of the live box list
// (count of boxes, total bytes allocated), used only for the verbose debug
// trace line logged at the start of each collection. It has no effect on
// collection semantics; it's the Go-idiomatic analogue of the
// gcAsserts-gated consistency checks in the teacher's gc_blocks.go
// (findHead's "found tail without head" panic), moved out of the hot path
// and behind the same Config.Verbose gate as the trace writer.
func (h *Heap) checksumList() uint16 {
	table := crc16.MakeTable(crc16.CRC16_MODBUS)

	var count uint64
	for cur := h.head; cur != nil; cur = cur.next() {
		count++
	}

	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], count)
	binary.LittleEndian.PutUint64(buf[8:16], h.bytesAllocated)
	return crc16.Checksum(buf[:], table)
}
