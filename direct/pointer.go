// Package direct implements a file-backed record store that writes
// records directly into an index volume and a data volume, with no
// journal. Free space and freed recids are recycled through Long
// Stacks, linked LIFO pages living inside the data volume.
package direct

import (
	"fmt"

	"github.com/viant/recstore"
)

const (
	// storeHeader is the magic constant at offset 0 of both files.
	storeHeader = 0x7D54B70D34A1FA5A

	// maxRecSize is the largest single extent; larger payloads are
	// stored as linked chains of extents.
	maxRecSize = 65535

	// physFreeSlotsCount is the number of free-extent size classes.
	physFreeSlotsCount = 4096

	ioIndexSize = 1 * 8
	ioPhysSize  = 2 * 8
	ioFreeSize  = 3 * 8
	ioFreeRecid = 15 * 8

	// ioUserStart is the index offset of the slot for recid 0, which
	// stays reserved; user recids begin at 1.
	ioUserStart = ioFreeRecid + physFreeSlotsCount*8 + 8

	longStackPrefCount = 204
	longStackPrefSize  = 8 + longStackPrefCount*6
)

const (
	maskOffset = 0x0000FFFFFFFFFFF0

	maskLinked  = 0x8
	maskDiscard = 0x4
	maskArchive = 0x2
)

// pointer packs a record extent descriptor into one 64-bit index word:
// bits 48..63 hold the extent size, bits 4..47 the physical offset
// (always a multiple of 16), and the low bits the LINKED, DISCARD and
// ARCHIVE flags. The zero pointer means "no extent".
type pointer uint64

func newPointer(size int, offset int64, linked bool) (pointer, error) {
	if size < 0 || size > maxRecSize {
		return 0, fmt.Errorf("%w: extent size %d", recstore.ErrCorrupt, size)
	}
	if offset&0xF != 0 || uint64(offset)&^uint64(maskOffset) != 0 {
		return 0, fmt.Errorf("%w: extent offset %d not aligned to 16", recstore.ErrCorrupt, offset)
	}
	p := pointer(uint64(size)<<48 | uint64(offset))
	if linked {
		p |= maskLinked
	}
	return p, nil
}

func (p pointer) size() int {
	return int(uint64(p) >> 48)
}

func (p pointer) offset() int64 {
	return int64(uint64(p) & maskOffset)
}

func (p pointer) linked() bool {
	return uint64(p)&maskLinked != 0
}

func (p pointer) archive() bool {
	return uint64(p)&maskArchive != 0
}

func (p pointer) discard() bool {
	return uint64(p)&maskDiscard != 0
}

// roundTo16 rounds size up to the extent granularity.
func roundTo16(size int64) int64 {
	if rem := size % 16; rem != 0 {
		size += 16 - rem
	}
	return size
}
