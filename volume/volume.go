// Package volume abstracts the random-access byte buffers backing a
// store: a file-backed implementation with a read-side mmap view and an
// in-memory one for testing and ephemeral stores. All multi-byte words
// are little-endian.
package volume

import "errors"

// BufSize is the segmentation granularity of a volume. A single
// physical extent must not straddle a BufSize boundary; allocators pad
// to the next boundary instead.
const BufSize = 1 << 30

// DataFileExt is the extension of the data file companion of an index file.
const DataFileExt = ".p"

var (
	// ErrClosed is returned when the volume has been closed.
	ErrClosed = errors.New("volume: closed")

	// ErrOutOfBounds indicates access beyond the allocated length.
	ErrOutOfBounds = errors.New("volume: access out of bounds")
)

// Volume is a resizable random-access byte buffer.
type Volume interface {
	// EnsureAvailable grows the volume to hold at least size bytes.
	EnsureAvailable(size int64) error

	// GetLong reads an 8-byte word.
	GetLong(offset int64) (uint64, error)

	// PutLong writes an 8-byte word.
	PutLong(offset int64, value uint64) error

	// GetSixLong reads a 6-byte word into the low 48 bits.
	GetSixLong(offset int64) (uint64, error)

	// PutSixLong writes the low 48 bits of value as a 6-byte word.
	PutSixLong(offset int64, value uint64) error

	// GetUnsignedShort reads a 2-byte word.
	GetUnsignedShort(offset int64) (int, error)

	// GetData fills dst from the volume starting at offset.
	GetData(offset int64, dst []byte) error

	// PutData writes src at offset.
	PutData(offset int64, src []byte) error

	// Sync flushes buffered writes to stable storage.
	Sync() error

	// Close releases the volume; further access fails with ErrClosed.
	Close() error

	// Delete removes the backing file, if any. The volume must be
	// closed first.
	Delete() error

	// Path returns the backing file path, empty for memory volumes.
	Path() string

	// IsEmpty reports whether the volume holds no data yet.
	IsEmpty() (bool, error)
}

// Factory creates the index and data volumes of one store.
type Factory interface {
	CreateIndexVolume() (Volume, error)
	CreatePhysVolume() (Volume, error)
}
