// Package recstore defines the public contract of an embedded record
// store that maps stable integer record identifiers (recids) to opaque
// variable-length byte payloads persisted across two files: an index
// file translating recids to physical locations, and a data file
// holding the payloads. Implementations live in subpackages; see
// recstore/direct for the file-backed engine.
package recstore

import (
	"github.com/viant/recstore/codec"
)

// Store is an embedded record store. A record is addressed by a recid
// assigned on Put; the recid stays stable across updates and survives
// compaction. Implementations are safe for concurrent use.
type Store interface {
	// Put stores a new record and returns its recid.
	Put(value interface{}, serializer codec.Serializer) (int64, error)

	// Get loads a record. A recid whose slot is empty yields the
	// serializer's zero payload (nil for codec.Bytes).
	Get(recid int64, serializer codec.Serializer) (interface{}, error)

	// Update replaces the record payload under the given recid.
	Update(recid int64, value interface{}, serializer codec.Serializer) error

	// CompareAndSwap atomically replaces the record payload if the
	// current value equals expected. It reports whether the swap took
	// place; on false no mutation occurs.
	CompareAndSwap(recid int64, expected, update interface{}, serializer codec.Serializer) (bool, error)

	// Delete removes the record and recycles its recid and space
	// when space reclaim tracking is enabled.
	Delete(recid int64) error

	// GetRaw returns the stored payload bytes, nil when empty.
	GetRaw(recid int64) ([]byte, error)

	// UpdateRaw replaces the payload bytes under recid, growing the
	// index when the recid was never allocated.
	UpdateRaw(recid int64, data []byte) error

	// Commit persists header state and, unless disabled, syncs both
	// backing volumes. There is no rollback; Commit is the only
	// durability point.
	Commit() error

	// Rollback always fails: the store keeps no journal.
	Rollback() error

	// Compact rewrites both files densely, dropping free space while
	// preserving recids. Fails on read-only and in-memory stores.
	Compact() error

	// Close flushes headers, syncs and releases both volumes.
	Close() error

	IsClosed() bool
	IsReadOnly() bool
	CanRollback() bool

	// ClearCache is a no-op here; the engine keeps no record cache.
	ClearCache()

	// MaxRecid returns the highest recid ever allocated.
	MaxRecid() int64

	// SizeLimit returns the configured data-file limit, 0 for none.
	SizeLimit() int64

	// CurrSize returns the allocated data-file length in bytes.
	CurrSize() int64

	// FreeSize returns the bytes of tracked free space in the data file.
	FreeSize() int64

	// FreeRecids lists recids available for reuse, without consuming them.
	FreeRecids() ([]int64, error)

	// Stats renders a human-readable storage report.
	Stats() (string, error)
}
