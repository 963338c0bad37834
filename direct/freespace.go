package direct

import (
	"fmt"

	"github.com/viant/recstore"
	"github.com/viant/recstore/volume"
)

// Free space lives in two pools built on Long Stacks: one stack of
// freed ioRecids, and one stack of free extents per 16-byte size
// class. Callers hold the structural lock.

// size2ListIoRecid maps an extent size to its free-extent stack slot.
func size2ListIoRecid(size int64) int64 {
	return ioFreeRecid + 8 + ((size-1)/16)*8
}

// freeIoRecidPut records a freed recid slot for reuse.
func (s *Store) freeIoRecidPut(ioRecid int64) error {
	if !s.opts.SpaceReclaimTrack() {
		return nil
	}
	return s.longStackPut(ioFreeRecid, uint64(ioRecid))
}

// freeIoRecidTake returns a recycled recid slot, or appends a new one
// at the end of the index.
func (s *Store) freeIoRecidTake(ensureAvail bool) (int64, error) {
	if s.opts.SpaceReclaimTrack() {
		ioRecid, err := s.longStackTake(ioFreeRecid)
		if err != nil {
			return 0, err
		}
		if ioRecid != 0 {
			return int64(ioRecid), nil
		}
	}
	s.indexSize += 8
	if ensureAvail {
		if err := s.index.EnsureAvailable(s.indexSize); err != nil {
			s.indexSize -= 8
			return 0, err
		}
	}
	return s.indexSize - 8, nil
}

// freePhysPut records a freed extent in its size-class pool.
func (s *Store) freePhysPut(p pointer) error {
	if !s.opts.SpaceReclaimTrack() {
		return nil
	}
	size := int64(p.size())
	if size == 0 && p.offset() == 0 {
		// empty slot, nothing to reclaim
		return nil
	}
	s.freeSize += roundTo16(size)
	return s.longStackPut(size2ListIoRecid(size), uint64(p.offset()))
}

// freePhysTake returns an offset for a fresh extent of the given size:
// recycled from the matching size class when reuse is enabled, or
// appended at the end of the data volume. Appended extents never
// straddle a BufSize boundary.
func (s *Store) freePhysTake(size int64, ensureAvail bool) (int64, error) {
	if size <= 0 || size > maxRecSize {
		return 0, fmt.Errorf("%w: extent size %d", recstore.ErrCorrupt, size)
	}
	if s.opts.SpaceReclaimReuse() {
		offset, err := s.longStackTake(size2ListIoRecid(size))
		if err != nil {
			return 0, err
		}
		if offset != 0 {
			s.freeSize -= roundTo16(size)
			return int64(offset), nil
		}
	}
	physSize := s.physSize
	if physSize%volume.BufSize+size > volume.BufSize {
		physSize += volume.BufSize - physSize%volume.BufSize
	}
	offset := physSize
	physSize = roundTo16(physSize + size)
	if limit := s.opts.SizeLimit; limit > 0 && physSize > limit {
		return 0, fmt.Errorf("%w: %d > %d", recstore.ErrSizeLimit, physSize, limit)
	}
	s.physSize = physSize
	if ensureAvail {
		if err := s.phys.EnsureAvailable(s.physSize); err != nil {
			return 0, err
		}
	}
	return offset, nil
}
