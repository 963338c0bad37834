package direct

import (
	"fmt"
	"strings"

	"github.com/viant/recstore"
)

// forEachStackValue visits the values of the Long Stack at ioList from
// most recent to oldest without mutating it. Caller holds the
// structural lock.
func (s *Store) forEachStackValue(ioList int64, visit func(value uint64) error) error {
	head, err := s.index.GetLong(ioList)
	if err != nil {
		return err
	}
	pos := int64(head >> 48)
	pageOffset := int64(head & maskOffset)
	for pageOffset != 0 {
		if pos < 8 {
			return fmt.Errorf("%w: long stack slot %d position %d", recstore.ErrCorrupt, ioList, pos)
		}
		for p := pos; p >= 8; p -= 6 {
			value, err := s.phys.GetSixLong(pageOffset + p)
			if err != nil {
				return err
			}
			if err := visit(value); err != nil {
				return err
			}
		}
		header, err := s.phys.GetLong(pageOffset)
		if err != nil {
			return err
		}
		pageOffset = int64(header & maskOffset)
		if pageOffset != 0 {
			pageSize, err := s.phys.GetUnsignedShort(pageOffset + 6)
			if err != nil {
				return err
			}
			if (pageSize-8)%6 != 0 {
				return fmt.Errorf("%w: long stack page size %d", recstore.ErrCorrupt, pageSize)
			}
			pos = int64(pageSize - 6)
		}
	}
	return nil
}

func (s *Store) countStackItems(ioList int64) (int64, error) {
	var count int64
	err := s.forEachStackValue(ioList, func(uint64) error {
		count++
		return nil
	})
	return count, err
}

// FreeRecids lists recids available for reuse, most recently freed
// first, without consuming them.
func (s *Store) FreeRecids() ([]int64, error) {
	if s.closed {
		return nil, recstore.ErrClosed
	}
	s.structural.Lock()
	defer s.structural.Unlock()
	var recids []int64
	err := s.forEachStackValue(ioFreeRecid, func(value uint64) error {
		recids = append(recids, (int64(value)-ioUserStart)/8)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recids, nil
}

// Stats renders a human-readable storage report: header sizes, the
// free-recid count, and the space held per free-extent size class.
func (s *Store) Stats() (string, error) {
	if s.closed {
		return "", recstore.ErrClosed
	}
	s.structural.Lock()
	defer s.structural.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "recstore.direct\n")
	fmt.Fprintf(&b, "index: %s\n", s.index.Path())
	fmt.Fprintf(&b, "indexSize=%d\n", s.indexSize)
	fmt.Fprintf(&b, "physSize=%d\n", s.physSize)
	fmt.Fprintf(&b, "freeSize=%d\n", s.freeSize)

	freeRecids, err := s.countStackItems(ioFreeRecid)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&b, "freeRecids=%d\n", freeRecids)

	for size := int64(16); size <= maxRecSize+1; size += 16 {
		count, err := s.countStackItems(size2ListIoRecid(size))
		if err != nil {
			return "", err
		}
		if count == 0 {
			continue
		}
		fmt.Fprintf(&b, "freeExtents[size<=%d]: count=%d bytes=%d\n", size, count, count*size)
	}
	return b.String(), nil
}
