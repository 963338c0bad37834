package direct

import (
	"fmt"

	"github.com/viant/recstore"
)

// A Long Stack is a LIFO of 48-bit values chained through pages in the
// data volume. One index slot holds its head as (pos<<48)|pageOffset,
// where pos is the in-page byte offset of the next value to pop. Page
// layout: an 8-byte header (pageSize<<48)|previousPageOffset followed
// by 6-byte value slots. Callers hold the structural lock.

func checkIoList(ioList int64) error {
	if ioList < ioFreeRecid || ioList >= ioUserStart {
		return fmt.Errorf("%w: long stack slot %d out of range", recstore.ErrCorrupt, ioList)
	}
	return nil
}

// longStackTake pops the most recently pushed value, 0 when empty.
// Emptied pages return to the free-extent pool.
func (s *Store) longStackTake(ioList int64) (uint64, error) {
	if err := checkIoList(ioList); err != nil {
		return 0, err
	}
	head, err := s.index.GetLong(ioList)
	if err != nil {
		return 0, err
	}
	pos := int64(head >> 48)
	pageOffset := int64(head & maskOffset)
	if pageOffset == 0 {
		return 0, nil
	}
	if pos < 8 {
		return 0, fmt.Errorf("%w: long stack slot %d position %d", recstore.ErrCorrupt, ioList, pos)
	}

	ret, err := s.phys.GetSixLong(pageOffset + pos)
	if err != nil {
		return 0, err
	}

	if pos == 8 {
		// last value on this page, unlink and recycle it
		header, err := s.phys.GetLong(pageOffset)
		if err != nil {
			return 0, err
		}
		pageSize := int64(header >> 48)
		previous := int64(header & maskOffset)
		if previous != 0 {
			prevSize, err := s.phys.GetUnsignedShort(previous + 6)
			if err != nil {
				return 0, err
			}
			if (prevSize-8)%6 != 0 {
				return 0, fmt.Errorf("%w: long stack page size %d", recstore.ErrCorrupt, prevSize)
			}
			if err := s.index.PutLong(ioList, uint64(prevSize-6)<<48|uint64(previous)); err != nil {
				return 0, err
			}
		} else if err := s.index.PutLong(ioList, 0); err != nil {
			return 0, err
		}
		page, err := newPointer(int(pageSize), pageOffset, false)
		if err != nil {
			return 0, err
		}
		if err := s.freePhysPut(page); err != nil {
			return 0, err
		}
	} else if err := s.index.PutLong(ioList, uint64(pos-6)<<48|uint64(pageOffset)); err != nil {
		return 0, err
	}
	return ret, nil
}

// longStackPut pushes a 48-bit value, allocating a fresh page when the
// stack is empty or its head page is full.
func (s *Store) longStackPut(ioList int64, value uint64) error {
	if value>>48 != 0 {
		return fmt.Errorf("%w: long stack value %x exceeds 48 bits", recstore.ErrCorrupt, value)
	}
	if err := checkIoList(ioList); err != nil {
		return err
	}
	head, err := s.index.GetLong(ioList)
	if err != nil {
		return err
	}
	pos := int64(head >> 48)
	pageOffset := int64(head & maskOffset)

	if pageOffset == 0 {
		return s.longStackNewPage(ioList, 0, value)
	}
	header, err := s.phys.GetLong(pageOffset)
	if err != nil {
		return err
	}
	if pos+6 == int64(header>>48) {
		// head page full, chain a new one in front
		return s.longStackNewPage(ioList, pageOffset, value)
	}
	pos += 6
	if err := s.phys.PutSixLong(pageOffset+pos, value); err != nil {
		return err
	}
	return s.index.PutLong(ioList, uint64(pos)<<48|uint64(pageOffset))
}

func (s *Store) longStackNewPage(ioList, previous int64, value uint64) error {
	pageOffset, err := s.freePhysTake(longStackPrefSize, true)
	if err != nil {
		return err
	}
	if pageOffset == 0 {
		return fmt.Errorf("%w: long stack page allocation returned offset 0", recstore.ErrCorrupt)
	}
	if err := s.phys.PutLong(pageOffset, uint64(longStackPrefSize)<<48|uint64(previous)); err != nil {
		return err
	}
	if err := s.phys.PutSixLong(pageOffset+8, value); err != nil {
		return err
	}
	return s.index.PutLong(ioList, 8<<48|uint64(pageOffset))
}
