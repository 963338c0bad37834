package direct

import (
	"fmt"

	"github.com/viant/recstore"
)

// physAllocate reserves extents for a payload of the given size. A
// payload below maxRecSize fits one extent; larger payloads become a
// chain where every extent but the last reserves 8 bytes for the
// pointer to its successor. Caller holds the structural lock.
func (s *Store) physAllocate(size int, ensureAvail bool) ([]pointer, error) {
	if size == 0 {
		return []pointer{0}, nil
	}
	if size < maxRecSize {
		offset, err := s.freePhysTake(int64(size), ensureAvail)
		if err != nil {
			return nil, err
		}
		p, err := newPointer(size, offset, false)
		if err != nil {
			return nil, err
		}
		return []pointer{p}, nil
	}

	var chain []pointer
	c := 8
	for size > 0 {
		allocSize := size
		if allocSize > maxRecSize {
			allocSize = maxRecSize
		}
		size -= allocSize - c
		offset, err := s.freePhysTake(int64(allocSize), ensureAvail)
		if err != nil {
			return nil, err
		}
		p, err := newPointer(allocSize, offset, c != 0)
		if err != nil {
			return nil, err
		}
		chain = append(chain, p)
		if size <= maxRecSize {
			c = 0
		} else {
			c = 8
		}
	}
	if size != 0 {
		return nil, fmt.Errorf("%w: chain allocation left %d bytes", recstore.ErrCorrupt, size)
	}
	return chain, nil
}

// writeChain writes the payload into its extents, links the chain and
// publishes the head pointer at the record's index slot. The index
// write comes last: a concurrent reader of another record never sees a
// half-written chain.
func (s *Store) writeChain(ioRecid int64, chain []pointer, data []byte) error {
	if len(chain) == 1 {
		if p := chain[0]; p.size() > 0 {
			if err := s.phys.PutData(p.offset(), data); err != nil {
				return err
			}
		}
	} else {
		pos := 0
		for i, p := range chain {
			c := 8
			if i == len(chain)-1 {
				c = 0
			}
			if p.linked() != (c != 0) {
				return fmt.Errorf("%w: chain link flag mismatch at extent %d", recstore.ErrCorrupt, i)
			}
			if err := s.phys.PutData(p.offset()+int64(c), data[pos:pos+p.size()-c]); err != nil {
				return err
			}
			pos += p.size() - c
			if c != 0 {
				if err := s.phys.PutLong(p.offset(), uint64(chain[i+1])); err != nil {
					return err
				}
			}
		}
		if pos != len(data) {
			return fmt.Errorf("%w: chain wrote %d of %d bytes", recstore.ErrCorrupt, pos, len(data))
		}
	}
	return s.index.PutLong(ioRecid, uint64(chain[0])|maskArchive)
}

// linkedChain collects the successor pointers of a linked record, in
// chain order. A non-linked pointer has no successors.
func (s *Store) linkedChain(p pointer) ([]pointer, error) {
	if !p.linked() {
		return nil, nil
	}
	var chain []pointer
	next, err := s.phys.GetLong(p.offset())
	if err != nil {
		return nil, err
	}
	for {
		np := pointer(next)
		chain = append(chain, np)
		if !np.linked() {
			return chain, nil
		}
		if next, err = s.phys.GetLong(np.offset()); err != nil {
			return nil, err
		}
	}
}
