package direct

import (
	"fmt"
	"reflect"

	"github.com/viant/recstore"
	"github.com/viant/recstore/codec"
)

// Put stores a new record and returns its recid.
func (s *Store) Put(value interface{}, serializer codec.Serializer) (int64, error) {
	if err := s.writable(); err != nil {
		return 0, err
	}
	out := s.writers.get()
	defer s.writers.put(out)
	if err := serializer.Serialize(out, value); err != nil {
		return 0, err
	}

	s.structural.Lock()
	ioRecid, err := s.freeIoRecidTake(true)
	var chain []pointer
	if err == nil {
		chain, err = s.physAllocate(out.Len(), true)
	}
	s.structural.Unlock()
	if err != nil {
		return 0, err
	}
	if err := s.writeChain(ioRecid, chain, out.Bytes()); err != nil {
		return 0, err
	}
	return (ioRecid - ioUserStart) / 8, nil
}

// Get loads a record; an empty slot yields the serializer's zero payload.
func (s *Store) Get(recid int64, serializer codec.Serializer) (interface{}, error) {
	if s.closed {
		return nil, recstore.ErrClosed
	}
	ioRecid := ioUserStart + recid*8
	lock := &s.locks[lockIndex(recid)]
	lock.RLock()
	defer lock.RUnlock()
	return s.readRecord(ioRecid, serializer)
}

// readRecord assembles the payload behind an index slot and hands it to
// the serializer, enforcing exact consumption.
func (s *Store) readRecord(ioRecid int64, serializer codec.Serializer) (interface{}, error) {
	word, err := s.index.GetLong(ioRecid)
	if err != nil {
		return nil, err
	}
	p := pointer(word)

	var payload []byte
	if !p.linked() {
		payload = make([]byte, p.size())
		if p.size() > 0 {
			if err := s.phys.GetData(p.offset(), payload); err != nil {
				return nil, err
			}
		}
	} else {
		offset, size, c := p.offset(), p.size(), 8
		payload = make([]byte, 0, 2*maxRecSize)
		for {
			part := make([]byte, size-c)
			if err := s.phys.GetData(offset+int64(c), part); err != nil {
				return nil, err
			}
			payload = append(payload, part...)
			if c == 0 {
				break
			}
			next, err := s.phys.GetLong(offset)
			if err != nil {
				return nil, err
			}
			np := pointer(next)
			offset, size = np.offset(), np.size()
			c = 0
			if np.linked() {
				c = 8
			}
		}
	}

	reader := codec.NewReader(payload)
	value, err := serializer.Deserialize(reader, len(payload))
	if err != nil {
		return nil, err
	}
	if reader.Pos() != len(payload) {
		return nil, fmt.Errorf("%w: record %d consumed %d of %d bytes",
			recstore.ErrSerializer, (ioRecid-ioUserStart)/8, reader.Pos(), len(payload))
	}
	return value, nil
}

// Update replaces the record payload, recycling the old extents when
// space reclaim tracking is enabled.
func (s *Store) Update(recid int64, value interface{}, serializer codec.Serializer) error {
	if err := s.writable(); err != nil {
		return err
	}
	out := s.writers.get()
	defer s.writers.put(out)
	if err := serializer.Serialize(out, value); err != nil {
		return err
	}

	ioRecid := ioUserStart + recid*8
	lock := &s.locks[lockIndex(recid)]
	lock.Lock()
	defer lock.Unlock()
	return s.replaceRecord(ioRecid, out.Bytes())
}

// replaceRecord frees the current extents of ioRecid and writes data
// into fresh ones. Caller holds the recid's write lock.
func (s *Store) replaceRecord(ioRecid int64, data []byte) error {
	word, err := s.index.GetLong(ioRecid)
	if err != nil {
		return err
	}
	old := pointer(word)
	var freed []pointer
	if s.opts.SpaceReclaimTrack() {
		if freed, err = s.linkedChain(old); err != nil {
			return err
		}
	}

	s.structural.Lock()
	if s.opts.SpaceReclaimTrack() {
		err = s.freePhysPut(old)
		for i := 0; err == nil && i < len(freed); i++ {
			err = s.freePhysPut(freed[i])
		}
	}
	var chain []pointer
	if err == nil {
		chain, err = s.physAllocate(len(data), true)
	}
	s.structural.Unlock()
	if err != nil {
		return err
	}
	return s.writeChain(ioRecid, chain, data)
}

// CompareAndSwap replaces the record payload if the current value
// equals expected, reporting whether the swap took place.
func (s *Store) CompareAndSwap(recid int64, expected, update interface{}, serializer codec.Serializer) (bool, error) {
	if err := s.writable(); err != nil {
		return false, err
	}
	ioRecid := ioUserStart + recid*8
	lock := &s.locks[lockIndex(recid)]
	lock.Lock()
	defer lock.Unlock()

	current, err := s.readRecord(ioRecid, serializer)
	if err != nil {
		return false, err
	}
	if !valuesEqual(serializer, current, expected) {
		return false, nil
	}

	out := s.writers.get()
	defer s.writers.put(out)
	if err := serializer.Serialize(out, update); err != nil {
		return false, err
	}
	if err := s.replaceRecord(ioRecid, out.Bytes()); err != nil {
		return false, err
	}
	return true, nil
}

func valuesEqual(serializer codec.Serializer, a, b interface{}) bool {
	if eq, ok := serializer.(codec.Equaler); ok {
		return eq.Equal(a, b)
	}
	if (a == nil) != (b == nil) {
		return false
	}
	return reflect.DeepEqual(a, b)
}

// Delete zeroes the record's index slot and, when tracking is enabled,
// recycles its recid and extents.
func (s *Store) Delete(recid int64) error {
	if err := s.writable(); err != nil {
		return err
	}
	ioRecid := ioUserStart + recid*8
	lock := &s.locks[lockIndex(recid)]
	lock.Lock()
	defer lock.Unlock()

	word, err := s.index.GetLong(ioRecid)
	if err != nil {
		return err
	}
	if err := s.index.PutLong(ioRecid, maskArchive); err != nil {
		return err
	}
	if !s.opts.SpaceReclaimTrack() {
		return nil
	}
	old := pointer(word)
	freed, err := s.linkedChain(old)
	if err != nil {
		return err
	}

	s.structural.Lock()
	defer s.structural.Unlock()
	if err := s.freeIoRecidPut(ioRecid); err != nil {
		return err
	}
	if err := s.freePhysPut(old); err != nil {
		return err
	}
	for _, p := range freed {
		if err := s.freePhysPut(p); err != nil {
			return err
		}
	}
	return nil
}

// GetRaw returns the stored payload bytes, nil when the slot is empty.
func (s *Store) GetRaw(recid int64) ([]byte, error) {
	value, err := s.Get(recid, codec.Bytes{})
	if err != nil {
		return nil, err
	}
	data, _ := value.([]byte)
	return data, nil
}

// UpdateRaw replaces the payload bytes under recid, growing the index
// when the recid was never allocated.
func (s *Store) UpdateRaw(recid int64, data []byte) error {
	if err := s.writable(); err != nil {
		return err
	}
	ioRecid := ioUserStart + recid*8
	s.structural.Lock()
	if ioRecid >= s.indexSize {
		indexSize := ioRecid + 8
		if err := s.index.EnsureAvailable(indexSize); err != nil {
			s.structural.Unlock()
			return err
		}
		s.indexSize = indexSize
	}
	s.structural.Unlock()
	return s.Update(recid, data, codec.Bytes{})
}
