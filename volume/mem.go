package volume

import (
	"encoding/binary"
	"sync"
)

// memVolume keeps bytes in a growable slice. It is intended for tests
// and ephemeral stores; Sync and Delete are no-ops.
type memVolume struct {
	mu     sync.RWMutex
	data   []byte
	closed bool
}

// NewMem creates an empty in-memory volume.
func NewMem() Volume {
	return &memVolume{}
}

func (v *memVolume) EnsureAvailable(size int64) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return ErrClosed
	}
	if int64(len(v.data)) >= size {
		return nil
	}
	grown := make([]byte, size)
	copy(grown, v.data)
	v.data = grown
	return nil
}

func (v *memVolume) slice(offset int64, length int) ([]byte, error) {
	if v.closed {
		return nil, ErrClosed
	}
	end := offset + int64(length)
	if offset < 0 || end > int64(len(v.data)) {
		return nil, ErrOutOfBounds
	}
	return v.data[offset:end], nil
}

func (v *memVolume) GetLong(offset int64) (uint64, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	b, err := v.slice(offset, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (v *memVolume) PutLong(offset int64, value uint64) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	b, err := v.slice(offset, 8)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(b, value)
	return nil
}

func (v *memVolume) GetSixLong(offset int64) (uint64, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	b, err := v.slice(offset, 6)
	if err != nil {
		return 0, err
	}
	var six [6]byte
	copy(six[:], b)
	return sixToLong(six), nil
}

func (v *memVolume) PutSixLong(offset int64, value uint64) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	b, err := v.slice(offset, 6)
	if err != nil {
		return err
	}
	six := longToSix(value)
	copy(b, six[:])
	return nil
}

func (v *memVolume) GetUnsignedShort(offset int64) (int, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	b, err := v.slice(offset, 2)
	if err != nil {
		return 0, err
	}
	return int(binary.LittleEndian.Uint16(b)), nil
}

func (v *memVolume) GetData(offset int64, dst []byte) error {
	v.mu.RLock()
	defer v.mu.RUnlock()
	b, err := v.slice(offset, len(dst))
	if err != nil {
		return err
	}
	copy(dst, b)
	return nil
}

func (v *memVolume) PutData(offset int64, src []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	b, err := v.slice(offset, len(src))
	if err != nil {
		return err
	}
	copy(b, src)
	return nil
}

func (v *memVolume) Sync() error {
	return nil
}

func (v *memVolume) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	v.data = nil
	return nil
}

func (v *memVolume) Delete() error {
	return nil
}

func (v *memVolume) Path() string {
	return ""
}

func (v *memVolume) IsEmpty() (bool, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.closed {
		return false, ErrClosed
	}
	return len(v.data) == 0, nil
}
