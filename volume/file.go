package volume

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"sync"

	"github.com/viant/afs"
)

// fileVolume persists bytes in a single file. Reads are served from a
// read-only mmap view when the requested range is inside the mapping,
// falling back to direct file I/O; writes always use file APIs.
type fileVolume struct {
	mu       sync.RWMutex
	f        *os.File
	fs       afs.Service
	path     string
	size     int64
	data     []byte
	readOnly bool
}

func openFileVolume(path string, readOnly bool, fs afs.Service) (*fileVolume, error) {
	var f *os.File
	var err error
	if readOnly {
		f, err = os.Open(path)
	} else {
		f, err = os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	}
	if err != nil {
		return nil, fmt.Errorf("volume: open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("volume: stat %s: %w", path, err)
	}
	v := &fileVolume{f: f, fs: fs, path: path, size: info.Size(), readOnly: readOnly}
	_ = v.remap()
	return v, nil
}

func (v *fileVolume) EnsureAvailable(size int64) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.f == nil {
		return ErrClosed
	}
	if size <= v.size {
		return nil
	}
	if err := v.f.Truncate(size); err != nil {
		return fmt.Errorf("volume: grow %s to %d: %w", v.path, size, err)
	}
	v.size = size
	return v.remap()
}

// readAt fills dst from the mmap view when fully inside it, otherwise
// from the file.
func (v *fileVolume) readAt(offset int64, dst []byte) error {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.f == nil {
		return ErrClosed
	}
	end := offset + int64(len(dst))
	if offset < 0 || end > v.size {
		return ErrOutOfBounds
	}
	if v.data != nil && end <= int64(len(v.data)) {
		copy(dst, v.data[offset:end])
		return nil
	}
	if _, err := v.f.ReadAt(dst, offset); err != nil {
		return fmt.Errorf("volume: read %s @%d: %w", v.path, offset, err)
	}
	return nil
}

func (v *fileVolume) writeAt(offset int64, src []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.f == nil {
		return ErrClosed
	}
	if offset < 0 {
		return ErrOutOfBounds
	}
	if _, err := v.f.WriteAt(src, offset); err != nil {
		return fmt.Errorf("volume: write %s @%d: %w", v.path, offset, err)
	}
	if end := offset + int64(len(src)); end > v.size {
		v.size = end
	}
	return nil
}

func (v *fileVolume) GetLong(offset int64) (uint64, error) {
	var b [8]byte
	if err := v.readAt(offset, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func (v *fileVolume) PutLong(offset int64, value uint64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], value)
	return v.writeAt(offset, b[:])
}

func (v *fileVolume) GetSixLong(offset int64) (uint64, error) {
	var b [6]byte
	if err := v.readAt(offset, b[:]); err != nil {
		return 0, err
	}
	return sixToLong(b), nil
}

func (v *fileVolume) PutSixLong(offset int64, value uint64) error {
	b := longToSix(value)
	return v.writeAt(offset, b[:])
}

func (v *fileVolume) GetUnsignedShort(offset int64) (int, error) {
	var b [2]byte
	if err := v.readAt(offset, b[:]); err != nil {
		return 0, err
	}
	return int(binary.LittleEndian.Uint16(b[:])), nil
}

func (v *fileVolume) GetData(offset int64, dst []byte) error {
	return v.readAt(offset, dst)
}

func (v *fileVolume) PutData(offset int64, src []byte) error {
	return v.writeAt(offset, src)
}

func (v *fileVolume) Sync() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.f == nil {
		return ErrClosed
	}
	if v.readOnly {
		return nil
	}
	if err := v.f.Sync(); err != nil {
		return fmt.Errorf("volume: sync %s: %w", v.path, err)
	}
	return nil
}

func (v *fileVolume) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.f == nil {
		return nil
	}
	v.unmap()
	err := v.f.Close()
	v.f = nil
	return err
}

func (v *fileVolume) Delete() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.f != nil {
		return fmt.Errorf("volume: delete %s: still open", v.path)
	}
	return v.fs.Delete(context.Background(), v.path)
}

func (v *fileVolume) Path() string {
	return v.path
}

func (v *fileVolume) IsEmpty() (bool, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.f == nil {
		return false, ErrClosed
	}
	return v.size == 0, nil
}

func sixToLong(b [6]byte) uint64 {
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 |
		uint64(b[3])<<24 | uint64(b[4])<<32 | uint64(b[5])<<40
}

func longToSix(v uint64) [6]byte {
	return [6]byte{
		byte(v), byte(v >> 8), byte(v >> 16),
		byte(v >> 24), byte(v >> 32), byte(v >> 40),
	}
}
