package direct

import (
	"fmt"
	"sync"

	"github.com/viant/recstore"
	"github.com/viant/recstore/volume"
)

// Store persists records across an index volume and a data volume.
// Record operations synchronize on a fixed array of striped
// reader/writer locks; allocator state (header sizes, Long Stacks and
// free pools) is guarded by one structural lock, held briefly.
type Store struct {
	opts  *recstore.Options
	index volume.Volume
	phys  volume.Volume

	locks      [segmentCount]sync.RWMutex
	structural sync.Mutex

	indexSize int64
	physSize  int64
	freeSize  int64

	writers *writerPool
	closed  bool
}

// compile-time contract check
var _ recstore.Store = (*Store)(nil)

// New opens a store over the volumes supplied by factory, creating the
// on-disk structure when the index volume is empty.
func New(factory volume.Factory, opts ...recstore.Option) (*Store, error) {
	options := recstore.NewOptions(opts...)
	index, err := factory.CreateIndexVolume()
	if err != nil {
		return nil, err
	}
	phys, err := factory.CreatePhysVolume()
	if err != nil {
		_ = index.Close()
		return nil, err
	}
	s := &Store{opts: options, index: index, phys: phys, writers: newWriterPool()}
	empty, err := index.IsEmpty()
	if err == nil {
		if empty {
			err = s.createStructure()
		} else {
			err = s.loadStructure()
		}
	}
	if err != nil {
		_ = index.Close()
		_ = phys.Close()
		return nil, err
	}
	return s, nil
}

// Open opens a file-backed store: the index file at path and the data
// file at path plus the data extension.
func Open(path string, opts ...recstore.Option) (*Store, error) {
	options := recstore.NewOptions(opts...)
	return New(volume.NewFileFactory(path, options.ReadOnly), opts...)
}

// createStructure writes headers and zero-fills the reserved index
// region, including the slot of the reserved recid 0.
func (s *Store) createStructure() error {
	if s.opts.ReadOnly {
		return fmt.Errorf("%w: cannot create store read-only", recstore.ErrReadOnly)
	}
	s.indexSize = ioUserStart + 8
	if err := s.index.EnsureAvailable(s.indexSize); err != nil {
		return err
	}
	for offset := int64(0); offset < s.indexSize; offset += 8 {
		if err := s.index.PutLong(offset, 0); err != nil {
			return err
		}
	}
	if err := s.index.PutLong(0, storeHeader); err != nil {
		return err
	}
	if err := s.index.PutLong(ioIndexSize, uint64(s.indexSize)); err != nil {
		return err
	}
	s.physSize = 16
	if err := s.index.PutLong(ioPhysSize, uint64(s.physSize)); err != nil {
		return err
	}
	if err := s.phys.EnsureAvailable(s.physSize); err != nil {
		return err
	}
	if err := s.phys.PutLong(0, storeHeader); err != nil {
		return err
	}
	s.freeSize = 0
	return s.index.PutLong(ioFreeSize, 0)
}

// loadStructure validates both headers and loads the allocator state,
// each field from its own header slot.
func (s *Store) loadStructure() error {
	for _, v := range []volume.Volume{s.index, s.phys} {
		header, err := v.GetLong(0)
		if err != nil {
			return err
		}
		if header != storeHeader {
			return fmt.Errorf("%w: invalid header in %s", recstore.ErrCorrupt, v.Path())
		}
	}
	indexSize, err := s.index.GetLong(ioIndexSize)
	if err != nil {
		return err
	}
	physSize, err := s.index.GetLong(ioPhysSize)
	if err != nil {
		return err
	}
	freeSize, err := s.index.GetLong(ioFreeSize)
	if err != nil {
		return err
	}
	s.indexSize = int64(indexSize)
	s.physSize = int64(physSize)
	s.freeSize = int64(freeSize)
	if s.indexSize < ioUserStart+8 || s.indexSize%8 != 0 {
		return fmt.Errorf("%w: index size %d", recstore.ErrCorrupt, s.indexSize)
	}
	if s.physSize < 16 || s.physSize%16 != 0 {
		return fmt.Errorf("%w: data size %d", recstore.ErrCorrupt, s.physSize)
	}
	return nil
}

func (s *Store) writable() error {
	if s.closed {
		return recstore.ErrClosed
	}
	if s.opts.ReadOnly {
		return recstore.ErrReadOnly
	}
	return nil
}

// writeHeader stores the allocator state into the header slots.
func (s *Store) writeHeader() error {
	if err := s.index.PutLong(ioIndexSize, uint64(s.indexSize)); err != nil {
		return err
	}
	if err := s.index.PutLong(ioPhysSize, uint64(s.physSize)); err != nil {
		return err
	}
	return s.index.PutLong(ioFreeSize, uint64(s.freeSize))
}

// Commit persists header state and, unless disabled, syncs both
// volumes. It is the only durability point.
func (s *Store) Commit() error {
	if s.closed {
		return recstore.ErrClosed
	}
	if !s.opts.ReadOnly {
		s.structural.Lock()
		err := s.writeHeader()
		s.structural.Unlock()
		if err != nil {
			return err
		}
	}
	if s.opts.SyncOnCommitDisabled {
		return nil
	}
	if err := s.index.Sync(); err != nil {
		return err
	}
	return s.phys.Sync()
}

// Rollback always fails: the store keeps no journal.
func (s *Store) Rollback() error {
	return recstore.ErrRollback
}

// Close flushes headers, syncs and releases both volumes. With
// DeleteFilesAfterClose set, the backing files are removed.
func (s *Store) Close() error {
	// stripes before the structural lock, same order as record ops
	for i := range s.locks {
		s.locks[i].Lock()
		defer s.locks[i].Unlock()
	}
	s.structural.Lock()
	defer s.structural.Unlock()
	if s.closed {
		return nil
	}
	if !s.opts.ReadOnly {
		if err := s.writeHeader(); err != nil {
			return err
		}
	}
	if err := s.index.Sync(); err != nil {
		return err
	}
	if err := s.phys.Sync(); err != nil {
		return err
	}
	if err := s.index.Close(); err != nil {
		return err
	}
	if err := s.phys.Close(); err != nil {
		return err
	}
	if s.opts.DeleteFilesAfterClose {
		if err := s.index.Delete(); err != nil {
			return err
		}
		if err := s.phys.Delete(); err != nil {
			return err
		}
	}
	s.closed = true
	return nil
}

// IsClosed reports whether the volumes have been released.
func (s *Store) IsClosed() bool {
	return s.closed
}

func (s *Store) IsReadOnly() bool {
	return s.opts.ReadOnly
}

// CanRollback reports false: see Rollback.
func (s *Store) CanRollback() bool {
	return false
}

// ClearCache is a no-op; the engine keeps no record cache.
func (s *Store) ClearCache() {}

// MaxRecid returns the highest recid ever allocated.
func (s *Store) MaxRecid() int64 {
	s.structural.Lock()
	defer s.structural.Unlock()
	return (s.indexSize-ioUserStart)/8 - 1
}

func (s *Store) SizeLimit() int64 {
	return s.opts.SizeLimit
}

// CurrSize returns the allocated data-volume length in bytes.
func (s *Store) CurrSize() int64 {
	s.structural.Lock()
	defer s.structural.Unlock()
	return s.physSize
}

// FreeSize returns the bytes of tracked free space in the data volume.
func (s *Store) FreeSize() int64 {
	s.structural.Lock()
	defer s.structural.Unlock()
	return s.freeSize
}
