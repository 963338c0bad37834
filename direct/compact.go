package direct

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/afs"
	"github.com/viant/recstore"
	"github.com/viant/recstore/codec"
	"github.com/viant/recstore/volume"
)

// compactExt suffixes the sibling files a compaction writes into.
const compactExt = ".compact"

// Compact rewrites both files densely while preserving recids: live
// records are reallocated into a sibling store, the free-recid stack
// migrates verbatim, and free-extent pools are dropped since the new
// layout has no holes. The sibling files then replace the originals.
func (s *Store) Compact() error {
	if err := s.writable(); err != nil {
		return err
	}
	indexPath := s.index.Path()
	physPath := s.phys.Path()
	if indexPath == "" || physPath == "" {
		return recstore.ErrCompactMemory
	}

	// stripes before the structural lock, same order as record ops
	for i := range s.locks {
		s.locks[i].Lock()
		defer s.locks[i].Unlock()
	}
	s.structural.Lock()
	defer s.structural.Unlock()

	if err := s.writeHeader(); err != nil {
		return err
	}

	fs := afs.New()
	ctx := context.Background()
	compactPath := indexPath + compactExt
	for _, stale := range []string{compactPath, compactPath + volume.DataFileExt} {
		if ok, _ := fs.Exists(ctx, stale); ok {
			if err := fs.Delete(ctx, stale); err != nil {
				return fmt.Errorf("recstore: compact: remove stale %s: %w", stale, err)
			}
		}
	}

	target, err := New(volume.NewFileFactory(compactPath, false),
		recstore.WithSizeLimit(s.opts.SizeLimit),
		recstore.WithSpaceReclaimMode(s.opts.SpaceReclaimMode))
	if err != nil {
		return err
	}
	if err := s.transferTo(target); err != nil {
		_ = target.Close()
		return err
	}
	target.indexSize = s.indexSize
	if err := target.Close(); err != nil {
		return err
	}

	if err := s.index.Close(); err != nil {
		return err
	}
	if err := s.phys.Close(); err != nil {
		return err
	}

	stamp := time.Now().UnixMilli()
	indexBackup := fmt.Sprintf("%s_%d_orig", indexPath, stamp)
	physBackup := fmt.Sprintf("%s_%d_orig", physPath, stamp)
	moves := [][2]string{
		{indexPath, indexBackup},
		{physPath, physBackup},
		{compactPath, indexPath},
		{compactPath + volume.DataFileExt, physPath},
	}
	for _, m := range moves {
		if err := fs.Move(ctx, m[0], m[1]); err != nil {
			return fmt.Errorf("recstore: compact: move %s to %s: %w", m[0], m[1], err)
		}
	}
	_ = fs.Delete(ctx, indexBackup)
	_ = fs.Delete(ctx, physBackup)

	factory := volume.NewFileFactory(indexPath, false)
	if s.index, err = factory.CreateIndexVolume(); err != nil {
		return err
	}
	if s.phys, err = factory.CreatePhysVolume(); err != nil {
		return err
	}
	s.physSize = target.physSize
	s.freeSize = target.freeSize
	return s.writeHeader()
}

// transferTo migrates the free-recid stack and every live record into
// target, preserving ioRecids. Caller holds this store's locks; the
// target is private to the compaction.
func (s *Store) transferTo(target *Store) error {
	target.structural.Lock()
	defer target.structural.Unlock()

	var freeRecids []uint64
	for {
		ioRecid, err := s.longStackTake(ioFreeRecid)
		if err != nil {
			return err
		}
		if ioRecid == 0 {
			break
		}
		freeRecids = append(freeRecids, ioRecid)
	}
	// push oldest first so the target stack pops in the original order
	for i := len(freeRecids) - 1; i >= 0; i-- {
		if err := target.longStackPut(ioFreeRecid, freeRecids[i]); err != nil {
			return err
		}
	}

	for ioRecid := int64(ioUserStart); ioRecid < s.indexSize; ioRecid += 8 {
		value, err := s.readRecord(ioRecid, codec.Bytes{})
		if err != nil {
			return err
		}
		if err := target.index.EnsureAvailable(ioRecid + 8); err != nil {
			return err
		}
		payload, _ := value.([]byte)
		if len(payload) == 0 {
			if err := target.index.PutLong(ioRecid, 0); err != nil {
				return err
			}
			continue
		}
		chain, err := target.physAllocate(len(payload), true)
		if err != nil {
			return err
		}
		if err := target.writeChain(ioRecid, chain, payload); err != nil {
			return err
		}
	}
	return nil
}
