package direct

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/viant/recstore"
	"github.com/viant/recstore/codec"
)

func TestCompact_DropsFreeSpace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store")
	s := fileStore(t, path)
	defer s.Close()

	r1, _ := s.Put(bytes.Repeat([]byte{1}, 100), codec.Bytes{})
	r2, _ := s.Put(bytes.Repeat([]byte{2}, 200), codec.Bytes{})
	r3, _ := s.Put(bytes.Repeat([]byte{3}, 300), codec.Bytes{})
	if err := s.Delete(r2); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if s.FreeSize() == 0 {
		t.Fatalf("free size not tracked before compact")
	}
	before := s.CurrSize()

	if err := s.Compact(); err != nil {
		t.Fatalf("compact: %v", err)
	}

	if got := s.FreeSize(); got != 0 {
		t.Fatalf("free size after compact: got %d, want 0", got)
	}
	if got := s.CurrSize(); got > before {
		t.Fatalf("compact grew data file: %d -> %d", before, got)
	}
	for _, tc := range []struct {
		recid int64
		size  int
		fill  byte
	}{{r1, 100, 1}, {r3, 300, 3}} {
		got, err := s.GetRaw(tc.recid)
		if err != nil {
			t.Fatalf("get %d: %v", tc.recid, err)
		}
		if len(got) != tc.size || got[0] != tc.fill {
			t.Fatalf("record %d damaged by compact: %d bytes", tc.recid, len(got))
		}
	}
	if got, err := s.GetRaw(r2); err != nil || got != nil {
		t.Fatalf("deleted record resurrected: %v, %v", got, err)
	}

	// the freed recid survived the migration
	free, err := s.FreeRecids()
	if err != nil {
		t.Fatalf("free recids: %v", err)
	}
	if len(free) != 1 || free[0] != r2 {
		t.Fatalf("free recids after compact: got %v, want [%d]", free, r2)
	}
	r4, err := s.Put([]byte("new"), codec.Bytes{})
	if err != nil {
		t.Fatalf("put after compact: %v", err)
	}
	if r4 != r2 {
		t.Fatalf("recid after compact: got %d, want %d", r4, r2)
	}
}

func TestCompact_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store")
	s := fileStore(t, path)

	payload := bytes.Repeat([]byte{0x5A}, 70_000)
	recid, err := s.Put(payload, codec.Bytes{})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Compact(); err != nil {
		t.Fatalf("compact: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s = fileStore(t, path)
	defer s.Close()
	got, err := s.GetRaw(recid)
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload mismatch after compact and reopen")
	}
}

func TestCompact_RefusesMemoryStore(t *testing.T) {
	s := memStore(t)
	defer s.Close()
	if err := s.Compact(); !errors.Is(err, recstore.ErrCompactMemory) {
		t.Fatalf("compact: got %v, want ErrCompactMemory", err)
	}
}

func TestCompact_RefusesReadOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store")
	s := fileStore(t, path)
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	s = fileStore(t, path, recstore.WithReadOnly(true))
	defer s.Close()
	if err := s.Compact(); !errors.Is(err, recstore.ErrReadOnly) {
		t.Fatalf("compact: got %v, want ErrReadOnly", err)
	}
}
