package direct

import (
	"bytes"
	"testing"

	"github.com/viant/recstore"
	"github.com/viant/recstore/codec"
)

func TestRecord_UpdateOverwrites(t *testing.T) {
	s := memStore(t)
	defer s.Close()

	recid, err := s.Put(bytes.Repeat([]byte{1}, 100), codec.Bytes{})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Update(recid, bytes.Repeat([]byte{2}, 300), codec.Bytes{}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := s.GetRaw(recid)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 300 || got[0] != 2 {
		t.Fatalf("update not visible: %d bytes", len(got))
	}
	// the 100-byte extent moved to the free pool
	if free := s.FreeSize(); free != roundTo16(100) {
		t.Fatalf("free size: got %d, want %d", free, roundTo16(100))
	}
}

func TestRecord_DeleteVanishes(t *testing.T) {
	s := memStore(t)
	defer s.Close()

	recid, err := s.Put([]byte("doomed"), codec.Bytes{})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Delete(recid); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := s.GetRaw(recid)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Fatalf("get after delete: got %d bytes, want nil", len(got))
	}
	free, err := s.FreeRecids()
	if err != nil {
		t.Fatalf("free recids: %v", err)
	}
	if len(free) != 1 || free[0] != recid {
		t.Fatalf("free recids: got %v, want [%d]", free, recid)
	}
}

func TestRecord_RecidReuseLIFO(t *testing.T) {
	s := memStore(t)
	defer s.Close()

	r1, _ := s.Put([]byte("a"), codec.Bytes{})
	r2, _ := s.Put([]byte("b"), codec.Bytes{})
	if err := s.Delete(r1); err != nil {
		t.Fatalf("delete r1: %v", err)
	}
	if err := s.Delete(r2); err != nil {
		t.Fatalf("delete r2: %v", err)
	}
	r3, err := s.Put([]byte("c"), codec.Bytes{})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if r3 != r2 {
		t.Fatalf("recid reuse: got %d, want %d", r3, r2)
	}
	r4, _ := s.Put([]byte("d"), codec.Bytes{})
	if r4 != r1 {
		t.Fatalf("recid reuse: got %d, want %d", r4, r1)
	}
}

func TestRecord_NoReuseWithoutTracking(t *testing.T) {
	s := memStore(t, recstore.WithSpaceReclaimMode(0))
	defer s.Close()

	r1, _ := s.Put([]byte("a"), codec.Bytes{})
	if err := s.Delete(r1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	r2, err := s.Put([]byte("b"), codec.Bytes{})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if r2 != r1+1 {
		t.Fatalf("recid without tracking: got %d, want %d", r2, r1+1)
	}
	if free := s.FreeSize(); free != 0 {
		t.Fatalf("free size tracked in mode 0: %d", free)
	}
}

func TestRecord_ExtentReuseSameSize(t *testing.T) {
	s := memStore(t)
	defer s.Close()

	if _, err := s.Put(bytes.Repeat([]byte{1}, 100), codec.Bytes{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	r2, err := s.Put(bytes.Repeat([]byte{2}, 200), codec.Bytes{})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := s.Put(bytes.Repeat([]byte{3}, 300), codec.Bytes{}); err != nil {
		t.Fatalf("put: %v", err)
	}

	word, err := s.index.GetLong(ioUserStart + r2*8)
	if err != nil {
		t.Fatalf("index slot: %v", err)
	}
	freedOffset := pointer(word).offset()

	if err := s.Delete(r2); err != nil {
		t.Fatalf("delete: %v", err)
	}

	r4, err := s.Put(bytes.Repeat([]byte{4}, 200), codec.Bytes{})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if r4 != r2 {
		t.Fatalf("recid reuse: got %d, want %d", r4, r2)
	}
	word, err = s.index.GetLong(ioUserStart + r4*8)
	if err != nil {
		t.Fatalf("index slot: %v", err)
	}
	if got := pointer(word).offset(); got != freedOffset {
		t.Fatalf("extent reuse: offset %d, want %d", got, freedOffset)
	}
	got, err := s.GetRaw(r4)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 200 || got[0] != 4 {
		t.Fatalf("reused record wrong: %d bytes", len(got))
	}
}

func TestRecord_CompareAndSwap(t *testing.T) {
	s := memStore(t)
	defer s.Close()

	recid, err := s.Put("a", codec.String{})
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	swapped, err := s.CompareAndSwap(recid, "b", "c", codec.String{})
	if err != nil {
		t.Fatalf("cas: %v", err)
	}
	if swapped {
		t.Fatalf("cas with wrong expected succeeded")
	}
	value, _ := s.Get(recid, codec.String{})
	if value != "a" {
		t.Fatalf("failed cas mutated record: %q", value)
	}
	if free := s.FreeSize(); free != 0 {
		t.Fatalf("failed cas freed extents: %d", free)
	}

	swapped, err = s.CompareAndSwap(recid, "a", "c", codec.String{})
	if err != nil {
		t.Fatalf("cas: %v", err)
	}
	if !swapped {
		t.Fatalf("cas with matching expected failed")
	}
	value, _ = s.Get(recid, codec.String{})
	if value != "c" {
		t.Fatalf("cas result not visible: %q", value)
	}
}

func TestRecord_UpdateRawGrowsIndex(t *testing.T) {
	s := memStore(t)
	defer s.Close()

	recid := int64(40)
	if err := s.UpdateRaw(recid, []byte("sparse")); err != nil {
		t.Fatalf("update raw: %v", err)
	}
	got, err := s.GetRaw(recid)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "sparse" {
		t.Fatalf("get: got %q", got)
	}
	if max := s.MaxRecid(); max < recid {
		t.Fatalf("max recid: got %d, want >= %d", max, recid)
	}
}

func TestRecord_UpdateLinkedFreesWholeChain(t *testing.T) {
	s := memStore(t)
	defer s.Close()

	recid, err := s.Put(bytes.Repeat([]byte{0xCD}, 200_000), codec.Bytes{})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Update(recid, []byte("tiny"), codec.Bytes{}); err != nil {
		t.Fatalf("update: %v", err)
	}
	// all four chain extents are back in the pool
	want := 3*roundTo16(maxRecSize) + roundTo16(3419)
	if free := s.FreeSize(); free != want {
		t.Fatalf("free size after shrink: got %d, want %d", free, want)
	}
	got, err := s.GetRaw(recid)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "tiny" {
		t.Fatalf("get: got %q", got)
	}
}
