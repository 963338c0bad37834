package direct

import (
	"testing"

	"github.com/viant/recstore"
	"github.com/viant/recstore/volume"
)

func memStore(t *testing.T, opts ...recstore.Option) *Store {
	t.Helper()
	s, err := New(volume.NewMemFactory(), opts...)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func TestLongStack_PushPopLIFO(t *testing.T) {
	s := memStore(t)
	defer s.Close()
	ioList := size2ListIoRecid(32)

	s.structural.Lock()
	defer s.structural.Unlock()
	for i := uint64(1); i <= 10; i++ {
		if err := s.longStackPut(ioList, i*16); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
	}
	for i := uint64(10); i >= 1; i-- {
		got, err := s.longStackTake(ioList)
		if err != nil {
			t.Fatalf("pop: %v", err)
		}
		if got != i*16 {
			t.Fatalf("pop: got %d, want %d", got, i*16)
		}
	}
	got, err := s.longStackTake(ioList)
	if err != nil {
		t.Fatalf("pop empty: %v", err)
	}
	if got != 0 {
		t.Fatalf("pop empty: got %d, want 0", got)
	}
	head, err := s.index.GetLong(ioList)
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	if head != 0 {
		t.Fatalf("head slot not cleared: %x", head)
	}
}

func TestLongStack_SpillsAcrossPages(t *testing.T) {
	s := memStore(t)
	defer s.Close()
	ioList := size2ListIoRecid(48)
	// more values than one preferred page holds
	count := uint64(longStackPrefCount*2 + 7)

	s.structural.Lock()
	defer s.structural.Unlock()
	for i := uint64(1); i <= count; i++ {
		if err := s.longStackPut(ioList, i*16); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
	}
	for i := count; i >= 1; i-- {
		got, err := s.longStackTake(ioList)
		if err != nil {
			t.Fatalf("pop: %v", err)
		}
		if got != i*16 {
			t.Fatalf("pop: got %d, want %d", got, i*16)
		}
	}
	if got, _ := s.longStackTake(ioList); got != 0 {
		t.Fatalf("stack not drained, got %d", got)
	}
}

func TestLongStack_EmptiedPageIsRecycled(t *testing.T) {
	s := memStore(t)
	defer s.Close()
	ioList := size2ListIoRecid(64)

	s.structural.Lock()
	defer s.structural.Unlock()
	if err := s.longStackPut(ioList, 16); err != nil {
		t.Fatalf("push: %v", err)
	}
	if _, err := s.longStackTake(ioList); err != nil {
		t.Fatalf("pop: %v", err)
	}
	// the emptied 1232-byte page lands in its own size class
	pageList := size2ListIoRecid(longStackPrefSize)
	count, err := s.countStackItems(pageList)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("emptied page not recycled: count=%d", count)
	}
}

func TestLongStack_RejectsWideValue(t *testing.T) {
	s := memStore(t)
	defer s.Close()
	s.structural.Lock()
	defer s.structural.Unlock()
	if err := s.longStackPut(size2ListIoRecid(16), 1<<48); err == nil {
		t.Fatalf("expected error for 49-bit value")
	}
}

func TestLongStack_RejectsBadSlot(t *testing.T) {
	s := memStore(t)
	defer s.Close()
	s.structural.Lock()
	defer s.structural.Unlock()
	if err := s.longStackPut(ioUserStart, 16); err == nil {
		t.Fatalf("expected error for slot outside stack region")
	}
	if _, err := s.longStackTake(ioIndexSize); err == nil {
		t.Fatalf("expected error for header slot")
	}
}
