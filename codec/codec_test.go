package codec

import (
	"bytes"
	"testing"

	"github.com/viant/bintly"
)

func roundTrip(t *testing.T, s Serializer, value interface{}) interface{} {
	t.Helper()
	w := NewWriter()
	if err := s.Serialize(w, value); err != nil {
		t.Fatalf("serialize: %v", err)
	}
	r := NewReader(w.Bytes())
	got, err := s.Deserialize(r, w.Len())
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if r.Pos() != w.Len() {
		t.Fatalf("consumed %d of %d bytes", r.Pos(), w.Len())
	}
	return got
}

func TestBytes_RoundTrip(t *testing.T) {
	payload := []byte("payload")
	got := roundTrip(t, Bytes{}, payload)
	if !bytes.Equal(got.([]byte), payload) {
		t.Fatalf("got %q, want %q", got, payload)
	}
}

func TestBytes_EmptyIsNil(t *testing.T) {
	got := roundTrip(t, Bytes{}, []byte(nil))
	if got.([]byte) != nil {
		t.Fatalf("got %v, want nil", got)
	}
}

func TestBytes_Equal(t *testing.T) {
	eq := Bytes{}
	if !eq.Equal([]byte("a"), []byte("a")) {
		t.Errorf("equal payloads reported different")
	}
	if eq.Equal([]byte("a"), []byte("b")) {
		t.Errorf("different payloads reported equal")
	}
	if eq.Equal([]byte{}, nil) {
		t.Errorf("empty payload equals nil")
	}
}

func TestString_RoundTrip(t *testing.T) {
	got := roundTrip(t, String{}, "hello world")
	if got != "hello world" {
		t.Fatalf("got %q", got)
	}
}

func TestString_RejectsWrongType(t *testing.T) {
	if err := (String{}).Serialize(NewWriter(), 42); err != ErrValueType {
		t.Fatalf("got %v, want ErrValueType", err)
	}
}

func TestInt64_RoundTrip(t *testing.T) {
	got := roundTrip(t, Int64{}, int64(-1234567890123))
	if got != int64(-1234567890123) {
		t.Fatalf("got %v", got)
	}
}

type point struct {
	X, Y int32
}

func (p *point) EncodeBinary(stream *bintly.Writer) error {
	stream.Int32(p.X)
	stream.Int32(p.Y)
	return nil
}

func (p *point) DecodeBinary(stream *bintly.Reader) error {
	stream.Int32(&p.X)
	stream.Int32(&p.Y)
	return nil
}

func TestBinary_RoundTrip(t *testing.T) {
	serializer := Binary{New: func() BinaryDecoder { return &point{} }}
	got := roundTrip(t, serializer, &point{X: 3, Y: -7})
	decoded, ok := got.(*point)
	if !ok {
		t.Fatalf("got %T", got)
	}
	if decoded.X != 3 || decoded.Y != -7 {
		t.Fatalf("got %+v", decoded)
	}
}

func TestWriter_Reset(t *testing.T) {
	w := NewWriter()
	if _, err := w.Write([]byte("abc")); err != nil {
		t.Fatalf("write: %v", err)
	}
	w.Reset()
	if w.Len() != 0 {
		t.Fatalf("len after reset: %d", w.Len())
	}
	if _, err := w.Write([]byte("xy")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if string(w.Bytes()) != "xy" {
		t.Fatalf("got %q", w.Bytes())
	}
}

func TestReader_Bounds(t *testing.T) {
	r := NewReader([]byte{1, 2, 3})
	if _, err := r.Next(4); err == nil {
		t.Fatalf("expected error reading past end")
	}
	b, err := r.Next(3)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if !bytes.Equal(b, []byte{1, 2, 3}) {
		t.Fatalf("got %v", b)
	}
	if r.Pos() != 3 {
		t.Fatalf("pos: %d", r.Pos())
	}
}
