package codec

import (
	"github.com/viant/bintly"
)

var writers = bintly.NewWriters()
var readers = bintly.NewReaders()

// BinaryEncoder encodes a value into a bintly stream.
type BinaryEncoder interface {
	EncodeBinary(stream *bintly.Writer) error
}

// BinaryDecoder decodes a value from a bintly stream.
type BinaryDecoder interface {
	DecodeBinary(stream *bintly.Reader) error
}

// String serializes Go strings with bintly.
type String struct{}

func (String) Serialize(writer *Writer, value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return ErrValueType
	}
	stream := writers.Get()
	defer writers.Put(stream)
	stream.String(s)
	_, err := writer.Write(stream.Bytes())
	return err
}

func (String) Deserialize(reader *Reader, size int) (interface{}, error) {
	data, err := reader.Next(size)
	if err != nil {
		return nil, err
	}
	stream := readers.Get()
	defer readers.Put(stream)
	if err := stream.FromBytes(data); err != nil {
		return nil, err
	}
	var s string
	stream.String(&s)
	return s, nil
}

// Int64 serializes 64-bit integers with bintly.
type Int64 struct{}

func (Int64) Serialize(writer *Writer, value interface{}) error {
	v, ok := value.(int64)
	if !ok {
		return ErrValueType
	}
	stream := writers.Get()
	defer writers.Put(stream)
	stream.Int64(v)
	_, err := writer.Write(stream.Bytes())
	return err
}

func (Int64) Deserialize(reader *Reader, size int) (interface{}, error) {
	data, err := reader.Next(size)
	if err != nil {
		return nil, err
	}
	stream := readers.Get()
	defer readers.Put(stream)
	if err := stream.FromBytes(data); err != nil {
		return nil, err
	}
	var v int64
	stream.Int64(&v)
	return v, nil
}

// Binary serializes values implementing BinaryEncoder/BinaryDecoder;
// New supplies a fresh decode target per record.
type Binary struct {
	New func() BinaryDecoder
}

func (b Binary) Serialize(writer *Writer, value interface{}) error {
	encoder, ok := value.(BinaryEncoder)
	if !ok {
		return ErrValueType
	}
	stream := writers.Get()
	defer writers.Put(stream)
	if err := encoder.EncodeBinary(stream); err != nil {
		return err
	}
	_, err := writer.Write(stream.Bytes())
	return err
}

func (b Binary) Deserialize(reader *Reader, size int) (interface{}, error) {
	data, err := reader.Next(size)
	if err != nil {
		return nil, err
	}
	stream := readers.Get()
	defer readers.Put(stream)
	if err := stream.FromBytes(data); err != nil {
		return nil, err
	}
	value := b.New()
	if err := value.DecodeBinary(stream); err != nil {
		return nil, err
	}
	return value, nil
}
