package codec

import "bytes"

// Bytes passes payloads through verbatim. It backs raw record access
// and compaction, where the stored size must be preserved exactly.
type Bytes struct{}

func (Bytes) Serialize(writer *Writer, value interface{}) error {
	if value == nil {
		return nil
	}
	data, ok := value.([]byte)
	if !ok {
		return ErrValueType
	}
	_, err := writer.Write(data)
	return err
}

func (Bytes) Deserialize(reader *Reader, size int) (interface{}, error) {
	if size == 0 {
		return []byte(nil), nil
	}
	data, err := reader.Next(size)
	if err != nil {
		return nil, err
	}
	out := make([]byte, size)
	copy(out, data)
	return out, nil
}

// Equal compares payloads byte for byte; nil equals only nil.
func (Bytes) Equal(a, b interface{}) bool {
	ab, _ := a.([]byte)
	bb, _ := b.([]byte)
	if (ab == nil) != (bb == nil) {
		return false
	}
	return bytes.Equal(ab, bb)
}
