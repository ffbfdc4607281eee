package canon

import (
	"encoding/binary"
)

// Writer accumulates a canonical binary encoding: length-prefixed byte
// strings and fixed-width little-endian integers, positional (no field
// names), matching §4.3's serialization contract for Change records.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// Uint8 appends a single byte, typically a tagged-enum discriminant.
func (w *Writer) Uint8(v uint8) *Writer {
	w.buf = append(w.buf, v)
	return w
}

// Uint32 appends a little-endian uint32.
func (w *Writer) Uint32(v uint32) *Writer {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
	return w
}

// Uint64 appends a little-endian uint64.
func (w *Writer) Uint64(v uint64) *Writer {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
	return w
}

// Bool appends a single byte, 1 for true and 0 for false.
func (w *Writer) Bool(v bool) *Writer {
	if v {
		return w.Uint8(1)
	}
	return w.Uint8(0)
}

// Bytes appends a length-prefixed (uint32 little-endian length) byte
// string.
func (w *Writer) Bytes(v []byte) *Writer {
	w.Uint32(uint32(len(v)))
	w.buf = append(w.buf, v...)
	return w
}

// Raw appends bytes with no length prefix, for fixed-width values (e.g.
// a 32-byte digest) whose length is implied by the schema.
func (w *Writer) Raw(v []byte) *Writer {
	w.buf = append(w.buf, v...)
	return w
}

// Finish returns the accumulated encoding.
func (w *Writer) Finish() []byte { return w.buf }
