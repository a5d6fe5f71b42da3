package header

import (
	"io"
	"iter"

	"github.com/arloliu/aarchive/endian"
	"github.com/arloliu/aarchive/field"
	"github.com/arloliu/aarchive/internal/pool"
)

const (
	// Magic is the current header magic. Decoded headers are always normalized to it.
	Magic = "AA01"
	// LegacyMagic is the older magic accepted on decode.
	LegacyMagic = "YAA1"

	// MagicSize is the size of the magic in bytes.
	MagicSize = 4
	// PrologueSize is the size of the magic plus the 2-byte length field.
	PrologueSize = MagicSize + 2
	// MaxSize is the largest encoded header the 2-byte length field can describe.
	MaxSize = 0xFFFF
)

var engine = endian.Wire()

// Header is an archive entry header: an encoded byte buffer plus the field table
// parsed from it.
//
// The buffer is the source of truth. Every mutation rewrites the buffer first and
// then re-derives the affected descriptors from it, so the field table, the field
// offsets and the blob payload offsets always describe the bytes returned by Bytes.
type Header struct {
	buf         pool.ByteBuffer
	fields      *field.KeySet
	payloadSize uint64
}

// New creates a Header holding only the prologue: magic "AA01" and length 6.
func New() *Header {
	h := &Header{fields: field.NewKeySet()}
	h.writePrologue()

	return h
}

// writePrologue replaces the buffer contents with an empty-header prologue.
func (h *Header) writePrologue() {
	h.buf.Reset()
	h.buf.Reserve(PrologueSize)
	h.buf.MustWrite([]byte(Magic))
	h.buf.B = engine.AppendUint16(h.buf.B, PrologueSize)
	h.fields.Clear()
	h.payloadSize = 0
}

// writeLength stores the current buffer length in the prologue.
func (h *Header) writeLength() {
	engine.PutUint16(h.buf.B[MagicSize:PrologueSize], uint16(h.buf.Len())) //nolint:gosec
}

// reset puts h in the empty state reported after a failed decode or encode.
// The backing storage is retained; its bytes are not readable state.
func (h *Header) reset() {
	h.buf.Reset()
	h.fields.Clear()
	h.payloadSize = 0
}

// ensurePrologue restores the prologue of a Header left empty by a failure, so it
// can be built up again.
func (h *Header) ensurePrologue() {
	if h.buf.Len() < PrologueSize {
		h.writePrologue()
	}
}

// Clear removes every field, leaving only the prologue.
func (h *Header) Clear() {
	h.writePrologue()
}

// Release drops the backing storage of both the buffer and the field table.
// The Header must not be used afterwards except through Clear or Decode.
func (h *Header) Release() {
	h.buf.Release()
	h.fields.Release()
	h.payloadSize = 0
}

// Clone returns an independent copy of h.
func (h *Header) Clone() *Header {
	c := &Header{fields: field.NewKeySet(), payloadSize: h.payloadSize}
	c.buf.Reserve(h.buf.Len())
	c.buf.MustWrite(h.buf.Bytes())
	c.fields.Reserve(h.fields.Len())
	for _, d := range h.fields.All() {
		c.fields.Append(d)
	}

	return c
}

// FieldCount returns the number of fields.
func (h *Header) FieldCount() int {
	return h.fields.Len()
}

// Field returns the descriptor at index i.
//
// Returns:
//   - field.Descriptor: The descriptor at i
//   - error: ErrIndexOutOfRange if i is not a valid field index
func (h *Header) Field(i int) (field.Descriptor, error) {
	return h.fields.Get(i)
}

// Fields iterates over the field descriptors in encoding order.
func (h *Header) Fields() iter.Seq2[int, field.Descriptor] {
	return h.fields.All()
}

// Keys returns the field keys in encoding order.
func (h *Header) Keys() []field.Key {
	return h.fields.Keys()
}

// KeyIndex returns the index of the first field with the given key, or -1.
func (h *Header) KeyIndex(key field.Key) int {
	return h.fields.IndexOf(key)
}

// Has reports whether a field with the given key exists.
func (h *Header) Has(key field.Key) bool {
	return h.fields.IndexOf(key) >= 0
}

// EncodedSize returns the encoded length in bytes, prologue included.
// It is 0 for a Header left empty by a failed operation.
func (h *Header) EncodedSize() int {
	return h.buf.Len()
}

// Bytes returns the encoded header.
//
// The returned slice aliases the Header's buffer and is valid until the next mutation.
func (h *Header) Bytes() []byte {
	return h.buf.Bytes()
}

// PayloadSize returns the sum of the payload sizes of all Blob fields, which is the
// number of payload bytes that follow the header in an archive.
func (h *Header) PayloadSize() uint64 {
	return h.payloadSize
}

// Blobs iterates over the Blob fields in payload order.
func (h *Header) Blobs() iter.Seq[field.Descriptor] {
	return func(yield func(field.Descriptor) bool) {
		for _, d := range h.fields.All() {
			if _, ok := d.Value.(field.BlobValue); !ok {
				continue
			}
			if !yield(d) {
				return
			}
		}
	}
}

// WriteTo writes the encoded header to w.
func (h *Header) WriteTo(w io.Writer) (int64, error) {
	return h.buf.WriteTo(w)
}
