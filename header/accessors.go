package header

import (
	"fmt"

	"github.com/arloliu/aarchive/errs"
	"github.com/arloliu/aarchive/field"
	"github.com/arloliu/aarchive/format"
)

// typedField returns the descriptor at i after checking it has type want.
func (h *Header) typedField(i int, want format.FieldType) (field.Descriptor, error) {
	d, err := h.fields.Get(i)
	if err != nil {
		return field.Descriptor{}, err
	}
	if d.Type != want {
		return field.Descriptor{}, fmt.Errorf("%w: field %s is %s, not %s", errs.ErrFieldTypeMismatch, d.Key, d.Type, want)
	}

	return d, nil
}

// value returns the value bytes of d within the encoded buffer.
func (h *Header) value(d field.Descriptor) []byte {
	return h.buf.Slice(d.DataOffset(), d.End())
}

// UInt returns the value of the UInt field at index i.
func (h *Header) UInt(i int) (uint64, error) {
	d, err := h.typedField(i, format.FieldTypeUInt)
	if err != nil {
		return 0, err
	}
	v, _ := d.UInt()

	return v, nil
}

// String returns the value of the String field at index i.
func (h *Header) String(i int) (string, error) {
	d, err := h.typedField(i, format.FieldTypeString)
	if err != nil {
		return "", err
	}

	return string(h.value(d)[field.StringPrefixSize:]), nil
}

// Hash returns the hash function and a copy of the digest of the Hash field at index i.
func (h *Header) Hash(i int) (format.HashFunction, []byte, error) {
	d, err := h.typedField(i, format.FieldTypeHash)
	if err != nil {
		return 0, nil, err
	}
	fn, _ := field.HashFunctionOf(d.Subtype)

	return fn, append([]byte(nil), h.value(d)...), nil
}

// Timespec returns the value of the Timespec field at index i.
// The 8-byte form has no nanoseconds.
func (h *Header) Timespec(i int) (field.Timespec, error) {
	d, err := h.typedField(i, format.FieldTypeTimespec)
	if err != nil {
		return field.Timespec{}, err
	}

	v := h.value(d)
	ts := field.Timespec{Sec: int64(engine.Uint64(v[:8]))} //nolint:gosec
	if len(v) == 12 {
		ts.Nsec = engine.Uint32(v[8:12])
	}

	return ts, nil
}

// Blob returns the payload size and payload offset of the Blob field at index i.
func (h *Header) Blob(i int) (size, offset uint64, err error) {
	d, err := h.typedField(i, format.FieldTypeBlob)
	if err != nil {
		return 0, 0, err
	}

	return d.PayloadSize(), d.PayloadOffset(), nil
}

// Raw returns the value bytes of the field at index i as they appear after the
// subtype. The slice aliases the Header's buffer.
func (h *Header) Raw(i int) ([]byte, error) {
	d, err := h.fields.Get(i)
	if err != nil {
		return nil, err
	}

	return h.value(d), nil
}

// LookupUInt returns the value of the first UInt field with the given key.
// The bool result is false when the key is absent or the field is not a UInt.
func (h *Header) LookupUInt(key field.Key) (uint64, bool) {
	v, err := h.UInt(h.fields.IndexOf(key))
	return v, err == nil
}

// LookupString returns the value of the first String field with the given key.
func (h *Header) LookupString(key field.Key) (string, bool) {
	s, err := h.String(h.fields.IndexOf(key))
	return s, err == nil
}
