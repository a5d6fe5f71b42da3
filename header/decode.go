package header

import (
	"fmt"

	"github.com/arloliu/aarchive/endian"
	"github.com/arloliu/aarchive/errs"
	"github.com/arloliu/aarchive/field"
	"github.com/arloliu/aarchive/format"
)

// Decode creates a Header from an encoded header.
//
// Parameters:
//   - data: The complete encoded header; len(data) is the header size
//
// Returns:
//   - *Header: The decoded header, owning a copy of data
//   - error: ErrSizeMismatch, ErrInvalidMagic, ErrTruncatedHeader or ErrInvalidFieldSubtype
func Decode(data []byte) (*Header, error) {
	h := &Header{fields: field.NewKeySet()}
	if err := h.Decode(data); err != nil {
		return nil, err
	}

	return h, nil
}

// Decode replaces the contents of h with the header encoded in data.
//
// The checks run in order: minimum size, magic, stored length against len(data),
// then every field boundary. On failure h is left empty (see package docs).
//
// Parameters:
//   - data: The complete encoded header; it is copied and not retained
//
// Returns:
//   - error: ErrSizeMismatch, ErrInvalidMagic, ErrTruncatedHeader or ErrInvalidFieldSubtype
func (h *Header) Decode(data []byte) error {
	if err := h.decode(data); err != nil {
		h.reset()
		return err
	}

	return nil
}

func (h *Header) decode(data []byte) error {
	size := len(data)
	if size < PrologueSize {
		return fmt.Errorf("%w: %d bytes is below the minimum of %d", errs.ErrSizeMismatch, size, PrologueSize)
	}

	magic := string(data[:MagicSize])
	if magic != Magic && magic != LegacyMagic {
		return fmt.Errorf("%w: %q", errs.ErrInvalidMagic, magic)
	}

	stored := int(engine.Uint16(data[MagicSize:PrologueSize]))
	if stored != size {
		return fmt.Errorf("%w: stored %d, got %d", errs.ErrSizeMismatch, stored, size)
	}

	h.buf.Reset()
	h.buf.Reserve(size)
	h.buf.MustWrite(data)
	copy(h.buf.B[:MagicSize], Magic)

	return h.index()
}

// index rebuilds the field table and payload size from the encoded buffer.
func (h *Header) index() error {
	h.fields.Clear()
	h.payloadSize = 0

	b := h.buf.Bytes()
	for off := PrologueSize; off < len(b); {
		d, err := parseField(b, off, h.payloadSize)
		if err != nil {
			return err
		}
		if err := h.addPayload(d); err != nil {
			return err
		}
		h.fields.Append(d)
		off = d.End()
	}

	return nil
}

// addPayload adds the blob size declared by d to the running payload total.
func (h *Header) addPayload(d field.Descriptor) error {
	size := d.PayloadSize()
	if h.payloadSize+size < h.payloadSize {
		return fmt.Errorf("%w: blob %s of %d bytes overflows payload total %d", errs.ErrSizeMismatch, d.Key, size, h.payloadSize)
	}
	h.payloadSize += size

	return nil
}

// parseField decodes the field that starts at off in the encoded header b.
//
// Every size is validated against len(b) before the bytes it covers are read.
//
// Parameters:
//   - b: The complete encoded header
//   - off: Offset of the field key
//   - payloadOffset: Payload offset assigned to the field if it is a Blob
//
// Returns:
//   - field.Descriptor: The decoded descriptor
//   - error: ErrTruncatedHeader or ErrInvalidFieldSubtype
func parseField(b []byte, off int, payloadOffset uint64) (field.Descriptor, error) {
	remaining := len(b) - off
	if remaining < field.HeaderSize {
		return field.Descriptor{}, fmt.Errorf("%w: field at offset %d needs %d bytes, %d remain",
			errs.ErrTruncatedHeader, off, field.HeaderSize, remaining)
	}

	var d field.Descriptor
	copy(d.Key[:], b[off:off+field.KeySize])
	d.Subtype = b[off+field.KeySize]
	d.Offset = off

	typ, size, err := field.Resolve(d.Subtype)
	if err != nil {
		return field.Descriptor{}, fmt.Errorf("%w at offset %d", err, off)
	}

	data := b[off+field.HeaderSize:]
	if typ == format.FieldTypeString {
		if len(data) < field.StringPrefixSize {
			return field.Descriptor{}, fmt.Errorf("%w: string length of field %s at offset %d",
				errs.ErrTruncatedHeader, d.Key, off)
		}
		size = int(engine.Uint16(data[:field.StringPrefixSize])) + field.StringPrefixSize
	}

	if len(data) < size {
		return field.Descriptor{}, fmt.Errorf("%w: field %s at offset %d needs %d value bytes, %d remain",
			errs.ErrTruncatedHeader, d.Key, off, size, len(data))
	}
	data = data[:size]

	d.Type = typ
	d.Size = size
	d.Value = decodeValue(typ, data, payloadOffset)

	return d, nil
}

// decodeValue builds the scalar for a field whose value bytes are data.
func decodeValue(typ format.FieldType, data []byte, payloadOffset uint64) field.Value {
	switch typ {
	case format.FieldTypeUInt:
		return field.UIntValue{V: endian.Uint(engine, data, len(data))}
	case format.FieldTypeString:
		return field.StringValue{Len: len(data) - field.StringPrefixSize}
	case format.FieldTypeHash:
		return field.HashValue{Size: len(data)}
	case format.FieldTypeTimespec:
		return field.TimespecValue{}
	case format.FieldTypeBlob:
		return field.BlobValue{Size: endian.Uint(engine, data, len(data)), Offset: payloadOffset}
	default:
		return field.FlagValue{}
	}
}
