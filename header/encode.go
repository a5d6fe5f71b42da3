package header

import (
	"errors"
	"fmt"
	"math"

	"github.com/arloliu/aarchive/endian"
	"github.com/arloliu/aarchive/errs"
	"github.com/arloliu/aarchive/field"
	"github.com/arloliu/aarchive/format"
)

// AppendFlag appends a Flag field, which carries no value.
func (h *Header) AppendFlag(key field.Key) error {
	return h.appendField(key, field.SubtypeFlag, nil)
}

// AppendUInt appends a UInt field using the smallest width (1, 2, 4 or 8 bytes) that holds v.
func (h *Header) AppendUInt(key field.Key, v uint64) error {
	subtype, value := encodeUInt(v)
	return h.appendField(key, subtype, value)
}

// AppendString appends a String field.
//
// Returns:
//   - error: ErrStringTooLong if s exceeds 65535 bytes, ErrHeaderTooLarge if the
//     field does not fit in the header
func (h *Header) AppendString(key field.Key, s string) error {
	value, err := encodeString(s)
	if err != nil {
		return err
	}

	return h.appendField(key, field.SubtypeString, value)
}

// AppendHash appends a Hash field holding digest, computed with fn.
//
// Returns:
//   - error: ErrInvalidHashFunction for an unknown fn, ErrInvalidHashSize if
//     len(digest) does not match fn
func (h *Header) AppendHash(key field.Key, fn format.HashFunction, digest []byte) error {
	subtype, err := hashSubtype(fn, digest)
	if err != nil {
		return err
	}

	return h.appendField(key, subtype, digest)
}

// AppendTimespec appends a Timespec field. The 8-byte form is used when ts has no
// nanoseconds, the 12-byte form otherwise.
func (h *Header) AppendTimespec(key field.Key, ts field.Timespec) error {
	subtype, value := encodeTimespec(ts)
	return h.appendField(key, subtype, value)
}

// AppendBlob appends a Blob field declaring a payload of size bytes.
//
// The payload is not part of the header; it is written after the header, in Blob
// field order. The new field's payload offset is the payload size before the call.
func (h *Header) AppendBlob(key field.Key, size uint64) error {
	subtype, value := encodeBlob(size)
	return h.appendField(key, subtype, value)
}

// AppendRaw appends a field from its subtype code and encoded value bytes.
//
// For String fields value includes the 2-byte length prefix.
//
// Parameters:
//   - key: Field key
//   - subtype: Subtype code from the subtype table
//   - value: Value bytes exactly as they appear after the subtype
//
// Returns:
//   - error: ErrInvalidFieldSubtype or ErrHeaderTooLarge (both leave the Header
//     empty), ErrSizeMismatch if value does not match the subtype's size
func (h *Header) AppendRaw(key field.Key, subtype byte, value []byte) error {
	return h.appendField(key, subtype, value)
}

// SetFlag sets the Flag field with the given key, appending it if absent.
func (h *Header) SetFlag(key field.Key) error {
	return h.setField(key, field.SubtypeFlag, nil)
}

// SetUInt sets the UInt field with the given key, appending it if absent.
// The field is re-encoded at the smallest width that holds v.
func (h *Header) SetUInt(key field.Key, v uint64) error {
	subtype, value := encodeUInt(v)
	return h.setField(key, subtype, value)
}

// SetString sets the String field with the given key, appending it if absent.
func (h *Header) SetString(key field.Key, s string) error {
	value, err := encodeString(s)
	if err != nil {
		return err
	}

	return h.setField(key, field.SubtypeString, value)
}

// SetHash sets the Hash field with the given key, appending it if absent.
func (h *Header) SetHash(key field.Key, fn format.HashFunction, digest []byte) error {
	subtype, err := hashSubtype(fn, digest)
	if err != nil {
		return err
	}

	return h.setField(key, subtype, digest)
}

// SetTimespec sets the Timespec field with the given key, appending it if absent.
func (h *Header) SetTimespec(key field.Key, ts field.Timespec) error {
	subtype, value := encodeTimespec(ts)
	return h.setField(key, subtype, value)
}

// SetBlob sets the payload size of the Blob field with the given key, appending it
// if absent. Payload offsets of later Blob fields shift accordingly.
func (h *Header) SetBlob(key field.Key, size uint64) error {
	subtype, value := encodeBlob(size)
	return h.setField(key, subtype, value)
}

// Remove deletes the field at index i.
//
// Returns:
//   - error: ErrIndexOutOfRange if i is not a valid field index
func (h *Header) Remove(i int) error {
	d, err := h.fields.Get(i)
	if err != nil {
		return err
	}

	return h.splice(d.Offset, d.End(), nil)
}

// appendField validates and writes one field at the end of the buffer.
func (h *Header) appendField(key field.Key, subtype byte, value []byte) error {
	if !key.Valid() {
		return fmt.Errorf("%w: %q", errs.ErrInvalidFieldKey, key[:])
	}
	if err := checkValue(subtype, value); err != nil {
		if isEncodingError(err) {
			h.reset()
		}
		return err
	}

	h.ensurePrologue()

	off := h.buf.Len()
	total := off + field.HeaderSize + len(value)
	if total > MaxSize {
		h.reset()
		return fmt.Errorf("%w: field %s would grow the header to %d bytes", errs.ErrHeaderTooLarge, key, total)
	}

	h.buf.Reserve(total)
	h.buf.MustWrite(key[:])
	h.buf.B = append(h.buf.B, subtype)
	h.buf.MustWrite(value)
	h.writeLength()

	d, err := parseField(h.buf.Bytes(), off, h.payloadSize)
	if err != nil {
		h.reset()
		return err
	}
	if err := h.addPayload(d); err != nil {
		h.reset()
		return err
	}
	h.fields.Append(d)

	return nil
}

// setField replaces the first field with the given key, or appends a new one.
func (h *Header) setField(key field.Key, subtype byte, value []byte) error {
	if !key.Valid() {
		return fmt.Errorf("%w: %q", errs.ErrInvalidFieldKey, key[:])
	}
	i := h.fields.IndexOf(key)
	if i < 0 {
		return h.appendField(key, subtype, value)
	}
	if err := checkValue(subtype, value); err != nil {
		if isEncodingError(err) {
			h.reset()
		}
		return err
	}

	d, _ := h.fields.Get(i)
	encoded := make([]byte, 0, field.HeaderSize+len(value))
	encoded = append(encoded, key[:]...)
	encoded = append(encoded, subtype)
	encoded = append(encoded, value...)

	return h.splice(d.Offset, d.End(), encoded)
}

// splice replaces buf[start:end] with repl and re-indexes the field table.
func (h *Header) splice(start, end int, repl []byte) error {
	total := h.buf.Len() - (end - start) + len(repl)
	if total > MaxSize {
		h.reset()
		return fmt.Errorf("%w: replacement would grow the header to %d bytes", errs.ErrHeaderTooLarge, total)
	}

	tail := append([]byte(nil), h.buf.Slice(end, h.buf.Len())...)
	h.buf.SetLength(start)
	h.buf.Reserve(total)
	h.buf.MustWrite(repl)
	h.buf.MustWrite(tail)
	h.writeLength()

	if err := h.index(); err != nil {
		h.reset()
		return err
	}

	return nil
}

// checkValue verifies that value is a well-formed value for subtype.
func checkValue(subtype byte, value []byte) error {
	typ, size, err := field.Resolve(subtype)
	if err != nil {
		return err
	}

	if typ == format.FieldTypeString {
		if len(value) < field.StringPrefixSize {
			return fmt.Errorf("%w: string value of %d bytes has no length prefix", errs.ErrSizeMismatch, len(value))
		}
		size = int(engine.Uint16(value)) + field.StringPrefixSize
	}

	if len(value) != size {
		return fmt.Errorf("%w: subtype %q takes %d value bytes, got %d", errs.ErrSizeMismatch, subtype, size, len(value))
	}

	return nil
}

// isEncodingError reports whether err is a structural encoding failure, which
// leaves the Header empty, as opposed to a rejected argument.
func isEncodingError(err error) bool {
	return errors.Is(err, errs.ErrInvalidFieldSubtype) || errors.Is(err, errs.ErrHeaderTooLarge)
}

func encodeUInt(v uint64) (byte, []byte) {
	width := endian.MinWidth(v)
	subtype, _ := field.UIntSubtype(width)

	return subtype, endian.AppendUint(engine, make([]byte, 0, width), width, v)
}

func encodeString(s string) ([]byte, error) {
	if len(s) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: %d bytes", errs.ErrStringTooLong, len(s))
	}

	value := make([]byte, 0, field.StringPrefixSize+len(s))
	value = engine.AppendUint16(value, uint16(len(s))) //nolint:gosec
	value = append(value, s...)

	return value, nil
}

func hashSubtype(fn format.HashFunction, digest []byte) (byte, error) {
	subtype, ok := field.HashSubtype(fn)
	if !ok {
		return 0, fmt.Errorf("%w: %d", errs.ErrInvalidHashFunction, fn)
	}
	if len(digest) != fn.Size() {
		return 0, fmt.Errorf("%w: %s digest is %d bytes, got %d", errs.ErrInvalidHashSize, fn, fn.Size(), len(digest))
	}

	return subtype, nil
}

func encodeTimespec(ts field.Timespec) (byte, []byte) {
	if !ts.Wide() {
		return field.SubtypeTimespec8, engine.AppendUint64(make([]byte, 0, 8), uint64(ts.Sec)) //nolint:gosec
	}

	value := make([]byte, 0, 12)
	value = engine.AppendUint64(value, uint64(ts.Sec)) //nolint:gosec
	value = engine.AppendUint32(value, ts.Nsec)

	return field.SubtypeTimespec12, value
}

func encodeBlob(size uint64) (byte, []byte) {
	width := max(endian.MinWidth(size), 2)
	subtype, _ := field.BlobSubtype(width)

	return subtype, endian.AppendUint(engine, make([]byte, 0, width), width, size)
}
