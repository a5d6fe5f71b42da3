package field

import "github.com/arloliu/aarchive/format"

// HeaderSize is the size of the key and subtype that precede every field value.
const HeaderSize = KeySize + 1

// Descriptor describes one field of an encoded header.
type Descriptor struct {
	// Key is the field key name.
	Key Key
	// Subtype is the subtype code as it appears on the wire.
	Subtype byte
	// Type is the field type resolved from Subtype.
	Type format.FieldType
	// Size is the declared value size in bytes. For String fields it includes the
	// 2-byte length prefix.
	Size int
	// Offset is the byte offset of the field key within the encoded header.
	Offset int
	// Value is the decoded scalar; its concrete type matches Type.
	Value Value
}

// DataOffset returns the byte offset of the field value within the encoded header.
func (d Descriptor) DataOffset() int {
	return d.Offset + HeaderSize
}

// End returns the byte offset just past the field.
func (d Descriptor) End() int {
	return d.Offset + HeaderSize + d.Size
}

// EncodedSize returns the number of bytes the field occupies, key and subtype included.
func (d Descriptor) EncodedSize() int {
	return HeaderSize + d.Size
}

// UInt returns the value of a UInt field.
func (d Descriptor) UInt() (uint64, bool) {
	v, ok := d.Value.(UIntValue)
	return v.V, ok
}

// StringLen returns the byte length of a String field.
func (d Descriptor) StringLen() (int, bool) {
	v, ok := d.Value.(StringValue)
	return v.Len, ok
}

// HashSize returns the digest size of a Hash field.
func (d Descriptor) HashSize() (int, bool) {
	v, ok := d.Value.(HashValue)
	return v.Size, ok
}

// PayloadSize returns the payload size of a Blob field, or 0 for other fields.
func (d Descriptor) PayloadSize() uint64 {
	v, _ := d.Value.(BlobValue)
	return v.Size
}

// PayloadOffset returns the payload stream offset of a Blob field, or 0 for other fields.
func (d Descriptor) PayloadOffset() uint64 {
	v, _ := d.Value.(BlobValue)
	return v.Offset
}
