package field

import "github.com/arloliu/aarchive/format"

// Value is the decoded scalar of a field. The concrete type is determined by the
// field type, so exactly one interpretation applies per field.
type Value interface {
	// Type returns the field type this value belongs to.
	Type() format.FieldType
	isValue()
}

// FlagValue is the (empty) value of a Flag field.
type FlagValue struct{}

// UIntValue is the integer value of a UInt field.
type UIntValue struct {
	V uint64
}

// StringValue records the byte length of a String field.
type StringValue struct {
	Len int
}

// HashValue records the digest size of a Hash field.
type HashValue struct {
	Size int
}

// TimespecValue is the (empty) scalar of a Timespec field; use Header.Timespec for the time.
type TimespecValue struct{}

// BlobValue records a Blob field's payload size and its offset in the payload stream.
type BlobValue struct {
	// Size is the number of payload bytes following the header for this field.
	Size uint64
	// Offset is the sum of the payload sizes of the Blob fields before this one.
	Offset uint64
}

func (FlagValue) Type() format.FieldType     { return format.FieldTypeFlag }
func (UIntValue) Type() format.FieldType     { return format.FieldTypeUInt }
func (StringValue) Type() format.FieldType   { return format.FieldTypeString }
func (HashValue) Type() format.FieldType     { return format.FieldTypeHash }
func (TimespecValue) Type() format.FieldType { return format.FieldTypeTimespec }
func (BlobValue) Type() format.FieldType     { return format.FieldTypeBlob }

func (FlagValue) isValue()     {}
func (UIntValue) isValue()     {}
func (StringValue) isValue()   {}
func (HashValue) isValue()     {}
func (TimespecValue) isValue() {}
func (BlobValue) isValue()     {}
