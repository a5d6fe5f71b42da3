package field

import (
	"fmt"

	"github.com/arloliu/aarchive/errs"
	"github.com/arloliu/aarchive/format"
)

// Subtype codes, the fourth byte of every encoded field.
const (
	SubtypeFlag = byte('*')

	SubtypeUInt1 = byte('1')
	SubtypeUInt2 = byte('2')
	SubtypeUInt4 = byte('4')
	SubtypeUInt8 = byte('8')

	SubtypeBlob2 = byte('A')
	SubtypeBlob4 = byte('B')
	SubtypeBlob8 = byte('C')

	SubtypeHashCRC32  = byte('F')
	SubtypeHashSHA1   = byte('G')
	SubtypeHashSHA256 = byte('H')
	SubtypeHashSHA384 = byte('I')
	SubtypeHashSHA512 = byte('J')

	SubtypeTimespec8  = byte('S')
	SubtypeTimespec12 = byte('T')

	SubtypeString = byte('P')
)

// StringPrefixSize is the width of the length prefix of a String field.
const StringPrefixSize = 2

// Resolve maps a subtype code to its field type and declared value size.
//
// The size of a String field depends on its data, so Resolve reports 0 for it and the
// decoder reads the 2-byte length prefix instead.
//
// Returns:
//   - format.FieldType: Resolved field type
//   - int: Value size in bytes (integer or payload-size width, digest size, timespec size)
//   - error: ErrInvalidFieldSubtype for codes outside the table
func Resolve(subtype byte) (format.FieldType, int, error) {
	switch subtype {
	case SubtypeFlag:
		return format.FieldTypeFlag, 0, nil
	case SubtypeUInt1:
		return format.FieldTypeUInt, 1, nil
	case SubtypeUInt2:
		return format.FieldTypeUInt, 2, nil
	case SubtypeUInt4:
		return format.FieldTypeUInt, 4, nil
	case SubtypeUInt8:
		return format.FieldTypeUInt, 8, nil
	case SubtypeBlob2:
		return format.FieldTypeBlob, 2, nil
	case SubtypeBlob4:
		return format.FieldTypeBlob, 4, nil
	case SubtypeBlob8:
		return format.FieldTypeBlob, 8, nil
	case SubtypeHashCRC32:
		return format.FieldTypeHash, 4, nil
	case SubtypeHashSHA1:
		return format.FieldTypeHash, 20, nil
	case SubtypeHashSHA256:
		return format.FieldTypeHash, 32, nil
	case SubtypeHashSHA384:
		return format.FieldTypeHash, 48, nil
	case SubtypeHashSHA512:
		return format.FieldTypeHash, 64, nil
	case SubtypeTimespec8:
		return format.FieldTypeTimespec, 8, nil
	case SubtypeTimespec12:
		return format.FieldTypeTimespec, 12, nil
	case SubtypeString:
		return format.FieldTypeString, 0, nil
	default:
		return 0, 0, fmt.Errorf("%w: %q", errs.ErrInvalidFieldSubtype, subtype)
	}
}

// UIntSubtype returns the subtype for an unsigned integer of the given width.
func UIntSubtype(width int) (byte, bool) {
	switch width {
	case 1:
		return SubtypeUInt1, true
	case 2:
		return SubtypeUInt2, true
	case 4:
		return SubtypeUInt4, true
	case 8:
		return SubtypeUInt8, true
	default:
		return 0, false
	}
}

// BlobSubtype returns the subtype whose payload-size prefix has the given width.
func BlobSubtype(width int) (byte, bool) {
	switch width {
	case 2:
		return SubtypeBlob2, true
	case 4:
		return SubtypeBlob4, true
	case 8:
		return SubtypeBlob8, true
	default:
		return 0, false
	}
}

// HashSubtype returns the subtype storing digests of fn.
func HashSubtype(fn format.HashFunction) (byte, bool) {
	switch fn {
	case format.HashCRC32:
		return SubtypeHashCRC32, true
	case format.HashSHA1:
		return SubtypeHashSHA1, true
	case format.HashSHA256:
		return SubtypeHashSHA256, true
	case format.HashSHA384:
		return SubtypeHashSHA384, true
	case format.HashSHA512:
		return SubtypeHashSHA512, true
	default:
		return 0, false
	}
}

// HashFunctionOf returns the hash function stored by a Hash subtype.
func HashFunctionOf(subtype byte) (format.HashFunction, bool) {
	switch subtype {
	case SubtypeHashCRC32:
		return format.HashCRC32, true
	case SubtypeHashSHA1:
		return format.HashSHA1, true
	case SubtypeHashSHA256:
		return format.HashSHA256, true
	case SubtypeHashSHA384:
		return format.HashSHA384, true
	case SubtypeHashSHA512:
		return format.HashSHA512, true
	default:
		return 0, false
	}
}

// SubtypeFor returns the subtype code for a field of the given type and value size.
// For String fields the size is ignored; for Flag fields it must be 0.
func SubtypeFor(typ format.FieldType, size int) (byte, bool) {
	switch typ {
	case format.FieldTypeFlag:
		return SubtypeFlag, size == 0
	case format.FieldTypeUInt:
		return UIntSubtype(size)
	case format.FieldTypeString:
		return SubtypeString, true
	case format.FieldTypeHash:
		fn, ok := format.HashFunctionForSize(size)
		if !ok {
			return 0, false
		}
		return HashSubtype(fn)
	case format.FieldTypeTimespec:
		switch size {
		case 8:
			return SubtypeTimespec8, true
		case 12:
			return SubtypeTimespec12, true
		}
		return 0, false
	case format.FieldTypeBlob:
		return BlobSubtype(size)
	default:
		return 0, false
	}
}
