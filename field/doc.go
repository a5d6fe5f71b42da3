// Package field implements the field-key type system of the archive header format.
//
// Every header field is encoded as a 3-byte Key, a 1-byte subtype code and a value
// whose size the subtype determines:
//
//	┌──────────┬─────────┬───────────────────────────────┐
//	│ key (3)  │ sub (1) │ value (0..65535)              │
//	└──────────┴─────────┴───────────────────────────────┘
//
// Resolve maps a subtype to its format.FieldType and size. A decoded field is
// described by a Descriptor, whose Value is a tagged variant (UIntValue, StringValue,
// HashValue, BlobValue, TimespecValue or FlagValue) selected by the field type.
//
// KeySet is the ordered, append-only field table a header owns. Insertion order is
// encoding order.
package field
