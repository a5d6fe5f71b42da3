// Package header implements the archive entry header codec.
//
// An encoded header is a 6-byte prologue followed by typed fields:
//
//	+--------+------------+---------------------------------------------+
//	| magic  | length     | fields ...                                  |
//	| "AA01" | uint16 LE  | key(3) subtype(1) value(size) ...           |
//	+--------+------------+---------------------------------------------+
//
// The length counts the whole header, prologue included, and is at most 65535.
// Each field's subtype character determines its type and value size (see
// field.Resolve). String fields carry a 2-byte length prefix before the bytes.
// Blob fields carry only the size of a payload stored after the header, in header
// order, so a blob's payload offset is the sum of the sizes of the blobs before it.
//
// The legacy magic "YAA1" is accepted on decode and rewritten as "AA01".
//
// # Basic Usage
//
// Building a header:
//
//	h := header.New()
//	_ = h.AppendUInt(field.KeyTYP, uint64(format.EntryRegular))
//	_ = h.AppendString(field.KeyPAT, "docs/readme.txt")
//	_ = h.AppendBlob(field.KeyDAT, uint64(len(data)))
//	encoded := h.Bytes()
//
// Decoding a header:
//
//	h, err := header.Decode(encoded)
//	if err != nil {
//	    return err
//	}
//	for i, d := range h.Fields() {
//	    fmt.Println(i, d.Key, d.Type)
//	}
//
// # Error Handling
//
// Decode validates the prologue and every field boundary before reading it. Any
// structural failure, either while decoding or while encoding (header too large,
// unknown subtype), leaves the Header empty: zero fields, zero encoded length and
// zero payload size. Argument errors such as an invalid key or an over-long string
// are reported before anything is written and leave the Header untouched.
//
// # Thread Safety
//
// A Header is not safe for concurrent use. Independent Header values share no state.
package header
