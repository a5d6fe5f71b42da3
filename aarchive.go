// Package aarchive reads and writes archives of self-describing entry headers.
//
// Every entry starts with a compact header: a 4-byte magic ("AA01"), a 2-byte
// little-endian total length, and a sequence of typed fields, each named by a
// 3-character key. Blob fields declare the sizes of payloads that follow the header.
//
// # Core Features
//
//   - Header codec with typed fields (Flag, UInt, String, Hash, Timespec, Blob)
//   - Field key sets keyed by 3-character names (TYP, PAT, DAT, ...)
//   - Capability-polymorphic byte streams over file descriptors, memory or callbacks
//   - Optional parallel block compression (Zstd, S2, LZ4)
//   - Payload digest verification and xxHash64 fingerprints
//
// # Basic Usage
//
// Building a header:
//
//	h := aarchive.NewHeader()
//	_ = h.AppendUInt(field.KeyTYP, uint64(format.EntryRegular))
//	_ = h.AppendString(field.KeyPAT, "docs/readme.txt")
//	_ = h.AppendBlob(field.KeyDAT, uint64(len(data)))
//
// Writing an archive file:
//
//	enc, _ := aarchive.Create("out.aar", archive.WithCompression(format.CompressionZstd))
//	_ = enc.WriteEntry(h, data)
//	_ = enc.Close()
//
// Reading it back:
//
//	dec, _ := aarchive.Open("out.aar", archive.WithCompression(format.CompressionZstd))
//	defer dec.Close()
//	for {
//	    h, err := dec.Next()
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    ...
//	}
//
// # Package Structure
//
// This package provides top-level wrappers around the header, archive and stream
// packages for the most common use cases. Use those packages directly for full
// control.
package aarchive

import (
	"github.com/arloliu/aarchive/archive"
	"github.com/arloliu/aarchive/header"
	"github.com/arloliu/aarchive/stream"
)

// NewHeader creates an empty header holding only the prologue.
func NewHeader() *header.Header {
	return header.New()
}

// DecodeHeader decodes one encoded header.
//
// Parameters:
//   - data: The encoded header; its length must equal the stored total length
//
// Returns:
//   - *header.Header: The decoded header, which owns a copy of data
//   - error: ErrSizeMismatch, ErrInvalidMagic, ErrTruncatedHeader or ErrInvalidFieldSubtype
func DecodeHeader(data []byte) (*header.Header, error) {
	return header.Decode(data)
}

// NewMemoryEncoder creates an archive encoder writing into buf.
func NewMemoryEncoder(buf *stream.SharedBuffer, opts ...archive.Option) (*archive.Encoder, error) {
	return archive.NewEncoder(stream.NewMemoryStream(buf), opts...)
}

// NewMemoryDecoder creates an archive decoder reading data.
func NewMemoryDecoder(data []byte, opts ...archive.Option) (*archive.Decoder, error) {
	return archive.NewDecoder(stream.NewMemoryStream(stream.NewFixedBuffer(data)), opts...)
}

// ValidPath reports whether p is a safe relative entry path.
func ValidPath(p string) bool {
	return archive.ValidPath(p)
}
