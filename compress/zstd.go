package compress

import "github.com/arloliu/aarchive/format"

// ZstdCompressor compresses blocks with Zstandard.
//
// The implementation is selected at build time: klauspost/compress/zstd by
// default, valyala/gozstd with the gozstd build tag.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}

// Type returns format.CompressionZstd.
func (c ZstdCompressor) Type() format.CompressionType {
	return format.CompressionZstd
}
