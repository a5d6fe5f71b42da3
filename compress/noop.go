package compress

import "github.com/arloliu/aarchive/format"

// NoOpCompressor stores blocks without compression.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates a new no-operation compressor.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Type returns format.CompressionNone.
func (c NoOpCompressor) Type() format.CompressionType {
	return format.CompressionNone
}

// Compress appends src to dst unchanged.
func (c NoOpCompressor) Compress(dst, src []byte) ([]byte, error) {
	return append(dst, src...), nil
}

// Decompress appends src to dst unchanged after checking its size.
func (c NoOpCompressor) Decompress(dst, src []byte, rawSize int) ([]byte, error) {
	if err := checkSize("stored", len(src), rawSize); err != nil {
		return nil, err
	}

	return append(dst, src...), nil
}
