package compress

import (
	"fmt"
	"slices"

	"github.com/klauspost/compress/s2"

	"github.com/arloliu/aarchive/errs"
	"github.com/arloliu/aarchive/format"
)

// S2Compressor compresses blocks with S2, the Snappy-compatible format from
// klauspost/compress.
type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor creates a new S2 compressor.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Type returns format.CompressionS2.
func (c S2Compressor) Type() format.CompressionType {
	return format.CompressionS2
}

// Compress appends the S2 encoding of src to dst.
func (c S2Compressor) Compress(dst, src []byte) ([]byte, error) {
	if len(src) == 0 {
		return dst, nil
	}

	bound := s2.MaxEncodedLen(len(src))
	if bound < 0 {
		return nil, fmt.Errorf("s2: block of %d bytes is too large", len(src))
	}

	dst = slices.Grow(dst, bound)
	start := len(dst)
	out := s2.Encode(dst[start:start+bound], src)

	return dst[:start+len(out)], nil
}

// Decompress appends the S2 decoding of src to dst.
func (c S2Compressor) Decompress(dst, src []byte, rawSize int) ([]byte, error) {
	n, err := s2.DecodedLen(src)
	if err != nil {
		return nil, fmt.Errorf("%w: s2: %w", errs.ErrCorruptBlock, err)
	}
	if err := checkSize("s2", n, rawSize); err != nil {
		return nil, err
	}

	dst = slices.Grow(dst, rawSize)
	start := len(dst)
	out, err := s2.Decode(dst[start:start+rawSize], src)
	if err != nil {
		return nil, fmt.Errorf("%w: s2: %w", errs.ErrCorruptBlock, err)
	}

	return dst[:start+len(out)], nil
}
