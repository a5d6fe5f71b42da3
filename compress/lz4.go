package compress

import (
	"fmt"
	"slices"
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/arloliu/aarchive/errs"
	"github.com/arloliu/aarchive/format"
)

// lz4CompressorPool pools lz4.Compressor instances for reuse.
// The lz4.Compressor maintains a hash table that benefits from reuse.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Compressor compresses blocks with the LZ4 block format.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates a new LZ4 compressor.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Type returns format.CompressionLZ4.
func (c LZ4Compressor) Type() format.CompressionType {
	return format.CompressionLZ4
}

// Compress appends the LZ4 block encoding of src to dst.
//
// Nothing is appended when src is incompressible.
func (c LZ4Compressor) Compress(dst, src []byte) ([]byte, error) {
	if len(src) == 0 {
		return dst, nil
	}

	bound := lz4.CompressBlockBound(len(src))
	dst = slices.Grow(dst, bound)
	start := len(dst)

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(src, dst[start:start+bound])
	if err != nil {
		return nil, fmt.Errorf("lz4: %w", err)
	}

	return dst[:start+n], nil
}

// Decompress appends the LZ4 block decoding of src to dst. The output buffer is
// sized from rawSize, so no adaptive growth is needed.
func (c LZ4Compressor) Decompress(dst, src []byte, rawSize int) ([]byte, error) {
	dst = slices.Grow(dst, rawSize)
	start := len(dst)

	n, err := lz4.UncompressBlock(src, dst[start:start+rawSize])
	if err != nil {
		return nil, fmt.Errorf("%w: lz4: %w", errs.ErrCorruptBlock, err)
	}
	if err := checkSize("lz4", n, rawSize); err != nil {
		return nil, err
	}

	return dst[:start+n], nil
}
