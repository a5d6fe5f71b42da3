//go:build gozstd && cgo

package compress

import (
	"fmt"

	"github.com/valyala/gozstd"

	"github.com/arloliu/aarchive/errs"
)

const gozstdLevel = 3

// Compress appends the zstd frame for src to dst.
func (c ZstdCompressor) Compress(dst, src []byte) ([]byte, error) {
	return gozstd.CompressLevel(dst, src, gozstdLevel), nil
}

// Decompress appends the decoding of the zstd frame src to dst.
func (c ZstdCompressor) Decompress(dst, src []byte, rawSize int) ([]byte, error) {
	start := len(dst)
	out, err := gozstd.Decompress(dst, src)
	if err != nil {
		return nil, fmt.Errorf("%w: zstd: %w", errs.ErrCorruptBlock, err)
	}
	if err := checkSize("zstd", len(out)-start, rawSize); err != nil {
		return nil, err
	}

	return out, nil
}
