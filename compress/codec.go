package compress

import (
	"fmt"

	"github.com/arloliu/aarchive/errs"
	"github.com/arloliu/aarchive/format"
)

// Compressor compresses archive blocks.
type Compressor interface {
	// Compress appends the compressed form of src to dst and returns the extended slice.
	//
	// A codec may append nothing when src does not compress; callers then store
	// the block uncompressed.
	Compress(dst, src []byte) ([]byte, error)
}

// Decompressor decompresses archive blocks.
type Decompressor interface {
	// Decompress appends the decompressed form of src to dst and returns the
	// extended slice.
	//
	// rawSize is the block's recorded uncompressed size; output of any other size
	// is reported as errs.ErrCorruptBlock.
	Decompress(dst, src []byte, rawSize int) ([]byte, error)
}

// Codec combines compression and decompression for one algorithm.
type Codec interface {
	Compressor
	Decompressor

	// Type returns the algorithm identifier recorded in the stream frame.
	Type() format.CompressionType
}

// Stats accumulates block compression totals for one stream.
type Stats struct {
	// Algorithm identifies the compression algorithm used.
	Algorithm format.CompressionType
	// Blocks is the number of blocks written.
	Blocks int
	// StoredBlocks is the number of blocks stored uncompressed.
	StoredBlocks int
	// RawBytes is the total uncompressed size.
	RawBytes int64
	// StoredBytes is the total size written, block framing excluded.
	StoredBytes int64
}

// Add records one block.
func (s *Stats) Add(raw, stored int) {
	s.Blocks++
	if raw == stored {
		s.StoredBlocks++
	}
	s.RawBytes += int64(raw)
	s.StoredBytes += int64(stored)
}

// Ratio returns the stored size divided by the raw size.
//
// Returns:
//   - float64: Compression ratio (0.0 if nothing was written)
func (s Stats) Ratio() float64 {
	if s.RawBytes == 0 {
		return 0.0
	}

	return float64(s.StoredBytes) / float64(s.RawBytes)
}

// SpaceSavings returns the space savings as a percentage (0-100%).
func (s Stats) SpaceSavings() float64 {
	if s.RawBytes == 0 {
		return 0.0
	}

	return (1.0 - s.Ratio()) * 100.0
}

// NewCodec creates a Codec for the given compression type.
//
// Returns:
//   - Codec: Codec instance for the specified type
//   - error: ErrInvalidCompression for an unknown type
func NewCodec(compressionType format.CompressionType) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidCompression, compressionType)
	}
}

var builtinCodecs = newBuiltinCodecs(
	format.CompressionNone,
	format.CompressionZstd,
	format.CompressionS2,
	format.CompressionLZ4,
)

func newBuiltinCodecs(types ...format.CompressionType) map[format.CompressionType]Codec {
	codecs := make(map[format.CompressionType]Codec, len(types))
	for _, ct := range types {
		codec, err := NewCodec(ct)
		if err != nil {
			panic(err)
		}
		codecs[ct] = codec
	}

	return codecs
}

// GetCodec retrieves the shared built-in Codec for the specified compression type.
//
// Block readers share these; each block writer creates its own with NewCodec.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrInvalidCompression, compressionType)
}

// checkSize verifies the decompressed size of a block.
func checkSize(name string, got, want int) error {
	if got != want {
		return fmt.Errorf("%w: %s block decoded to %d bytes, want %d", errs.ErrCorruptBlock, name, got, want)
	}

	return nil
}
