// Package compress provides the block codecs used to compress archive data.
//
// The archive block framer (package pcompress) cuts a stream into fixed-size blocks
// and compresses each block independently with one of these codecs. Every block
// records its raw size, so decompression always knows the exact output size.
//
// # Supported Algorithms
//
//   - None (format.CompressionNone): blocks are stored as-is
//   - Zstd (format.CompressionZstd): best ratio, moderate speed
//   - S2 (format.CompressionS2): balanced speed and ratio
//   - LZ4 (format.CompressionLZ4): fastest decompression
//
// The Zstd codec uses github.com/klauspost/compress/zstd. Building with the
// gozstd tag (and cgo enabled) switches it to the cgo binding
// github.com/valyala/gozstd; both produce standard zstd frames.
//
// # Basic Usage
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	stored, err := codec.Compress(nil, block)
//	...
//	raw, err := codec.Decompress(nil, stored, len(block))
//
// Both operations append to dst, so callers can reuse pooled buffers.
//
// # Thread Safety
//
// All codecs are stateless values backed by pooled encoders and are safe for
// concurrent use.
package compress
