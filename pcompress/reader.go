package pcompress

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/arloliu/aarchive/compress"
	"github.com/arloliu/aarchive/errs"
	"github.com/arloliu/aarchive/format"
	"github.com/arloliu/aarchive/internal/pool"
	"github.com/arloliu/aarchive/stream"
)

// Reader decompresses a block frame.
type Reader struct {
	in        stream.ByteStream
	codec     compress.Codec
	blockSize int
	cfg       *config

	block  *pool.ByteBuffer
	stored *pool.ByteBuffer
	pos    int
	sizes  [blockHeaderSize]byte
	blocks int
	eof    bool
	err    error

	cancelled atomic.Bool
}

// NewReader creates a decompressing stream over in. The frame header is read and
// validated immediately.
//
// Returns:
//   - *stream.Custom[*Reader]: Read-only stream (Read, Cancel, Close)
//   - error: errs.ErrInvalidMagic, errs.ErrCorruptBlock, errs.ErrInvalidCompression,
//     io.ErrUnexpectedEOF or a read error from in
func NewReader(in stream.ByteStream, opts ...Option) (*stream.Custom[*Reader], error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	var hdr [FrameHeaderSize]byte
	if err := readFull(in, hdr[:]); err != nil {
		return nil, fmt.Errorf("pcompress: read frame header: %w", err)
	}

	algo, blockSize, err := parseFrameHeader(hdr[:])
	if err != nil {
		return nil, err
	}

	codec, err := compress.GetCodec(algo)
	if err != nil {
		return nil, err
	}

	r := &Reader{
		in:        in,
		codec:     codec,
		blockSize: blockSize,
		cfg:       cfg,
		block:     pool.GetBlockBuffer(),
		stored:    pool.GetBlockBuffer(),
	}

	return stream.NewCustom(r,
		stream.WithRead((*Reader).Read),
		stream.WithCancel((*Reader).Cancel),
		stream.WithClose((*Reader).Close),
	)
}

// Algorithm returns the frame's compression algorithm.
func (r *Reader) Algorithm() format.CompressionType {
	return r.codec.Type()
}

// Read returns decompressed bytes. It returns io.EOF after the trailer and
// io.ErrUnexpectedEOF when the frame ends without one.
func (r *Reader) Read(p []byte) (int, error) {
	if r.cancelled.Load() {
		return 0, errs.ErrCancelled
	}
	if len(p) == 0 {
		return 0, nil
	}

	for r.pos == r.block.Len() {
		if r.eof {
			return 0, io.EOF
		}
		if r.err != nil {
			return 0, r.err
		}
		if err := r.nextBlock(); err != nil {
			r.err = err
			return 0, err
		}
	}

	n := copy(p, r.block.B[r.pos:])
	r.pos += n

	return n, nil
}

// nextBlock reads and decodes the next block, or the trailer.
func (r *Reader) nextBlock() error {
	r.block.Reset()
	r.pos = 0

	if err := readFull(r.in, r.sizes[:sizeFieldSize]); err != nil {
		return fmt.Errorf("pcompress: read block %d: %w", r.blocks, err)
	}
	raw := engine.Uint64(r.sizes[:sizeFieldSize])
	if raw == 0 {
		r.eof = true
		return nil
	}
	if raw > uint64(r.blockSize) {
		return fmt.Errorf("%w: block %d raw size %d exceeds %d", errs.ErrCorruptBlock, r.blocks, raw, r.blockSize)
	}

	if err := readFull(r.in, r.sizes[sizeFieldSize:]); err != nil {
		return fmt.Errorf("pcompress: read block %d: %w", r.blocks, err)
	}
	stored := engine.Uint64(r.sizes[sizeFieldSize:])
	if stored > raw || stored == 0 {
		return fmt.Errorf("%w: block %d stored size %d, raw size %d", errs.ErrCorruptBlock, r.blocks, stored, raw)
	}

	size := int(stored)
	r.stored.Reset()
	r.stored.Reserve(size)
	r.stored.SetLength(size)
	if err := readFull(r.in, r.stored.B); err != nil {
		return fmt.Errorf("pcompress: read block %d: %w", r.blocks, err)
	}

	if stored == raw {
		r.block.MustWrite(r.stored.B)
	} else {
		r.block.Reserve(int(raw))
		out, err := r.codec.Decompress(r.block.B[:0], r.stored.B, int(raw))
		if err != nil {
			return fmt.Errorf("pcompress: block %d: %w", r.blocks, err)
		}
		r.block.B = out
	}
	r.blocks++

	return nil
}

// Cancel makes later reads fail with errs.ErrCancelled and cancels the source stream.
func (r *Reader) Cancel() {
	r.cancelled.Store(true)
	r.in.Cancel()
}

// Close releases the block buffers and closes the source stream.
func (r *Reader) Close() error {
	r.cfg.logger.Debugw("block stream read",
		"algorithm", r.codec.Type().String(),
		"blocks", r.blocks,
		"complete", r.eof,
	)

	pool.PutBlockBuffer(r.block)
	pool.PutBlockBuffer(r.stored)
	r.block = pool.NewByteBuffer(0)
	r.stored = pool.NewByteBuffer(0)
	r.pos = 0

	return r.in.Close()
}
