package pcompress

import (
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/aarchive/endian"
	"github.com/arloliu/aarchive/errs"
	"github.com/arloliu/aarchive/format"
)

const (
	// Magic starts every frame.
	Magic = "PBZ"
	// FrameHeaderSize is the size of the frame header.
	FrameHeaderSize = 12

	blockHeaderSize = 16
	sizeFieldSize   = 8
)

var engine = endian.Wire()

// appendFrameHeader appends the frame header for algo and blockSize to dst.
func appendFrameHeader(dst []byte, algo format.CompressionType, blockSize int) []byte {
	dst = append(dst, Magic...)
	dst = append(dst, byte(algo))

	return engine.AppendUint64(dst, uint64(blockSize))
}

// parseFrameHeader validates a frame header and returns its algorithm and block size.
func parseFrameHeader(b []byte) (format.CompressionType, int, error) {
	if len(b) < FrameHeaderSize {
		return 0, 0, fmt.Errorf("%w: frame header has %d bytes", errs.ErrTruncatedHeader, len(b))
	}
	if string(b[:len(Magic)]) != Magic {
		return 0, 0, fmt.Errorf("%w: %q", errs.ErrInvalidMagic, b[:len(Magic)])
	}

	algo := format.CompressionType(b[len(Magic)])
	blockSize := engine.Uint64(b[4:FrameHeaderSize])
	if blockSize == 0 || blockSize > MaxBlockSize {
		return 0, 0, fmt.Errorf("%w: frame block size %d", errs.ErrCorruptBlock, blockSize)
	}

	return algo, int(blockSize), nil
}

// appendBlockHeader appends a block's raw and stored sizes to dst.
func appendBlockHeader(dst []byte, raw, stored int) []byte {
	dst = engine.AppendUint64(dst, uint64(raw))

	return engine.AppendUint64(dst, uint64(stored))
}

// readFull reads len(p) bytes and reports a short read as io.ErrUnexpectedEOF.
func readFull(r io.Reader, p []byte) error {
	_, err := io.ReadFull(r, p)
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}

	return err
}
