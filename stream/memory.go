package stream

import (
	"fmt"
	"io"
	"math"
	"sync/atomic"

	"github.com/arloliu/aarchive/errs"
	"github.com/arloliu/aarchive/internal/pool"
)

// CopyOut copies bytes from src at *cursor into p and advances *cursor by the
// number of bytes copied, which it returns.
func CopyOut(p, src []byte, cursor *int64) int {
	if *cursor >= int64(len(src)) {
		return 0
	}
	n := copy(p, src[*cursor:])
	*cursor += int64(n)

	return n
}

// CopyIn copies p into dst at *cursor and advances *cursor by the number of bytes
// copied, which it returns. It never grows dst.
func CopyIn(dst, p []byte, cursor *int64) int {
	if *cursor >= int64(len(dst)) {
		return 0
	}
	n := copy(dst[*cursor:], p)
	*cursor += int64(n)

	return n
}

// MaxBufferSize is the largest size a growable SharedBuffer extends to.
const MaxBufferSize = math.MaxInt32

// SharedBuffer is an in-memory byte region with a cursor, shared between a stream
// and its owner.
//
// A growable buffer extends on writes past its end using the pool growth policy,
// up to MaxBufferSize. A fixed buffer keeps its initial size and reports io.ErrShortWrite instead.
//
// SharedBuffer is not safe for concurrent use.
type SharedBuffer struct {
	buf   pool.ByteBuffer
	pos   int64
	fixed bool
}

// NewSharedBuffer creates a growable buffer holding a copy of data.
func NewSharedBuffer(data []byte) *SharedBuffer {
	b := &SharedBuffer{}
	b.buf.MustWrite(data)

	return b
}

// NewFixedBuffer creates a buffer over data that never changes size.
// Writes go directly into data.
func NewFixedBuffer(data []byte) *SharedBuffer {
	return &SharedBuffer{buf: pool.ByteBuffer{B: data}, fixed: true}
}

// Bytes returns the buffer contents. The slice aliases the buffer.
func (b *SharedBuffer) Bytes() []byte {
	return b.buf.Bytes()
}

// Len returns the buffer size.
func (b *SharedBuffer) Len() int {
	return b.buf.Len()
}

// Pos returns the cursor position.
func (b *SharedBuffer) Pos() int64 {
	return b.pos
}

// Read copies from the cursor into p.
func (b *SharedBuffer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n := CopyOut(p, b.buf.Bytes(), &b.pos)
	if n == 0 {
		return 0, io.EOF
	}

	return n, nil
}

// Write copies p to the cursor.
func (b *SharedBuffer) Write(p []byte) (int, error) {
	n, err := b.WriteAt(p, b.pos)
	b.pos += int64(n)

	return n, err
}

// ReadAt copies len(p) bytes from off into p. A short read returns io.EOF.
func (b *SharedBuffer) ReadAt(p []byte, off int64) (int, error) {
	if err := checkOffset(off); err != nil {
		return 0, err
	}
	n := CopyOut(p, b.buf.Bytes(), &off)
	if n < len(p) {
		return n, io.EOF
	}

	return n, nil
}

// WriteAt copies p to off, growing a growable buffer as needed. Growth past
// MaxBufferSize fails with errs.ErrBufferTooLarge and writes nothing.
func (b *SharedBuffer) WriteAt(p []byte, off int64) (int, error) {
	if err := checkOffset(off); err != nil {
		return 0, err
	}

	// end wraps negative when off+len(p) passes math.MaxInt64.
	end := off + int64(len(p))
	if !b.fixed && (end < 0 || end > int64(b.buf.Len())) {
		if err := b.resize(end); err != nil {
			return 0, err
		}
	}
	n := CopyIn(b.buf.Bytes(), p, &off)
	if n < len(p) {
		return n, io.ErrShortWrite
	}

	return n, nil
}

// Seek moves the cursor. Seeking past the end is allowed; a later write extends
// a growable buffer.
func (b *SharedBuffer) Seek(offset int64, whence int) (int64, error) {
	if err := checkWhence(whence); err != nil {
		return 0, err
	}

	var base int64
	switch whence {
	case io.SeekCurrent:
		base = b.pos
	case io.SeekEnd:
		base = int64(b.buf.Len())
	}
	pos := base + offset
	if pos < 0 {
		return 0, fmt.Errorf("%w: seek to %d", errs.ErrNegativeOffset, pos)
	}
	b.pos = pos

	return pos, nil
}

// Truncate changes the buffer size. Fixed buffers cannot change size.
func (b *SharedBuffer) Truncate(size int64) error {
	if size < 0 {
		return fmt.Errorf("%w: truncate to %d", errs.ErrNegativeOffset, size)
	}
	if b.fixed {
		return unsupported("truncate fixed buffer")
	}

	return b.resize(size)
}

// resize sets the buffer length to size, zero-filling any new bytes.
func (b *SharedBuffer) resize(size int64) error {
	if size < 0 || size > MaxBufferSize {
		return fmt.Errorf("%w: %d bytes requested, limit %d", errs.ErrBufferTooLarge, size, MaxBufferSize)
	}

	n := int(size)
	old := b.buf.Len()
	b.buf.Reserve(n)
	b.buf.SetLength(n)
	if n > old {
		clear(b.buf.B[old:n])
	}

	return nil
}

// NewMemoryStream returns a ByteStream backed by b.
//
// Cancel makes later operations fail with errs.ErrCancelled. Close leaves b intact
// so the owner can read what was written.
func NewMemoryStream(b *SharedBuffer) *Custom[*SharedBuffer] {
	var cancelled atomic.Bool
	guard := func() error {
		if cancelled.Load() {
			return errs.ErrCancelled
		}
		return nil
	}

	s, _ := NewCustom(b,
		WithRead(func(b *SharedBuffer, p []byte) (int, error) {
			if err := guard(); err != nil {
				return 0, err
			}
			return b.Read(p)
		}),
		WithWrite(func(b *SharedBuffer, p []byte) (int, error) {
			if err := guard(); err != nil {
				return 0, err
			}
			return b.Write(p)
		}),
		WithReadAt(func(b *SharedBuffer, p []byte, off int64) (int, error) {
			if err := guard(); err != nil {
				return 0, err
			}
			return b.ReadAt(p, off)
		}),
		WithWriteAt(func(b *SharedBuffer, p []byte, off int64) (int, error) {
			if err := guard(); err != nil {
				return 0, err
			}
			return b.WriteAt(p, off)
		}),
		WithSeek(func(b *SharedBuffer, offset int64, whence int) (int64, error) {
			if err := guard(); err != nil {
				return 0, err
			}
			return b.Seek(offset, whence)
		}),
		WithTruncate(func(b *SharedBuffer, size int64) error {
			if err := guard(); err != nil {
				return err
			}
			return b.Truncate(size)
		}),
		WithCancel(func(*SharedBuffer) { cancelled.Store(true) }),
	)

	return s
}
