package stream

import (
	"fmt"
	"sync/atomic"

	"github.com/arloliu/aarchive/errs"
	"github.com/arloliu/aarchive/internal/options"
)

// Custom is a ByteStream that dispatches each operation to a caller-supplied
// function, passing ctx as the first argument.
//
// Operations whose function was not configured fail with errs.ErrUnsupported.
// Functions are fixed at construction.
type Custom[T any] struct {
	ctx T

	read     func(T, []byte) (int, error)
	write    func(T, []byte) (int, error)
	readAt   func(T, []byte, int64) (int, error)
	writeAt  func(T, []byte, int64) (int, error)
	seek     func(T, int64, int) (int64, error)
	cancel   func(T)
	truncate func(T, int64) error
	close    func(T) error

	set    slot // operations configured so far, nil functions included
	closed atomic.Bool
}

// slot is a bit set of Custom operations.
type slot uint8

const (
	slotRead slot = 1 << iota
	slotWrite
	slotReadAt
	slotWriteAt
	slotSeek
	slotCancel
	slotTruncate
	slotClose
)

var _ ByteStream = (*Custom[any])(nil)

// CustomOption configures a Custom stream.
type CustomOption[T any] = options.Option[*Custom[T]]

// NewCustom creates a Custom stream over ctx.
//
// Parameters:
//   - ctx: Opaque context passed to every operation
//   - opts: Operation functions (WithRead, WithWrite, ...)
//
// Returns:
//   - *Custom[T]: The configured stream
//   - error: ErrSlotAlreadySet if an operation is configured twice
func NewCustom[T any](ctx T, opts ...CustomOption[T]) (*Custom[T], error) {
	s := &Custom[T]{ctx: ctx}
	if err := options.Apply(s, opts...); err != nil {
		return nil, err
	}

	return s, nil
}

// Context returns the stream's context value.
func (s *Custom[T]) Context() T {
	return s.ctx
}

// setSlot assigns fn to *dst once. A second assignment fails even when the first
// fn was nil.
func setSlot[F any](set *slot, bit slot, dst *F, fn F, name string) error {
	if *set&bit != 0 {
		return fmt.Errorf("%w: %s", errs.ErrSlotAlreadySet, name)
	}
	*set |= bit
	*dst = fn

	return nil
}

// WithRead sets the sequential read operation.
func WithRead[T any](fn func(ctx T, p []byte) (int, error)) CustomOption[T] {
	return options.New(func(s *Custom[T]) error {
		return setSlot(&s.set, slotRead, &s.read, fn, "read")
	})
}

// WithWrite sets the sequential write operation.
func WithWrite[T any](fn func(ctx T, p []byte) (int, error)) CustomOption[T] {
	return options.New(func(s *Custom[T]) error {
		return setSlot(&s.set, slotWrite, &s.write, fn, "write")
	})
}

// WithReadAt sets the positioned read operation.
func WithReadAt[T any](fn func(ctx T, p []byte, off int64) (int, error)) CustomOption[T] {
	return options.New(func(s *Custom[T]) error {
		return setSlot(&s.set, slotReadAt, &s.readAt, fn, "readAt")
	})
}

// WithWriteAt sets the positioned write operation.
func WithWriteAt[T any](fn func(ctx T, p []byte, off int64) (int, error)) CustomOption[T] {
	return options.New(func(s *Custom[T]) error {
		return setSlot(&s.set, slotWriteAt, &s.writeAt, fn, "writeAt")
	})
}

// WithSeek sets the seek operation. The whence value is validated before fn is called.
func WithSeek[T any](fn func(ctx T, offset int64, whence int) (int64, error)) CustomOption[T] {
	return options.New(func(s *Custom[T]) error {
		return setSlot(&s.set, slotSeek, &s.seek, fn, "seek")
	})
}

// WithCancel sets the cancel operation.
func WithCancel[T any](fn func(ctx T)) CustomOption[T] {
	return options.New(func(s *Custom[T]) error {
		return setSlot(&s.set, slotCancel, &s.cancel, fn, "cancel")
	})
}

// WithTruncate sets the truncate operation.
func WithTruncate[T any](fn func(ctx T, size int64) error) CustomOption[T] {
	return options.New(func(s *Custom[T]) error {
		return setSlot(&s.set, slotTruncate, &s.truncate, fn, "truncate")
	})
}

// WithClose sets the close operation, called at most once.
func WithClose[T any](fn func(ctx T) error) CustomOption[T] {
	return options.New(func(s *Custom[T]) error {
		return setSlot(&s.set, slotClose, &s.close, fn, "close")
	})
}

// Read calls the configured read operation.
func (s *Custom[T]) Read(p []byte) (int, error) {
	if s.closed.Load() {
		return 0, errs.ErrClosed
	}
	if s.read == nil {
		return 0, unsupported("read")
	}

	return s.read(s.ctx, p)
}

// Write calls the configured write operation.
func (s *Custom[T]) Write(p []byte) (int, error) {
	if s.closed.Load() {
		return 0, errs.ErrClosed
	}
	if s.write == nil {
		return 0, unsupported("write")
	}

	return s.write(s.ctx, p)
}

// ReadAt calls the configured positioned read operation.
func (s *Custom[T]) ReadAt(p []byte, off int64) (int, error) {
	if s.closed.Load() {
		return 0, errs.ErrClosed
	}
	if s.readAt == nil {
		return 0, unsupported("readAt")
	}
	if err := checkOffset(off); err != nil {
		return 0, err
	}

	return s.readAt(s.ctx, p, off)
}

// WriteAt calls the configured positioned write operation.
func (s *Custom[T]) WriteAt(p []byte, off int64) (int, error) {
	if s.closed.Load() {
		return 0, errs.ErrClosed
	}
	if s.writeAt == nil {
		return 0, unsupported("writeAt")
	}
	if err := checkOffset(off); err != nil {
		return 0, err
	}

	return s.writeAt(s.ctx, p, off)
}

// Seek calls the configured seek operation.
func (s *Custom[T]) Seek(offset int64, whence int) (int64, error) {
	if s.closed.Load() {
		return 0, errs.ErrClosed
	}
	if s.seek == nil {
		return 0, unsupported("seek")
	}
	if err := checkWhence(whence); err != nil {
		return 0, err
	}

	return s.seek(s.ctx, offset, whence)
}

// Truncate calls the configured truncate operation.
func (s *Custom[T]) Truncate(size int64) error {
	if s.closed.Load() {
		return errs.ErrClosed
	}
	if s.truncate == nil {
		return unsupported("truncate")
	}

	return s.truncate(s.ctx, size)
}

// Cancel calls the configured cancel operation; without one it does nothing.
func (s *Custom[T]) Cancel() {
	if s.cancel == nil || s.closed.Load() {
		return
	}
	s.cancel(s.ctx)
}

// Close calls the configured close operation once. Without one it only marks the
// stream closed.
func (s *Custom[T]) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	if s.close == nil {
		return nil
	}

	return s.close(s.ctx)
}
