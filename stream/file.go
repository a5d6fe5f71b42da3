//go:build unix

package stream

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"golang.org/x/sys/unix"

	"github.com/arloliu/aarchive/errs"
)

// FileStream is a ByteStream over a raw file descriptor. Every operation maps to
// the matching system call; EINTR is retried.
type FileStream struct {
	fd        int
	autoClose bool
	cancelled atomic.Bool
	closed    atomic.Bool
}

var _ ByteStream = (*FileStream)(nil)

// OpenFD creates a FileStream over an open descriptor.
//
// Parameters:
//   - fd: Open file descriptor; a negative value is tolerated and fails on use
//   - autoClose: Close the descriptor when the stream is closed
func OpenFD(fd int, autoClose bool) *FileStream {
	return &FileStream{fd: fd, autoClose: autoClose}
}

// OpenPath opens path with open(2) and returns a FileStream that owns the descriptor.
//
// Parameters:
//   - path: File to open
//   - flags: open(2) flags such as unix.O_RDONLY or unix.O_CREAT|unix.O_WRONLY
//   - mode: Creation mode
func OpenPath(path string, flags int, mode uint32) (*FileStream, error) {
	var fd int
	err := retry(func() (err error) {
		fd, err = unix.Open(path, flags|unix.O_CLOEXEC, mode)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	return OpenFD(fd, true), nil
}

// Fd returns the underlying descriptor.
func (s *FileStream) Fd() int {
	return s.fd
}

func (s *FileStream) check() error {
	if s.closed.Load() {
		return errs.ErrClosed
	}
	if s.cancelled.Load() {
		return errs.ErrCancelled
	}

	return nil
}

// Read reads up to len(p) bytes at the current position.
// It returns io.EOF when the descriptor reports end of file.
func (s *FileStream) Read(p []byte) (int, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}

	var n int
	err := retry(func() (err error) {
		n, err = unix.Read(s.fd, p)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("read: %w", err)
	}
	if n == 0 {
		return 0, io.EOF
	}

	return n, nil
}

// Write writes all of p at the current position.
func (s *FileStream) Write(p []byte) (int, error) {
	if err := s.check(); err != nil {
		return 0, err
	}

	total := 0
	for len(p) > 0 {
		var n int
		err := retry(func() (err error) {
			n, err = unix.Write(s.fd, p)
			return err
		})
		total += n
		if err != nil {
			return total, fmt.Errorf("write: %w", err)
		}
		if n == 0 {
			return total, io.ErrShortWrite
		}
		p = p[n:]
	}

	return total, nil
}

// ReadAt reads len(p) bytes at off without moving the stream position.
// A short read returns io.EOF.
func (s *FileStream) ReadAt(p []byte, off int64) (int, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	if err := checkOffset(off); err != nil {
		return 0, err
	}

	total := 0
	for len(p) > 0 {
		var n int
		err := retry(func() (err error) {
			n, err = unix.Pread(s.fd, p, off)
			return err
		})
		total += n
		if err != nil {
			return total, fmt.Errorf("pread at offset %d: %w", off, err)
		}
		if n == 0 {
			return total, io.EOF
		}
		p = p[n:]
		off += int64(n)
	}

	return total, nil
}

// WriteAt writes all of p at off without moving the stream position.
func (s *FileStream) WriteAt(p []byte, off int64) (int, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	if err := checkOffset(off); err != nil {
		return 0, err
	}

	total := 0
	for len(p) > 0 {
		var n int
		err := retry(func() (err error) {
			n, err = unix.Pwrite(s.fd, p, off)
			return err
		})
		total += n
		if err != nil {
			return total, fmt.Errorf("pwrite at offset %d: %w", off, err)
		}
		if n == 0 {
			return total, io.ErrShortWrite
		}
		p = p[n:]
		off += int64(n)
	}

	return total, nil
}

// Seek sets the stream position and returns it relative to the start of the file.
func (s *FileStream) Seek(offset int64, whence int) (int64, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	if err := checkWhence(whence); err != nil {
		return 0, err
	}

	pos, err := unix.Seek(s.fd, offset, whence)
	if err != nil {
		return 0, fmt.Errorf("seek: %w", err)
	}

	return pos, nil
}

// Truncate changes the file size.
func (s *FileStream) Truncate(size int64) error {
	if err := s.check(); err != nil {
		return err
	}

	err := retry(func() error { return unix.Ftruncate(s.fd, size) })
	if err != nil {
		return fmt.Errorf("truncate to %d bytes: %w", size, err)
	}

	return nil
}

// Cancel flags the stream. It is safe to call from any goroutine.
func (s *FileStream) Cancel() {
	s.cancelled.Store(true)
}

// Close closes the descriptor if the stream owns it. It succeeds on a cancelled
// stream, and an already invalid descriptor is not an error.
func (s *FileStream) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	if !s.autoClose || s.fd < 0 {
		return nil
	}

	err := unix.Close(s.fd)
	if err != nil && !errors.Is(err, unix.EBADF) {
		return fmt.Errorf("close: %w", err)
	}

	return nil
}

// retry runs fn until it returns something other than EINTR.
func retry(fn func() error) error {
	for {
		err := fn()
		if !errors.Is(err, unix.EINTR) {
			return err
		}
	}
}
