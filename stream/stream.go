package stream

import (
	"fmt"
	"io"

	"github.com/arloliu/aarchive/errs"
)

// ByteStream is a capability-polymorphic I/O handle.
//
// Read and Write move the stream position. ReadAt and WriteAt never do. Seek
// accepts io.SeekStart, io.SeekCurrent and io.SeekEnd.
type ByteStream interface {
	io.Reader
	io.Writer
	io.ReaderAt
	io.WriterAt
	io.Seeker
	io.Closer

	// Cancel flags the stream so that later operations fail with errs.ErrCancelled.
	Cancel()
	// Truncate changes the size of the underlying storage.
	Truncate(size int64) error
}

// checkWhence validates a Seek origin.
func checkWhence(whence int) error {
	switch whence {
	case io.SeekStart, io.SeekCurrent, io.SeekEnd:
		return nil
	default:
		return fmt.Errorf("%w: %d", errs.ErrInvalidWhence, whence)
	}
}

// checkOffset validates a positioned I/O offset.
func checkOffset(off int64) error {
	if off < 0 {
		return fmt.Errorf("%w: %d", errs.ErrNegativeOffset, off)
	}

	return nil
}

// unsupported builds the error returned for an absent operation.
func unsupported(op string) error {
	return fmt.Errorf("%w: %s", errs.ErrUnsupported, op)
}
