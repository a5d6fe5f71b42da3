// Package stream provides ByteStream, the I/O handle archive headers and payloads
// are read from and written to.
//
// A ByteStream exposes sequential and positioned reads and writes, seeking,
// truncation, cancellation and close. Backends implement only the operations they
// can serve; the rest fail with errs.ErrUnsupported rather than panicking.
//
// Three backends are provided:
//
//   - FileStream wraps a raw file descriptor (unix only).
//   - Custom dispatches every operation to caller-supplied functions over an
//     opaque context value.
//   - SharedBuffer adapts an in-memory byte region, see NewMemoryStream.
//
// # Cancellation
//
// Cancel only flags the stream; it may be called from another goroutine while an
// operation is in progress. Operations started after Cancel fail with
// errs.ErrCancelled. A cancelled stream must still be closed.
//
// # Close
//
// Close releases the backend once. Further calls to Close return nil and every
// other operation fails with errs.ErrClosed.
package stream
