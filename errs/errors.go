// Package errs defines the sentinel errors shared by the aarchive packages.
//
// Errors are returned wrapped with context (fmt.Errorf("%w: ...")); match them with
// errors.Is.
package errs

import "errors"

// Header codec errors.
var (
	ErrInvalidMagic        = errors.New("invalid header magic")
	ErrSizeMismatch        = errors.New("header size mismatch")
	ErrTruncatedHeader     = errors.New("truncated header")
	ErrInvalidFieldSubtype = errors.New("invalid field subtype")
	ErrHeaderTooLarge      = errors.New("header exceeds 65535 bytes")
	ErrIndexOutOfRange     = errors.New("field index out of range")
	ErrInvalidFieldKey     = errors.New("invalid field key")
	ErrFieldTypeMismatch   = errors.New("field type mismatch")
	ErrStringTooLong       = errors.New("string field exceeds 65535 bytes")
	ErrInvalidHashSize     = errors.New("digest size does not match hash function")
	ErrInvalidHashFunction = errors.New("invalid hash function")
)

// Byte stream errors.
var (
	ErrUnsupported    = errors.New("operation not supported by stream")
	ErrCancelled      = errors.New("stream cancelled")
	ErrClosed         = errors.New("stream closed")
	ErrInvalidWhence  = errors.New("invalid seek whence")
	ErrSlotAlreadySet = errors.New("stream operation already set")
	ErrNegativeOffset = errors.New("negative stream offset")
	ErrBufferTooLarge = errors.New("memory buffer size limit exceeded")
)

// Archive stream and block compression errors.
var (
	ErrBlobMismatch       = errors.New("blob does not match header field")
	ErrPendingBlobs       = errors.New("header blobs not written")
	ErrNoHeader           = errors.New("no current header")
	ErrInvalidPath        = errors.New("invalid entry path")
	ErrDuplicatePath      = errors.New("duplicate entry path")
	ErrDigestMismatch     = errors.New("payload digest mismatch")
	ErrCorruptBlock       = errors.New("corrupt compressed block")
	ErrInvalidCompression = errors.New("invalid compression type")
	ErrInvalidBlockSize   = errors.New("invalid block size")
	ErrInvalidThreads     = errors.New("invalid thread count")
)
