package archive

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/arloliu/aarchive/errs"
	"github.com/arloliu/aarchive/field"
	"github.com/arloliu/aarchive/header"
	"github.com/arloliu/aarchive/internal/collision"
	"github.com/arloliu/aarchive/pcompress"
	"github.com/arloliu/aarchive/stream"
)

// Encoder writes archive entries to a stream.
type Encoder struct {
	out    stream.ByteStream
	cfg    *config
	logger *zap.SugaredLogger
	paths  *collision.Tracker

	blobs   []field.Descriptor // Blob fields of the current header
	next    int                // index into blobs of the next payload to write
	entries int
	bytes   uint64
	closed  bool
}

// NewEncoder creates an Encoder writing to out. The Encoder owns out and closes it
// on Close.
//
// Parameters:
//   - out: Destination stream
//   - opts: WithCompression, WithThreads, WithBlockSize, WithLogger, WithPathValidation,
//     WithUniquePaths
//
// Returns:
//   - *Encoder: The encoder
//   - error: Invalid options or a failure starting the compressed frame
func NewEncoder(out stream.ByteStream, opts ...Option) (*Encoder, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	if cfg.compressed() {
		w, err := pcompress.NewWriter(out, cfg.compression, cfg.pcompressOptions()...)
		if err != nil {
			return nil, err
		}
		out = w
	}

	return &Encoder{
		out:    out,
		cfg:    cfg,
		logger: cfg.logger.Sugar(),
		paths:  collision.NewTracker(),
	}, nil
}

// Entries returns the number of headers written.
func (e *Encoder) Entries() int {
	return e.entries
}

// WriteHeader writes h and starts a new entry. The payloads of h's Blob fields must
// then be written with WriteBlob, in field order, before the next header.
func (e *Encoder) WriteHeader(h *header.Header) error {
	if e.closed {
		return errs.ErrClosed
	}
	if e.next < len(e.blobs) {
		return fmt.Errorf("%w: %d of %d blobs written for entry %d", errs.ErrPendingBlobs, e.next, len(e.blobs), e.entries)
	}
	if h.EncodedSize() == 0 {
		return fmt.Errorf("%w: empty header", errs.ErrSizeMismatch)
	}
	if err := e.checkPath(h); err != nil {
		return err
	}

	if _, err := h.WriteTo(e.out); err != nil {
		return fmt.Errorf("write header %d: %w", e.entries, err)
	}

	e.blobs = slices.AppendSeq(e.blobs[:0], h.Blobs())
	e.next = 0
	e.entries++
	e.bytes += uint64(h.EncodedSize())

	return nil
}

func (e *Encoder) checkPath(h *header.Header) error {
	p, ok := h.LookupString(field.KeyPAT)
	if !ok {
		return nil
	}
	if e.cfg.validatePaths && !ValidPath(p) {
		return fmt.Errorf("%w: %q", errs.ErrInvalidPath, p)
	}
	if p == "" {
		return nil
	}

	if err := e.paths.Track(p); err != nil {
		if e.cfg.uniquePaths || !errors.Is(err, errs.ErrDuplicatePath) {
			return err
		}
		e.logger.Warnw("duplicate entry path", "path", p, "entry", e.entries)
	}

	return nil
}

// WriteBlob writes the payload of the next Blob field of the current header.
//
// Returns:
//   - error: errs.ErrBlobMismatch if key is not the next Blob field or len(data)
//     differs from its declared size
func (e *Encoder) WriteBlob(key field.Key, data []byte) error {
	if e.closed {
		return errs.ErrClosed
	}
	if e.next >= len(e.blobs) {
		return fmt.Errorf("%w: no blob pending for %s", errs.ErrBlobMismatch, key)
	}

	d := e.blobs[e.next]
	if d.Key != key {
		return fmt.Errorf("%w: got %s, next blob is %s", errs.ErrBlobMismatch, key, d.Key)
	}
	if uint64(len(data)) != d.PayloadSize() {
		return fmt.Errorf("%w: %s has %d bytes, header declares %d", errs.ErrBlobMismatch, key, len(data), d.PayloadSize())
	}

	if _, err := e.out.Write(data); err != nil {
		return fmt.Errorf("write blob %s: %w", key, err)
	}
	e.next++
	e.bytes += uint64(len(data))

	return nil
}

// WriteEntry writes h followed by one payload per Blob field, in field order.
func (e *Encoder) WriteEntry(h *header.Header, blobs ...[]byte) error {
	var want int
	for range h.Blobs() {
		want++
	}
	if len(blobs) != want {
		return fmt.Errorf("%w: %d payloads for %d blob fields", errs.ErrBlobMismatch, len(blobs), want)
	}

	if err := e.WriteHeader(h); err != nil {
		return err
	}
	for i, data := range blobs {
		if err := e.WriteBlob(e.blobs[i].Key, data); err != nil {
			return err
		}
	}

	return nil
}

// Cancel cancels the underlying stream.
func (e *Encoder) Cancel() {
	e.out.Cancel()
}

// Close finishes the archive and closes the underlying stream.
//
// Returns:
//   - error: errs.ErrPendingBlobs if the last entry is missing payloads, joined with
//     any error closing the stream
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	var err error
	if e.next < len(e.blobs) {
		err = fmt.Errorf("%w: %d of %d blobs written for entry %d", errs.ErrPendingBlobs, e.next, len(e.blobs), e.entries-1)
	}

	e.logger.Debugw("archive closed",
		"entries", e.entries,
		"bytes", e.bytes,
		"path_id_collision", e.paths.HasCollision(),
	)

	return errors.Join(err, e.out.Close())
}
