package archive

import (
	"errors"
	"fmt"
	"io"
	"math"
	"slices"

	"go.uber.org/zap"

	"github.com/arloliu/aarchive/endian"
	"github.com/arloliu/aarchive/errs"
	"github.com/arloliu/aarchive/field"
	"github.com/arloliu/aarchive/header"
	"github.com/arloliu/aarchive/pcompress"
	"github.com/arloliu/aarchive/stream"
)

// Decoder reads archive entries from a stream.
type Decoder struct {
	in     stream.ByteStream
	cfg    *config
	logger *zap.SugaredLogger

	hdr   *header.Header
	buf   []byte
	blobs []field.Descriptor // Blob fields of the current header
	next  int                // index into blobs of the next unread payload
	open  *blobReader        // payload handed out by OpenBlob, possibly unread

	entries int
	err     error
}

// NewDecoder creates a Decoder reading from in. The Decoder owns in and closes it on
// Close. With WithCompression, in must hold a block frame; the frame header is read
// immediately.
func NewDecoder(in stream.ByteStream, opts ...Option) (*Decoder, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	if cfg.compressed() {
		r, err := pcompress.NewReader(in, pcompress.WithLogger(cfg.logger))
		if err != nil {
			return nil, err
		}
		if algo := r.Context().Algorithm(); algo != cfg.compression {
			cfg.logger.Sugar().Debugw("frame algorithm differs from option", "frame", algo.String(), "option", cfg.compression.String())
		}
		in = r
	}

	return &Decoder{
		in:     in,
		cfg:    cfg,
		logger: cfg.logger.Sugar(),
		hdr:    header.New(),
		buf:    make([]byte, 0, header.PrologueSize),
	}, nil
}

// Entries returns the number of headers read.
func (d *Decoder) Entries() int {
	return d.entries
}

// Header returns the current header, or nil before the first call to Next.
func (d *Decoder) Header() *header.Header {
	if d.entries == 0 {
		return nil
	}

	return d.hdr
}

// Next skips any unread payloads of the current entry and reads the next header.
//
// The returned Header is reused by the next call; Clone it to keep it.
//
// Returns:
//   - *header.Header: The decoded header
//   - error: io.EOF at the clean end of the archive, io.ErrUnexpectedEOF when the
//     archive ends inside an entry, or a header decoding error
func (d *Decoder) Next() (*header.Header, error) {
	if d.err != nil {
		return nil, d.err
	}

	h, err := d.readHeader()
	if err != nil {
		d.err = err
		return nil, err
	}

	return h, nil
}

func (d *Decoder) readHeader() (*header.Header, error) {
	if err := d.skipPayloads(); err != nil {
		return nil, err
	}

	d.buf = d.buf[:header.PrologueSize]
	if _, err := io.ReadFull(d.in, d.buf); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read header %d: %w", d.entries, err)
	}

	magic := string(d.buf[:header.MagicSize])
	if magic != header.Magic && magic != header.LegacyMagic {
		return nil, fmt.Errorf("%w: entry %d starts with %q", errs.ErrInvalidMagic, d.entries, magic)
	}
	size := int(endian.Wire().Uint16(d.buf[header.MagicSize:header.PrologueSize]))
	if size < header.PrologueSize {
		return nil, fmt.Errorf("%w: entry %d declares %d bytes", errs.ErrSizeMismatch, d.entries, size)
	}

	d.buf = slices.Grow(d.buf, size-header.PrologueSize)[:size]
	if _, err := io.ReadFull(d.in, d.buf[header.PrologueSize:]); err != nil {
		return nil, fmt.Errorf("read header %d: %w", d.entries, unexpected(err))
	}

	if err := d.hdr.Decode(d.buf); err != nil {
		return nil, fmt.Errorf("decode header %d: %w", d.entries, err)
	}

	if d.cfg.validatePaths {
		if p, ok := d.hdr.LookupString(field.KeyPAT); ok && !ValidPath(p) {
			return nil, fmt.Errorf("%w: entry %d path %q", errs.ErrInvalidPath, d.entries, p)
		}
	}

	d.blobs = slices.AppendSeq(d.blobs[:0], d.hdr.Blobs())
	d.next = 0
	d.entries++

	return d.hdr, nil
}

// skipPayloads discards the current entry's unread payload bytes.
func (d *Decoder) skipPayloads() error {
	if err := d.drainOpen(); err != nil {
		return err
	}

	var skip uint64
	for _, b := range d.blobs[d.next:] {
		skip += b.PayloadSize()
	}
	d.next = len(d.blobs)

	return discard(d.in, skip)
}

func (d *Decoder) drainOpen() error {
	if d.open == nil {
		return nil
	}
	open := d.open
	d.open = nil

	return discard(open, open.n)
}

// OpenBlob returns a reader over the payload of the Blob field key. Payloads of
// Blob fields before key are skipped.
//
// The reader is valid until the next call to OpenBlob, ReadBlob or Next.
//
// Returns:
//   - io.Reader: The payload, exactly the declared size
//   - uint64: The declared payload size
//   - error: errs.ErrNoHeader before the first header, errs.ErrBlobMismatch if key is
//     not a remaining Blob field of the current header
func (d *Decoder) OpenBlob(key field.Key) (io.Reader, uint64, error) {
	if d.err != nil {
		return nil, 0, d.err
	}
	if d.entries == 0 {
		return nil, 0, errs.ErrNoHeader
	}

	idx := -1
	for i, b := range d.blobs[d.next:] {
		if b.Key == key {
			idx = d.next + i
			break
		}
	}
	if idx < 0 {
		return nil, 0, fmt.Errorf("%w: no unread blob %s in entry %d", errs.ErrBlobMismatch, key, d.entries-1)
	}

	if err := d.drainOpen(); err != nil {
		d.err = err
		return nil, 0, err
	}
	var skip uint64
	for _, b := range d.blobs[d.next:idx] {
		skip += b.PayloadSize()
	}
	if err := discard(d.in, skip); err != nil {
		d.err = err
		return nil, 0, err
	}

	size := d.blobs[idx].PayloadSize()
	d.next = idx + 1
	d.open = &blobReader{r: d.in, n: size}

	return d.open, size, nil
}

// ReadBlob reads the payload of the Blob field key into memory. Payloads of Blob
// fields before key are skipped.
func (d *Decoder) ReadBlob(key field.Key) ([]byte, error) {
	r, size, err := d.OpenBlob(key)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if uint64(len(data)) != size {
		d.err = fmt.Errorf("read blob %s: %w", key, io.ErrUnexpectedEOF)
		return nil, d.err
	}

	return data, nil
}

// Close closes the underlying stream.
func (d *Decoder) Close() error {
	d.logger.Debugw("archive reader closed", "entries", d.entries)
	d.hdr.Release()

	return d.in.Close()
}

// blobReader reads at most n bytes from r. A payload cut short by the end of the
// stream is reported as io.ErrUnexpectedEOF. n covers the full uint64 range of
// blob sizes.
type blobReader struct {
	r io.Reader
	n uint64
}

func (b *blobReader) Read(p []byte) (int, error) {
	if b.n == 0 {
		return 0, io.EOF
	}
	if uint64(len(p)) > b.n {
		p = p[:b.n]
	}

	n, err := b.r.Read(p)
	b.n -= uint64(n)
	if errors.Is(err, io.EOF) && b.n > 0 {
		return n, io.ErrUnexpectedEOF
	}

	return n, err
}

// discard reads and drops n bytes from r, in steps io.CopyN can express.
func discard(r io.Reader, n uint64) error {
	var done uint64
	for done < n {
		step := min(n-done, math.MaxInt64)
		copied, err := io.CopyN(io.Discard, r, int64(step))
		done += uint64(copied)
		if err != nil {
			return fmt.Errorf("skip %d payload bytes after %d: %w", n, done, unexpected(err))
		}
	}

	return nil
}

func unexpected(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}

	return err
}
