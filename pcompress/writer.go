package pcompress

import (
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/arloliu/aarchive/compress"
	"github.com/arloliu/aarchive/errs"
	"github.com/arloliu/aarchive/format"
	"github.com/arloliu/aarchive/internal/pool"
	"github.com/arloliu/aarchive/stream"
)

// Writer compresses a byte stream into a block frame.
type Writer struct {
	out   stream.ByteStream
	codec compress.Codec
	cfg   *config

	cur     *pool.ByteBuffer
	pending []*pool.ByteBuffer
	packed  []*pool.ByteBuffer
	scratch []byte
	stats   compress.Stats
	err     error

	cancelled atomic.Bool
}

// NewWriter creates a compressing stream that writes a frame to out.
//
// The frame header is written immediately. Close flushes buffered blocks, writes the
// trailer and closes out.
//
// Parameters:
//   - out: Destination stream
//   - algo: Block compression algorithm
//   - opts: WithThreads, WithBlockSize, WithLogger
//
// Returns:
//   - *stream.Custom[*Writer]: Write-only stream (Write, Cancel, Close)
//   - error: Invalid options, unknown algorithm or a failure writing the frame header
func NewWriter(out stream.ByteStream, algo format.CompressionType, opts ...Option) (*stream.Custom[*Writer], error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	codec, err := compress.NewCodec(algo)
	if err != nil {
		return nil, err
	}

	w := &Writer{
		out:     out,
		codec:   codec,
		cfg:     cfg,
		pending: make([]*pool.ByteBuffer, 0, cfg.threads),
		packed:  make([]*pool.ByteBuffer, cfg.threads),
		stats:   compress.Stats{Algorithm: algo},
	}

	if _, err := out.Write(appendFrameHeader(nil, algo, cfg.blockSize)); err != nil {
		return nil, fmt.Errorf("pcompress: write frame header: %w", err)
	}

	return stream.NewCustom(w,
		stream.WithWrite((*Writer).Write),
		stream.WithCancel((*Writer).Cancel),
		stream.WithClose((*Writer).Close),
	)
}

// Stats returns the totals of the blocks written so far.
func (w *Writer) Stats() compress.Stats {
	return w.stats
}

// Write buffers p, compressing and writing full groups of blocks as they fill.
func (w *Writer) Write(p []byte) (int, error) {
	if w.cancelled.Load() {
		return 0, errs.ErrCancelled
	}
	if w.err != nil {
		return 0, w.err
	}

	written := 0
	for len(p) > 0 {
		if w.cur == nil {
			w.cur = pool.GetBlockBuffer()
			w.cur.Reserve(w.cfg.blockSize)
		}

		n := min(w.cfg.blockSize-w.cur.Len(), len(p))
		w.cur.MustWrite(p[:n])
		p = p[n:]
		written += n

		if w.cur.Len() == w.cfg.blockSize {
			w.pending = append(w.pending, w.cur)
			w.cur = nil
			if len(w.pending) == w.cfg.threads {
				if err := w.flush(); err != nil {
					return written, err
				}
			}
		}
	}

	return written, nil
}

// flush compresses the pending blocks concurrently and writes them in order.
func (w *Writer) flush() error {
	if len(w.pending) == 0 {
		return nil
	}

	var g errgroup.Group
	g.SetLimit(w.cfg.threads)
	for i, raw := range w.pending {
		g.Go(func() error {
			dst := pool.GetBlockBuffer()
			out, err := w.codec.Compress(dst.B[:0], raw.Bytes())
			dst.B = out
			w.packed[i] = dst
			if err != nil {
				return fmt.Errorf("pcompress: compress block: %w", err)
			}

			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = w.writeBlocks()
	}
	w.releaseBlocks()
	if err != nil {
		w.err = err
	}

	return err
}

// writeBlocks writes pending blocks in order, keeping a block uncompressed when
// compression did not make it smaller.
func (w *Writer) writeBlocks() error {
	for i, raw := range w.pending {
		data := w.packed[i].Bytes()
		if len(data) == 0 || len(data) >= raw.Len() {
			data = raw.Bytes()
		}

		w.scratch = appendBlockHeader(w.scratch[:0], raw.Len(), len(data))
		if _, err := w.out.Write(w.scratch); err != nil {
			return fmt.Errorf("pcompress: write block header: %w", err)
		}
		if _, err := w.out.Write(data); err != nil {
			return fmt.Errorf("pcompress: write block: %w", err)
		}
		w.stats.Add(raw.Len(), len(data))
	}

	return nil
}

func (w *Writer) releaseBlocks() {
	for i, raw := range w.pending {
		pool.PutBlockBuffer(raw)
		if w.packed[i] != nil {
			pool.PutBlockBuffer(w.packed[i])
			w.packed[i] = nil
		}
	}
	w.pending = w.pending[:0]
}

// Cancel makes later writes fail with errs.ErrCancelled and cancels the
// destination stream.
func (w *Writer) Cancel() {
	w.cancelled.Store(true)
	w.out.Cancel()
}

// Close flushes buffered data, writes the trailer and closes the destination.
// A cancelled or failed writer skips the trailer but still closes the destination.
func (w *Writer) Close() error {
	var err error
	if !w.cancelled.Load() && w.err == nil {
		err = w.finish()
	}

	if w.cur != nil {
		pool.PutBlockBuffer(w.cur)
		w.cur = nil
	}
	w.releaseBlocks()

	return errors.Join(err, w.out.Close())
}

func (w *Writer) finish() error {
	if w.cur != nil && w.cur.Len() > 0 {
		w.pending = append(w.pending, w.cur)
		w.cur = nil
	}
	if err := w.flush(); err != nil {
		return err
	}

	w.scratch = engine.AppendUint64(w.scratch[:0], 0)
	if _, err := w.out.Write(w.scratch); err != nil {
		return fmt.Errorf("pcompress: write trailer: %w", err)
	}

	w.cfg.logger.Debugw("block stream closed",
		"algorithm", w.stats.Algorithm.String(),
		"blocks", w.stats.Blocks,
		"stored_blocks", w.stats.StoredBlocks,
		"raw_bytes", w.stats.RawBytes,
		"stored_bytes", w.stats.StoredBytes,
		"ratio", w.stats.Ratio(),
	)

	return nil
}
