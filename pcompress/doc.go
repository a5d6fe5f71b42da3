// Package pcompress implements a block-compressed byte stream.
//
// A writer splits its input into fixed-size blocks, compresses up to N blocks
// concurrently and writes them in order. A reader decodes the blocks sequentially.
// Both are exposed as stream.ByteStream values so they can be chained in front of
// any other stream.
//
// # Frame Layout
//
//	+-------+------+-----------------+
//	| "PBZ" | algo | block size (u64)|   frame header, 12 bytes
//	+-------+------+-----------------+
//	| raw size (u64) | stored size (u64) | stored bytes |   repeated per block
//	+----------------+-------------------+--------------+
//	| raw size = 0 (u64) |                                   trailer
//	+--------------------+
//
// Integers are little-endian. A block whose stored size equals its raw size is
// kept uncompressed. The algorithm byte is a format.CompressionType.
//
// # Usage
//
//	w, err := pcompress.NewWriter(out, format.CompressionZstd, pcompress.WithThreads(4))
//	if err != nil {
//	    return err
//	}
//	if _, err := w.Write(data); err != nil {
//	    return err
//	}
//	err = w.Close() // flushes, writes the trailer and closes out
//
// # Thread Safety
//
// Writer and Reader streams are owned by a single goroutine. Cancel may be called
// from any goroutine.
package pcompress
