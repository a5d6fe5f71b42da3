package archive

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/arloliu/aarchive/errs"
	"github.com/arloliu/aarchive/field"
	"github.com/arloliu/aarchive/format"
	"github.com/arloliu/aarchive/header"
	"github.com/arloliu/aarchive/stream"
)

type testEntry struct {
	path string
	dat  []byte
	xat  []byte
}

// newHeader builds an entry header with a DAT blob when dat is non-nil and an XAT
// blob when xat is non-nil.
func newHeader(t *testing.T, e testEntry) *header.Header {
	t.Helper()

	h := header.New()
	typ := format.EntryDirectory
	if e.dat != nil {
		typ = format.EntryRegular
	}
	require.NoError(t, h.AppendUInt(field.KeyTYP, uint64(typ)))
	require.NoError(t, h.AppendString(field.KeyPAT, e.path))
	require.NoError(t, h.AppendUInt(field.KeyMOD, 0o644))
	if e.dat != nil {
		require.NoError(t, h.AppendBlob(field.KeyDAT, uint64(len(e.dat))))
	}
	if e.xat != nil {
		require.NoError(t, h.AppendBlob(field.KeyXAT, uint64(len(e.xat))))
	}

	return h
}

func (e testEntry) payloads() [][]byte {
	var out [][]byte
	if e.dat != nil {
		out = append(out, e.dat)
	}
	if e.xat != nil {
		out = append(out, e.xat)
	}

	return out
}

var sampleEntries = []testEntry{
	{path: "."},
	{path: "docs"},
	{path: "docs/readme.txt", dat: bytes.Repeat([]byte("hello archive\n"), 300)},
	{path: "docs/empty", dat: []byte{}},
	{path: "bin/tool", dat: []byte{0x7f, 'E', 'L', 'F'}, xat: []byte("com.apple.quarantine")},
}

// encode writes entries and returns the archive bytes.
func encode(t *testing.T, entries []testEntry, opts ...Option) []byte {
	t.Helper()

	buf := stream.NewSharedBuffer(nil)
	enc, err := NewEncoder(stream.NewMemoryStream(buf), opts...)
	require.NoError(t, err)

	for _, e := range entries {
		require.NoError(t, enc.WriteEntry(newHeader(t, e), e.payloads()...))
	}
	require.Equal(t, len(entries), enc.Entries())
	require.NoError(t, enc.Close())

	return buf.Bytes()
}

func newDecoder(t *testing.T, data []byte, opts ...Option) *Decoder {
	t.Helper()

	dec, err := NewDecoder(stream.NewMemoryStream(stream.NewSharedBuffer(data)), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = dec.Close() })

	return dec
}

func TestRoundTrip(t *testing.T) {
	for _, ct := range []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		t.Run(ct.String(), func(t *testing.T) {
			opts := []Option{WithCompression(ct), WithThreads(2), WithBlockSize(512)}
			data := encode(t, sampleEntries, opts...)

			dec := newDecoder(t, data, opts...)
			for i, want := range sampleEntries {
				h, err := dec.Next()
				require.NoError(t, err, "entry %d", i)

				p, ok := h.LookupString(field.KeyPAT)
				require.True(t, ok)
				assert.Equal(t, want.path, p)

				if want.dat != nil {
					got, err := dec.ReadBlob(field.KeyDAT)
					require.NoError(t, err)
					assert.Equal(t, want.dat, got)
				}
				if want.xat != nil {
					got, err := dec.ReadBlob(field.KeyXAT)
					require.NoError(t, err)
					assert.Equal(t, want.xat, got)
				}
			}

			_, err := dec.Next()
			require.ErrorIs(t, err, io.EOF)
			assert.Equal(t, len(sampleEntries), dec.Entries())
		})
	}
}

func TestUncompressedLayout(t *testing.T) {
	e := testEntry{path: "a", dat: []byte("xyz")}
	data := encode(t, []testEntry{e})

	h := newHeader(t, e)
	require.Equal(t, append(bytes.Clone(h.Bytes()), "xyz"...), data)
}

func TestDecoder_SkipsUnreadPayloads(t *testing.T) {
	data := encode(t, sampleEntries)

	t.Run("WholeEntries", func(t *testing.T) {
		dec := newDecoder(t, data)
		var paths []string
		for {
			h, err := dec.Next()
			if err == io.EOF {
				break
			}
			require.NoError(t, err)
			p, _ := h.LookupString(field.KeyPAT)
			paths = append(paths, p)
		}
		assert.Equal(t, []string{".", "docs", "docs/readme.txt", "docs/empty", "bin/tool"}, paths)
	})

	t.Run("SkipToLaterBlob", func(t *testing.T) {
		dec := newDecoder(t, data)
		for range 5 {
			_, err := dec.Next()
			require.NoError(t, err)
		}

		xat, err := dec.ReadBlob(field.KeyXAT)
		require.NoError(t, err)
		assert.Equal(t, []byte("com.apple.quarantine"), xat)

		_, err = dec.ReadBlob(field.KeyDAT)
		require.ErrorIs(t, err, errs.ErrBlobMismatch)
	})

	t.Run("PartiallyReadOpenBlob", func(t *testing.T) {
		dec := newDecoder(t, data)
		for range 3 {
			_, err := dec.Next()
			require.NoError(t, err)
		}

		r, size, err := dec.OpenBlob(field.KeyDAT)
		require.NoError(t, err)
		assert.Equal(t, uint64(len(sampleEntries[2].dat)), size)
		head := make([]byte, 5)
		_, err = io.ReadFull(r, head)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(head))

		h, err := dec.Next()
		require.NoError(t, err)
		p, _ := h.LookupString(field.KeyPAT)
		assert.Equal(t, "docs/empty", p)
	})
}

func TestDecoder_Errors(t *testing.T) {
	data := encode(t, sampleEntries[2:3])
	hdrSize := newHeader(t, sampleEntries[2]).EncodedSize()

	t.Run("EmptyArchive", func(t *testing.T) {
		dec := newDecoder(t, nil)
		_, err := dec.Next()
		require.ErrorIs(t, err, io.EOF)
	})

	t.Run("PartialPrologue", func(t *testing.T) {
		dec := newDecoder(t, data[:3])
		_, err := dec.Next()
		require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})

	t.Run("TruncatedHeader", func(t *testing.T) {
		dec := newDecoder(t, data[:hdrSize-1])
		_, err := dec.Next()
		require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})

	t.Run("TruncatedPayloadOnRead", func(t *testing.T) {
		dec := newDecoder(t, data[:hdrSize+10])
		_, err := dec.Next()
		require.NoError(t, err)
		_, err = dec.ReadBlob(field.KeyDAT)
		require.ErrorIs(t, err, io.ErrUnexpectedEOF)

		_, err = dec.Next()
		require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})

	t.Run("TruncatedPayloadOnSkip", func(t *testing.T) {
		dec := newDecoder(t, data[:hdrSize+10])
		_, err := dec.Next()
		require.NoError(t, err)
		_, err = dec.Next()
		require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})

	t.Run("InvalidMagic", func(t *testing.T) {
		bad := bytes.Clone(data)
		copy(bad, "ZZZZ")
		dec := newDecoder(t, bad)
		_, err := dec.Next()
		require.ErrorIs(t, err, errs.ErrInvalidMagic)
	})

	t.Run("LengthBelowPrologue", func(t *testing.T) {
		dec := newDecoder(t, []byte{'A', 'A', '0', '1', 0x02, 0x00})
		_, err := dec.Next()
		require.ErrorIs(t, err, errs.ErrSizeMismatch)
	})

	t.Run("BlobBeforeHeader", func(t *testing.T) {
		dec := newDecoder(t, data)
		_, err := dec.ReadBlob(field.KeyDAT)
		require.ErrorIs(t, err, errs.ErrNoHeader)
		assert.Nil(t, dec.Header())
	})

	t.Run("UnknownBlob", func(t *testing.T) {
		dec := newDecoder(t, data)
		_, err := dec.Next()
		require.NoError(t, err)
		_, err = dec.ReadBlob(field.KeyXAT)
		require.ErrorIs(t, err, errs.ErrBlobMismatch)
	})

	hugeEntry := func(t *testing.T, size uint64) []byte {
		t.Helper()
		h := header.New()
		require.NoError(t, h.AppendString(field.KeyPAT, "huge"))
		require.NoError(t, h.AppendBlob(field.KeyDAT, size))

		return append(bytes.Clone(h.Bytes()), "tail"...)
	}

	for _, size := range []uint64{1 << 63, 1<<64 - 1} {
		t.Run(fmt.Sprintf("HugeBlobOnSkip/%d", size), func(t *testing.T) {
			dec := newDecoder(t, hugeEntry(t, size))
			_, err := dec.Next()
			require.NoError(t, err)
			_, err = dec.Next()
			require.ErrorIs(t, err, io.ErrUnexpectedEOF)
		})

		t.Run(fmt.Sprintf("HugeBlobOnOpen/%d", size), func(t *testing.T) {
			dec := newDecoder(t, hugeEntry(t, size))
			_, err := dec.Next()
			require.NoError(t, err)

			r, n, err := dec.OpenBlob(field.KeyDAT)
			require.NoError(t, err)
			require.Equal(t, size, n)
			got, err := io.ReadAll(r)
			require.ErrorIs(t, err, io.ErrUnexpectedEOF)
			assert.Equal(t, []byte("tail"), got)

			_, err = dec.Next()
			require.ErrorIs(t, err, io.ErrUnexpectedEOF)
		})
	}

	t.Run("CompressionExpected", func(t *testing.T) {
		_, err := NewDecoder(stream.NewMemoryStream(stream.NewSharedBuffer(data)), WithCompression(format.CompressionLZ4))
		require.ErrorIs(t, err, errs.ErrInvalidMagic)
	})
}

func TestDecoder_LegacyMagic(t *testing.T) {
	h := newHeader(t, testEntry{path: "old"})
	raw := bytes.Clone(h.Bytes())
	copy(raw, header.LegacyMagic)

	dec := newDecoder(t, raw)
	got, err := dec.Next()
	require.NoError(t, err)
	assert.Equal(t, header.Magic, string(got.Bytes()[:header.MagicSize]))
	p, _ := got.LookupString(field.KeyPAT)
	assert.Equal(t, "old", p)
}

func TestDecoder_PathValidation(t *testing.T) {
	data := encode(t, []testEntry{{path: "ok"}, {path: "../escape"}})

	dec := newDecoder(t, data)
	for range 2 {
		_, err := dec.Next()
		require.NoError(t, err)
	}

	dec = newDecoder(t, data, WithPathValidation(true))
	_, err := dec.Next()
	require.NoError(t, err)
	_, err = dec.Next()
	require.ErrorIs(t, err, errs.ErrInvalidPath)

	// Errors are sticky.
	_, err = dec.Next()
	require.ErrorIs(t, err, errs.ErrInvalidPath)
}

func TestEncoder_BlobSequencing(t *testing.T) {
	newEncoder := func(t *testing.T) *Encoder {
		enc, err := NewEncoder(stream.NewMemoryStream(stream.NewSharedBuffer(nil)))
		require.NoError(t, err)
		return enc
	}
	e := testEntry{path: "f", dat: []byte("data"), xat: []byte("x")}

	t.Run("HeaderWithPendingBlobs", func(t *testing.T) {
		enc := newEncoder(t)
		require.NoError(t, enc.WriteHeader(newHeader(t, e)))
		require.NoError(t, enc.WriteBlob(field.KeyDAT, e.dat))

		err := enc.WriteHeader(newHeader(t, testEntry{path: "g"}))
		require.ErrorIs(t, err, errs.ErrPendingBlobs)
	})

	t.Run("WrongKey", func(t *testing.T) {
		enc := newEncoder(t)
		require.NoError(t, enc.WriteHeader(newHeader(t, e)))
		require.ErrorIs(t, enc.WriteBlob(field.KeyXAT, e.xat), errs.ErrBlobMismatch)
	})

	t.Run("WrongSize", func(t *testing.T) {
		enc := newEncoder(t)
		require.NoError(t, enc.WriteHeader(newHeader(t, e)))
		require.ErrorIs(t, enc.WriteBlob(field.KeyDAT, []byte("dat")), errs.ErrBlobMismatch)
	})

	t.Run("NoBlobPending", func(t *testing.T) {
		enc := newEncoder(t)
		require.ErrorIs(t, enc.WriteBlob(field.KeyDAT, nil), errs.ErrBlobMismatch)
	})

	t.Run("EntryPayloadCount", func(t *testing.T) {
		enc := newEncoder(t)
		err := enc.WriteEntry(newHeader(t, e), e.dat)
		require.ErrorIs(t, err, errs.ErrBlobMismatch)
		assert.Equal(t, 0, enc.Entries())
	})

	t.Run("CloseWithPendingBlobs", func(t *testing.T) {
		enc := newEncoder(t)
		require.NoError(t, enc.WriteHeader(newHeader(t, e)))
		require.ErrorIs(t, enc.Close(), errs.ErrPendingBlobs)
		require.NoError(t, enc.Close())
		require.ErrorIs(t, enc.WriteHeader(newHeader(t, e)), errs.ErrClosed)
	})

	t.Run("EmptyHeader", func(t *testing.T) {
		enc := newEncoder(t)
		h := header.New()
		require.Error(t, h.Decode(nil))
		require.Zero(t, h.EncodedSize())

		require.ErrorIs(t, enc.WriteHeader(h), errs.ErrSizeMismatch)
	})
}

func TestEncoder_Paths(t *testing.T) {
	t.Run("DuplicateLogged", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		enc, err := NewEncoder(stream.NewMemoryStream(stream.NewSharedBuffer(nil)), WithLogger(zap.New(core)))
		require.NoError(t, err)

		require.NoError(t, enc.WriteEntry(newHeader(t, testEntry{path: "a"})))
		require.NoError(t, enc.WriteEntry(newHeader(t, testEntry{path: "a"})))
		require.NoError(t, enc.Close())

		entries := logs.FilterMessage("duplicate entry path").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "a", entries[0].ContextMap()["path"])
	})

	t.Run("DuplicateRejected", func(t *testing.T) {
		enc, err := NewEncoder(stream.NewMemoryStream(stream.NewSharedBuffer(nil)), WithUniquePaths(true))
		require.NoError(t, err)

		require.NoError(t, enc.WriteEntry(newHeader(t, testEntry{path: "a"})))
		err = enc.WriteEntry(newHeader(t, testEntry{path: "a"}))
		require.ErrorIs(t, err, errs.ErrDuplicatePath)
		assert.Equal(t, 1, enc.Entries())
	})

	t.Run("Invalid", func(t *testing.T) {
		enc, err := NewEncoder(stream.NewMemoryStream(stream.NewSharedBuffer(nil)), WithPathValidation(true))
		require.NoError(t, err)

		err = enc.WriteEntry(newHeader(t, testEntry{path: "/etc/passwd"}))
		require.ErrorIs(t, err, errs.ErrInvalidPath)
		require.NoError(t, enc.WriteEntry(newHeader(t, testEntry{path: ""})))
		require.NoError(t, enc.WriteEntry(newHeader(t, testEntry{path: ""})))
	})
}

func TestOptions(t *testing.T) {
	out := stream.NewMemoryStream(stream.NewSharedBuffer(nil))

	_, err := NewEncoder(out, WithThreads(-2))
	require.ErrorIs(t, err, errs.ErrInvalidThreads)

	_, err = NewEncoder(out, WithCompression(format.CompressionType(0)))
	require.ErrorIs(t, err, errs.ErrInvalidCompression)

	_, err = NewEncoder(out, WithBlockSize(-1))
	require.ErrorIs(t, err, errs.ErrInvalidBlockSize)

	cfg, err := newConfig(WithLogger(nil))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, cfg.threads, 1)
	assert.False(t, cfg.compressed())
}

func BenchmarkEncoder(b *testing.B) {
	payload := bytes.Repeat([]byte("benchmark payload "), 512)

	for b.Loop() {
		enc, err := NewEncoder(stream.NewMemoryStream(stream.NewSharedBuffer(nil)))
		if err != nil {
			b.Fatal(err)
		}
		for i := range 100 {
			h := header.New()
			_ = h.AppendString(field.KeyPAT, fmt.Sprintf("file-%03d", i))
			_ = h.AppendBlob(field.KeyDAT, uint64(len(payload)))
			if err := enc.WriteEntry(h, payload); err != nil {
				b.Fatal(err)
			}
		}
		if err := enc.Close(); err != nil {
			b.Fatal(err)
		}
	}
}
