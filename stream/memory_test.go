package stream

import (
	"io"
	"math"
	"testing"

	"github.com/arloliu/aarchive/errs"
	"github.com/stretchr/testify/require"
)

func TestCopyOutCopyIn(t *testing.T) {
	src := []byte("hello world")
	var cursor int64

	p := make([]byte, 5)
	require.Equal(t, 5, CopyOut(p, src, &cursor))
	require.Equal(t, "hello", string(p))
	require.Equal(t, int64(5), cursor)

	big := make([]byte, 20)
	require.Equal(t, 6, CopyOut(big, src, &cursor))
	require.Equal(t, int64(11), cursor)
	require.Equal(t, 0, CopyOut(big, src, &cursor))

	dst := make([]byte, 4)
	cursor = 1
	require.Equal(t, 3, CopyIn(dst, []byte("abcdef"), &cursor))
	require.Equal(t, []byte{0, 'a', 'b', 'c'}, dst)
	require.Equal(t, int64(4), cursor)
	require.Equal(t, 0, CopyIn(dst, []byte("z"), &cursor))
}

func TestSharedBuffer_Growable(t *testing.T) {
	b := NewSharedBuffer(nil)

	n, err := b.Write([]byte("header"))
	require.NoError(t, err)
	require.Equal(t, 6, n)

	_, err = b.WriteAt([]byte("XY"), 10)
	require.NoError(t, err)
	require.Equal(t, []byte("header\x00\x00\x00\x00XY"), b.Bytes())
	require.Equal(t, int64(6), b.Pos(), "WriteAt does not move the cursor")

	pos, err := b.Seek(0, io.SeekStart)
	require.NoError(t, err)
	require.Equal(t, int64(0), pos)

	all, err := io.ReadAll(b)
	require.NoError(t, err)
	require.Equal(t, b.Bytes(), all)

	require.NoError(t, b.Truncate(3))
	require.Equal(t, "hea", string(b.Bytes()))
	require.NoError(t, b.Truncate(5))
	require.Equal(t, []byte("hea\x00\x00"), b.Bytes())
}

func TestSharedBuffer_SizeLimit(t *testing.T) {
	t.Run("WriteAtFarOffset", func(t *testing.T) {
		b := NewSharedBuffer([]byte("abc"))
		n, err := b.WriteAt([]byte("x"), 1<<62)
		require.ErrorIs(t, err, errs.ErrBufferTooLarge)
		require.Equal(t, 0, n)
		require.Equal(t, "abc", string(b.Bytes()))
	})

	t.Run("WriteAtWrappingEnd", func(t *testing.T) {
		b := NewSharedBuffer(nil)
		_, err := b.WriteAt([]byte("xy"), math.MaxInt64)
		require.ErrorIs(t, err, errs.ErrBufferTooLarge)
		require.Equal(t, 0, b.Len())
	})

	t.Run("WriteAfterFarSeek", func(t *testing.T) {
		b := NewSharedBuffer(nil)
		_, err := b.Seek(MaxBufferSize, io.SeekStart)
		require.NoError(t, err)
		_, err = b.Write([]byte("x"))
		require.ErrorIs(t, err, errs.ErrBufferTooLarge)
		require.Equal(t, int64(MaxBufferSize), b.Pos())
	})

	t.Run("Truncate", func(t *testing.T) {
		b := NewSharedBuffer([]byte("abc"))
		require.ErrorIs(t, b.Truncate(1<<62), errs.ErrBufferTooLarge)
		require.ErrorIs(t, b.Truncate(MaxBufferSize+1), errs.ErrBufferTooLarge)
		require.Equal(t, "abc", string(b.Bytes()))
	})

	t.Run("MemoryStream", func(t *testing.T) {
		s := NewMemoryStream(NewSharedBuffer(nil))
		_, err := s.WriteAt([]byte("x"), 1<<62)
		require.ErrorIs(t, err, errs.ErrBufferTooLarge)
		require.ErrorIs(t, s.Truncate(1<<62), errs.ErrBufferTooLarge)
	})
}

func TestSharedBuffer_Fixed(t *testing.T) {
	backing := make([]byte, 4)
	b := NewFixedBuffer(backing)

	n, err := b.Write([]byte("abcdef"))
	require.ErrorIs(t, err, io.ErrShortWrite)
	require.Equal(t, 4, n)
	require.Equal(t, "abcd", string(backing))

	require.ErrorIs(t, b.Truncate(2), errs.ErrUnsupported)

	p := make([]byte, 3)
	n, err = b.ReadAt(p, 2)
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, 2, n)
}

func TestSharedBuffer_Seek(t *testing.T) {
	b := NewSharedBuffer([]byte("0123456789"))

	pos, err := b.Seek(-3, io.SeekEnd)
	require.NoError(t, err)
	require.Equal(t, int64(7), pos)

	pos, err = b.Seek(2, io.SeekCurrent)
	require.NoError(t, err)
	require.Equal(t, int64(9), pos)

	_, err = b.Seek(-100, io.SeekCurrent)
	require.ErrorIs(t, err, errs.ErrNegativeOffset)
	_, err = b.Seek(0, 3)
	require.ErrorIs(t, err, errs.ErrInvalidWhence)
}

func TestMemoryStream(t *testing.T) {
	buf := NewSharedBuffer(nil)
	var s ByteStream = NewMemoryStream(buf)

	_, err := s.Write([]byte("payload"))
	require.NoError(t, err)

	p := make([]byte, 3)
	_, err = s.ReadAt(p, 4)
	require.NoError(t, err)
	require.Equal(t, "oad", string(p))

	_, err = s.Seek(0, io.SeekStart)
	require.NoError(t, err)
	got, err := io.ReadAll(s)
	require.NoError(t, err)
	require.Equal(t, "payload", string(got))

	s.Cancel()
	_, err = s.Write([]byte("more"))
	require.ErrorIs(t, err, errs.ErrCancelled)
	_, err = s.Read(p)
	require.ErrorIs(t, err, errs.ErrCancelled)

	require.NoError(t, s.Close())
	require.Equal(t, "payload", string(buf.Bytes()))
}
