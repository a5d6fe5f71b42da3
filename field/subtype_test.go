package field

import (
	"testing"

	"github.com/arloliu/aarchive/errs"
	"github.com/arloliu/aarchive/format"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		subtype byte
		typ     format.FieldType
		size    int
	}{
		{'*', format.FieldTypeFlag, 0},
		{'1', format.FieldTypeUInt, 1},
		{'2', format.FieldTypeUInt, 2},
		{'4', format.FieldTypeUInt, 4},
		{'8', format.FieldTypeUInt, 8},
		{'A', format.FieldTypeBlob, 2},
		{'B', format.FieldTypeBlob, 4},
		{'C', format.FieldTypeBlob, 8},
		{'F', format.FieldTypeHash, 4},
		{'G', format.FieldTypeHash, 20},
		{'H', format.FieldTypeHash, 32},
		{'I', format.FieldTypeHash, 48},
		{'J', format.FieldTypeHash, 64},
		{'S', format.FieldTypeTimespec, 8},
		{'T', format.FieldTypeTimespec, 12},
		{'P', format.FieldTypeString, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.subtype), func(t *testing.T) {
			typ, size, err := Resolve(tt.subtype)
			require.NoError(t, err)
			require.Equal(t, tt.typ, typ)
			require.Equal(t, tt.size, size)
		})
	}
}

func TestResolve_InvalidSubtype(t *testing.T) {
	for _, c := range []byte{'Z', '0', '3', 'D', 'E', 'K', 'p', 0, 0xFF} {
		_, _, err := Resolve(c)
		require.ErrorIs(t, err, errs.ErrInvalidFieldSubtype, "subtype %q", c)
	}
}

func TestSubtypeHelpersAgreeWithResolve(t *testing.T) {
	for _, w := range []int{1, 2, 4, 8} {
		st, ok := UIntSubtype(w)
		require.True(t, ok)
		typ, size, err := Resolve(st)
		require.NoError(t, err)
		require.Equal(t, format.FieldTypeUInt, typ)
		require.Equal(t, w, size)
	}
	_, ok := UIntSubtype(3)
	require.False(t, ok)

	for _, w := range []int{2, 4, 8} {
		st, ok := BlobSubtype(w)
		require.True(t, ok)
		typ, size, err := Resolve(st)
		require.NoError(t, err)
		require.Equal(t, format.FieldTypeBlob, typ)
		require.Equal(t, w, size)
	}
	_, ok = BlobSubtype(1)
	require.False(t, ok)

	for fn := format.HashCRC32; fn <= format.HashSHA512; fn++ {
		st, ok := HashSubtype(fn)
		require.True(t, ok)
		typ, size, err := Resolve(st)
		require.NoError(t, err)
		require.Equal(t, format.FieldTypeHash, typ)
		require.Equal(t, fn.Size(), size)

		back, ok := HashFunctionOf(st)
		require.True(t, ok)
		require.Equal(t, fn, back)
	}
	_, ok = HashSubtype(0)
	require.False(t, ok)
	_, ok = HashFunctionOf('A')
	require.False(t, ok)
}

func TestSubtypeFor(t *testing.T) {
	for _, st := range []byte("*1248ABCFGHIJST") {
		typ, size, err := Resolve(st)
		require.NoError(t, err)
		got, ok := SubtypeFor(typ, size)
		require.True(t, ok, "subtype %q", st)
		require.Equal(t, st, got)
	}

	got, ok := SubtypeFor(format.FieldTypeString, 42)
	require.True(t, ok)
	require.Equal(t, SubtypeString, got)

	for _, tc := range []struct {
		typ  format.FieldType
		size int
	}{
		{format.FieldTypeFlag, 1},
		{format.FieldTypeUInt, 3},
		{format.FieldTypeHash, 16},
		{format.FieldTypeTimespec, 4},
		{format.FieldTypeBlob, 1},
		{format.FieldType(42), 0},
	} {
		_, ok := SubtypeFor(tc.typ, tc.size)
		require.False(t, ok, "%v/%d", tc.typ, tc.size)
	}
}
