//go:build unix

package aarchive

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/aarchive/field"
)

func TestCreateOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.aar")

	enc, err := Create(path)
	require.NoError(t, err)
	h := NewHeader()
	require.NoError(t, h.AppendString(field.KeyPAT, "x"))
	require.NoError(t, enc.WriteEntry(h))
	require.NoError(t, enc.Close())

	dec, err := Open(path)
	require.NoError(t, err)
	defer dec.Close()

	got, err := dec.Next()
	require.NoError(t, err)
	assert.Equal(t, h.Bytes(), got.Bytes())

	_, err = Open(filepath.Join(t.TempDir(), "missing.aar"))
	require.Error(t, err)
}
