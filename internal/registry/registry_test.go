package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	r, err := Open(t.TempDir())
	require.NoError(t, err)

	hash, err := r.WriteBytes([]byte("hello"))
	require.NoError(t, err)

	got, err := r.ReadAll(hash)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)

	size, err := r.Size(hash)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), size)
}

func TestWriteIsIdempotent(t *testing.T) {
	r, err := Open(t.TempDir())
	require.NoError(t, err)

	h1, err := r.WriteBytes([]byte("same bytes"))
	require.NoError(t, err)
	h2, err := r.WriteBytes([]byte("same bytes"))
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
}

func TestReadMissingReturnsNotFound(t *testing.T) {
	r, err := Open(t.TempDir())
	require.NoError(t, err)

	var missing [32]byte
	missing[0] = 0xAB
	_, err = r.ReadAll(missing)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.Size(missing)
	assert.ErrorIs(t, err, ErrNotFound)
}
