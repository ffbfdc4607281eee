package ids

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineIdSentinels(t *testing.T) {
	assert.Equal(t, LineId(uuid.Nil), LineIdFirst)
	for _, b := range LineIdLast {
		assert.Equal(t, byte(0xff), b)
	}
	for _, b := range LineIdUnknown {
		assert.Equal(t, byte(0x01), b)
	}
	assert.NotEqual(t, LineIdFirst, LineIdLast)
	assert.NotEqual(t, LineIdFirst, LineIdUnknown)
	assert.NotEqual(t, LineIdLast, LineIdUnknown)
}

func TestRepositoryIdTextRoundTrip(t *testing.T) {
	rid, err := NewRepositoryId()
	require.NoError(t, err)

	text := rid.String()
	assert.Equal(t, "R", text[:1])

	got, err := ParseRepositoryId(text)
	require.NoError(t, err)
	assert.Equal(t, rid, got)

	got2, err := ParseRepositoryId(text[1:])
	require.NoError(t, err)
	assert.Equal(t, rid, got2)
}

func TestFileIdBareUUIDForm(t *testing.T) {
	fid, err := NewFileId()
	require.NoError(t, err)

	text := fid.String()
	_, err = uuid.Parse(text)
	require.NoError(t, err)

	got, err := ParseFileId(text)
	require.NoError(t, err)
	assert.Equal(t, fid, got)
}

func TestCompareLineId(t *testing.T) {
	assert.Equal(t, 0, CompareLineId(LineIdFirst, LineIdFirst))
	assert.Equal(t, -1, CompareLineId(LineIdFirst, LineIdLast))
	assert.Equal(t, 1, CompareLineId(LineIdLast, LineIdFirst))
}
