package ids

import (
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentHashRoundTrip(t *testing.T) {
	h := ContentHash(sha256.Sum256([]byte("hello")))

	text := h.String()
	assert.Equal(t, "C", text[:1])

	got, err := ParseContentHash(text)
	require.NoError(t, err)
	assert.Equal(t, h, got)

	// prefix-less form must also parse.
	got2, err := ParseContentHash(text[1:])
	require.NoError(t, err)
	assert.Equal(t, h, got2)
}

func TestContentHashLegacyBase64URL(t *testing.T) {
	h := ContentHash(sha256.Sum256([]byte("world")))
	legacy := base64.RawURLEncoding.EncodeToString(h[:])

	got, err := ParseContentHash(legacy)
	require.NoError(t, err)
	assert.Equal(t, h, got)
}

func TestCompareChangeHashOrdering(t *testing.T) {
	a := ChangeHash{0x00}
	b := ChangeHash{0x01}
	assert.Equal(t, -1, CompareChangeHash(a, b))
	assert.Equal(t, 1, CompareChangeHash(b, a))
	assert.Equal(t, 0, CompareChangeHash(a, a))
}
