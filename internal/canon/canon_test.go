package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	w := NewWriter()
	w.Uint8(7).Bool(true).Uint32(42).Uint64(1 << 40).Bytes([]byte("hello"))
	buf := w.Finish()

	r := NewReader(buf)
	u8, err := r.Uint8()
	require.NoError(t, err)
	assert.Equal(t, uint8(7), u8)

	b, err := r.Bool()
	require.NoError(t, err)
	assert.True(t, b)

	u32, err := r.Uint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(42), u32)

	u64, err := r.Uint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<40), u64)

	bs, err := r.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), bs)
	assert.True(t, r.Done())
}

func TestReaderTruncated(t *testing.T) {
	r := NewReader([]byte{1, 2})
	_, err := r.Uint32()
	assert.Error(t, err)
}

func TestHashWithDomainSeparation(t *testing.T) {
	a := HashWithDomain("domain/a", []byte("data"))
	b := HashWithDomain("domain/b", []byte("data"))
	assert.NotEqual(t, a, b)

	// concatenation ambiguity must not collide
	c1 := HashWithDomain("ab", []byte("c"))
	c2 := HashWithDomain("a", []byte("bc"))
	assert.NotEqual(t, c1, c2)
}

func TestMarshalCanonicalJSONKeyOrdering(t *testing.T) {
	obj := map[string]any{"b": 1, "a": 2}
	out, err := MarshalCanonicalJSON(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"a":2,"b":1}`, string(out))
}

func TestMarshalCanonicalJSONRejectsFloatsAndNull(t *testing.T) {
	_, err := MarshalCanonicalJSON(nil)
	assert.Error(t, err)

	_, err = MarshalCanonicalJSON(1.5)
	assert.Error(t, err)
}

func TestMarshalCanonicalJSONNoHTMLEscaping(t *testing.T) {
	out, err := MarshalCanonicalJSON("<a>&b</a>")
	require.NoError(t, err)
	assert.Equal(t, `"<a>&b</a>"`, string(out))
}
