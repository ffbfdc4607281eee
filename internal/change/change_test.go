package change

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solipr/engine/internal/ids"
)

func mustFileId(t *testing.T) ids.FileId {
	t.Helper()
	id, err := ids.NewFileId()
	require.NoError(t, err)
	return id
}

func mustLineId(t *testing.T) ids.LineId {
	t.Helper()
	id, err := ids.NewLineId()
	require.NoError(t, err)
	return id
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	file := mustFileId(t)
	line := mustLineId(t)

	c, err := New(LineExistence{File: file, Line: line, Existence: true})
	require.NoError(t, err)

	encoded := c.Encode()
	decoded, err := Decode(encoded)
	require.NoError(t, err)

	assert.Equal(t, c.Hash(), decoded.Hash())
	assert.Equal(t, c, decoded)
}

func TestHashStableUnderReplaceOrder(t *testing.T) {
	file := mustFileId(t)
	line := mustLineId(t)
	content := LineExistence{File: file, Line: line, Existence: false}

	h1 := ids.ChangeHash{1}
	h2 := ids.ChangeHash{2}

	c1, err := New(content, h1, h2)
	require.NoError(t, err)
	c2, err := New(content, h2, h1)
	require.NoError(t, err)

	assert.Equal(t, c1.Hash(), c2.Hash(), "replace order must not affect the hash")
}

func TestReplaceSetRejectsOverCapacity(t *testing.T) {
	_, err := NewReplaceSet(ids.ChangeHash{1}, ids.ChangeHash{2}, ids.ChangeHash{3}, ids.ChangeHash{4})
	assert.Error(t, err)
}

func TestReplaceSetDeduplicates(t *testing.T) {
	rs, err := NewReplaceSet(ids.ChangeHash{1}, ids.ChangeHash{1})
	require.NoError(t, err)
	assert.Equal(t, 1, rs.Len())
}

func TestSingleIdMatchesContent(t *testing.T) {
	file := mustFileId(t)
	line := mustLineId(t)
	c, err := New(LineContent{File: file, Line: line, Content: ids.ContentHash{9}})
	require.NoError(t, err)

	sid := c.SingleId()
	assert.Equal(t, file, sid.File)
	assert.Equal(t, line, sid.Line)
	assert.Equal(t, ids.FacetContent, sid.Facet)
}
