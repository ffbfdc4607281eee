package ids

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleIdBytesDistinguishesFacets(t *testing.T) {
	fid, err := NewFileId()
	require.NoError(t, err)
	lid, err := NewLineId()
	require.NoError(t, err)

	existence := SingleId{File: fid, Line: lid, Facet: FacetExistence}
	content := SingleId{File: fid, Line: lid, Facet: FacetContent}

	assert.NotEqual(t, existence.Bytes(), content.Bytes())
	assert.Len(t, existence.Bytes(), 33)
}

func TestFacetString(t *testing.T) {
	assert.Equal(t, "existence", FacetExistence.String())
	assert.Equal(t, "content", FacetContent.String())
	assert.Equal(t, "parent", FacetParent.String())
	assert.Equal(t, "child", FacetChild.String())
}
