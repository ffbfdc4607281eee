package change

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solipr/engine/internal/ids"
)

func TestSVGDiffEmptyHeads(t *testing.T) {
	file := mustFileId(t)
	line := mustLineId(t)
	content := LineExistence{File: file, Line: line, Existence: true}

	changes, err := SVGDiff(nil, content)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, 0, changes[0].Replace.Len())
}

func TestSVGDiffChainsOverThreeBound(t *testing.T) {
	file := mustFileId(t)
	line := mustLineId(t)
	content := LineExistence{File: file, Line: line, Existence: false}

	heads := []ids.ChangeHash{{1}, {2}, {3}, {4}, {5}}
	changes, err := SVGDiff(heads, content)
	require.NoError(t, err)

	// 5 heads: first change replaces 3, leaving 2 plus the re-pushed
	// hash (3) which the second change can still fit under the bound.
	require.Len(t, changes, 2)
	assert.Equal(t, MaxReplace, changes[0].Replace.Len())
	assert.LessOrEqual(t, changes[1].Replace.Len(), MaxReplace)

	// Every original head must be superseded by some change in the chain.
	superseded := map[ids.ChangeHash]bool{}
	for _, c := range changes {
		for _, h := range c.Replace.Hashes() {
			superseded[h] = true
		}
	}
	for _, h := range heads {
		assert.True(t, superseded[h], "head %v must be superseded", h)
	}
}

func TestSVGDiffSingleChangeUnderBound(t *testing.T) {
	file := mustFileId(t)
	line := mustLineId(t)
	content := LineExistence{File: file, Line: line, Existence: true}

	heads := []ids.ChangeHash{{1}, {2}}
	changes, err := SVGDiff(heads, content)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, 2, changes[0].Replace.Len())
}
