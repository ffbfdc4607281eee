package solipr

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solipr/engine/internal/change"
	"github.com/solipr/engine/internal/ids"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := Open(Config{
		KVPath:      filepath.Join(t.TempDir(), "test.db"),
		RegistryDir: t.TempDir(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func TestEngineApplyAndRender(t *testing.T) {
	e := newTestEngine(t)
	rid, err := ids.NewRepositoryId()
	require.NoError(t, err)
	r := e.Repository(rid)

	file, err := ids.NewFileId()
	require.NoError(t, err)
	line, err := ids.NewLineId()
	require.NoError(t, err)

	content, err := e.WriteContent([]byte("hello\n"))
	require.NoError(t, err)

	c1, err := change.New(change.LineExistence{File: file, Line: line, Existence: true})
	require.NoError(t, err)
	c2, err := change.New(change.LineContent{File: file, Line: line, Content: content})
	require.NoError(t, err)
	c3, err := change.New(change.LineParent{File: file, Line: line, Parent: ids.LineIdFirst})
	require.NoError(t, err)
	c4, err := change.New(change.LineChild{File: file, Line: line, Child: ids.LineIdLast})
	require.NoError(t, err)

	_, err = e.Apply(r, []change.Change{c1, c2, c3, c4})
	require.NoError(t, err)

	out, err := e.Render(r, file)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(out))
}

func TestEngineDiffRejectsUnresolvedCycle(t *testing.T) {
	e := newTestEngine(t)
	rid, err := ids.NewRepositoryId()
	require.NoError(t, err)
	r := e.Repository(rid)
	file, err := ids.NewFileId()
	require.NoError(t, err)

	_, err = e.Diff(r, file, []byte("<<<<<<< CYCLE x\nA\nB\n>>>>>>> CYCLE\n"))
	require.Error(t, err)
	assert.True(t, IsCycleUnresolved(err))
}
