package repo

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solipr/engine/internal/change"
	"github.com/solipr/engine/internal/ids"
	"github.com/solipr/engine/internal/kv"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := kv.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rid, err := ids.NewRepositoryId()
	require.NoError(t, err)
	return Open(db, rid)
}

func TestApplyThenHeads(t *testing.T) {
	r := newTestRepo(t)
	file, err := ids.NewFileId()
	require.NoError(t, err)
	line, err := ids.NewLineId()
	require.NoError(t, err)

	c, err := change.New(change.LineExistence{File: file, Line: line, Existence: true})
	require.NoError(t, err)

	var h ids.ChangeHash
	err = r.Update(func(wt *WriteTx) error {
		h, err = wt.Apply(c)
		return err
	})
	require.NoError(t, err)

	err = r.View(func(rt *ReadTx) error {
		heads, err := rt.Heads(c.SingleId())
		require.NoError(t, err)
		assert.Equal(t, []ids.ChangeHash{h}, heads)

		ex, err := rt.Existence(file, line)
		require.NoError(t, err)
		assert.True(t, ex.Value)
		assert.False(t, ex.Conflict)

		lines, err := rt.ExistingLines(file)
		require.NoError(t, err)
		assert.Equal(t, []ids.LineId{line}, lines)
		return nil
	})
	require.NoError(t, err)
}

func TestApplyIsIdempotent(t *testing.T) {
	r := newTestRepo(t)
	file, _ := ids.NewFileId()
	line, _ := ids.NewLineId()
	c, err := change.New(change.LineExistence{File: file, Line: line, Existence: true})
	require.NoError(t, err)

	apply := func() []ids.ChangeHash {
		var heads []ids.ChangeHash
		require.NoError(t, r.Update(func(wt *WriteTx) error {
			_, err := wt.Apply(c)
			return err
		}))
		require.NoError(t, r.View(func(rt *ReadTx) error {
			var err error
			heads, err = rt.Heads(c.SingleId())
			return err
		}))
		return heads
	}

	first := apply()
	second := apply()
	assert.Equal(t, first, second)
}

func TestApplyThenUnapplyRestoresState(t *testing.T) {
	r := newTestRepo(t)
	file, _ := ids.NewFileId()
	line, _ := ids.NewLineId()
	c, err := change.New(change.LineExistence{File: file, Line: line, Existence: true})
	require.NoError(t, err)

	var h ids.ChangeHash
	require.NoError(t, r.Update(func(wt *WriteTx) error {
		h, err = wt.Apply(c)
		return err
	}))

	require.NoError(t, r.Update(func(wt *WriteTx) error {
		return wt.Unapply(h)
	}))

	require.NoError(t, r.View(func(rt *ReadTx) error {
		heads, err := rt.Heads(c.SingleId())
		require.NoError(t, err)
		assert.Empty(t, heads)

		ex, err := rt.Existence(file, line)
		require.NoError(t, err)
		assert.False(t, ex.Value)
		assert.False(t, ex.Conflict)

		lines, err := rt.ExistingLines(file)
		require.NoError(t, err)
		assert.Empty(t, lines)
		return nil
	}))
}

func TestUnapplyUnknownIsNoop(t *testing.T) {
	r := newTestRepo(t)
	require.NoError(t, r.Update(func(wt *WriteTx) error {
		return wt.Unapply(ids.ChangeHash{0xAB})
	}))
}

func TestReplaceSupersedesOutOfOrderArrival(t *testing.T) {
	r := newTestRepo(t)
	file, _ := ids.NewFileId()
	line, _ := ids.NewLineId()

	base, err := change.New(change.LineExistence{File: file, Line: line, Existence: true})
	require.NoError(t, err)
	baseHash := base.Hash()

	replacement, err := change.New(change.LineExistence{File: file, Line: line, Existence: false}, baseHash)
	require.NoError(t, err)

	// Apply the replacement before the hash it replaces has ever been
	// seen locally (§4.4.1 rationale, §8 boundary behaviors).
	require.NoError(t, r.Update(func(wt *WriteTx) error {
		_, err := wt.Apply(replacement)
		return err
	}))

	require.NoError(t, r.Update(func(wt *WriteTx) error {
		_, err := wt.Apply(base)
		return err
	}))

	require.NoError(t, r.View(func(rt *ReadTx) error {
		heads, err := rt.Heads(base.SingleId())
		require.NoError(t, err)
		assert.Equal(t, []ids.ChangeHash{replacement.Hash()}, heads)
		return nil
	}))
}

func TestConcurrentSingleIdChangesCommute(t *testing.T) {
	file, _ := ids.NewFileId()
	lineA, _ := ids.NewLineId()
	lineB, _ := ids.NewLineId()

	a, err := change.New(change.LineExistence{File: file, Line: lineA, Existence: true})
	require.NoError(t, err)
	b, err := change.New(change.LineExistence{File: file, Line: lineB, Existence: true})
	require.NoError(t, err)

	order1 := newTestRepo(t)
	require.NoError(t, order1.Update(func(wt *WriteTx) error { _, err := wt.Apply(a); return err }))
	require.NoError(t, order1.Update(func(wt *WriteTx) error { _, err := wt.Apply(b); return err }))

	order2 := newTestRepo(t)
	require.NoError(t, order2.Update(func(wt *WriteTx) error { _, err := wt.Apply(b); return err }))
	require.NoError(t, order2.Update(func(wt *WriteTx) error { _, err := wt.Apply(a); return err }))

	for _, line := range []ids.LineId{lineA, lineB} {
		var ex1, ex2 Existence
		require.NoError(t, order1.View(func(rt *ReadTx) error {
			var err error
			ex1, err = rt.Existence(file, line)
			return err
		}))
		require.NoError(t, order2.View(func(rt *ReadTx) error {
			var err error
			ex2, err = rt.Existence(file, line)
			return err
		}))
		assert.Equal(t, ex1, ex2)
	}
}

func TestFirstAndLastSentinelsHaveNoRelatives(t *testing.T) {
	r := newTestRepo(t)
	file, _ := ids.NewFileId()

	require.NoError(t, r.View(func(rt *ReadTx) error {
		parents, err := rt.ParentSet(file, ids.LineIdFirst)
		require.NoError(t, err)
		assert.Empty(t, parents)

		children, err := rt.ChildSet(file, ids.LineIdLast)
		require.NoError(t, err)
		assert.Empty(t, children)
		return nil
	}))
}

func TestParentChildDefaults(t *testing.T) {
	r := newTestRepo(t)
	file, _ := ids.NewFileId()
	line, _ := ids.NewLineId()

	require.NoError(t, r.View(func(rt *ReadTx) error {
		parents, err := rt.ParentSet(file, line)
		require.NoError(t, err)
		assert.Equal(t, []ids.LineId{ids.LineIdFirst}, parents)

		children, err := rt.ChildSet(file, line)
		require.NoError(t, err)
		assert.Equal(t, []ids.LineId{ids.LineIdLast}, children)
		return nil
	}))
}
