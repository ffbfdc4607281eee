package linear

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solipr/engine/internal/change"
	"github.com/solipr/engine/internal/ids"
	"github.com/solipr/engine/internal/kv"
	"github.com/solipr/engine/internal/ovg"
	"github.com/solipr/engine/internal/registry"
	"github.com/solipr/engine/internal/repo"
)

func TestParseRoundTripsPlainText(t *testing.T) {
	in := "Foo\nBar\nBaz\n"
	segs := Parse([]byte(in))
	out := Flatten(segs)
	assert.Equal(t, []string{"Foo", "Bar", "Baz"}, out)
	assert.False(t, HasUnresolvedCycle(segs))
}

func TestParseConflictRegion(t *testing.T) {
	in := "Foo\n<<<<<<< CONFLICT abc-123\nDavid\n=======\nFrancis\n>>>>>>> CONFLICT\nCar\n"
	segs := Parse([]byte(in))
	require.Len(t, segs, 3)
	assert.Equal(t, SegmentLine, segs[0].Kind)
	assert.Equal(t, SegmentConflict, segs[1].Kind)
	assert.Equal(t, "abc-123", segs[1].ID)
	require.Len(t, segs[1].Alternatives, 2)
	assert.Equal(t, "David", segs[1].Alternatives[0][0].Text)
	assert.Equal(t, "Francis", segs[1].Alternatives[1][0].Text)
	assert.Equal(t, SegmentLine, segs[2].Kind)
}

func TestParseRecoversFromUnterminatedMarker(t *testing.T) {
	in := "Foo\n<<<<<<< CONFLICT abc-123\nDavid\n"
	segs := Parse([]byte(in))
	out := Flatten(segs)
	assert.Equal(t, []string{"Foo", "<<<<<<< CONFLICT abc-123", "David"}, out)
}

func TestParseDetectsUnresolvedCycle(t *testing.T) {
	in := "Foo\n<<<<<<< CYCLE xyz\nA\nB\n>>>>>>> CYCLE\n"
	segs := Parse([]byte(in))
	assert.True(t, HasUnresolvedCycle(segs))
}

func newDiffFixture(t *testing.T) (*repo.Repository, *registry.Registry, ids.FileId) {
	t.Helper()
	db, err := kv.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	rid, err := ids.NewRepositoryId()
	require.NoError(t, err)
	reg, err := registry.Open(t.TempDir())
	require.NoError(t, err)
	file, err := ids.NewFileId()
	require.NoError(t, err)
	return repo.Open(db, rid), reg, file
}

func insertLine(t *testing.T, r *repo.Repository, reg *registry.Registry, file ids.FileId, parent, child ids.LineId, text string) ids.LineId {
	t.Helper()
	line, err := ids.NewLineId()
	require.NoError(t, err)
	hash, err := reg.WriteBytes([]byte(text))
	require.NoError(t, err)
	require.NoError(t, r.Update(func(wt *repo.WriteTx) error {
		for _, c := range []change.ChangeContent{
			change.LineExistence{File: file, Line: line, Existence: true},
			change.LineContent{File: file, Line: line, Content: hash},
			change.LineParent{File: file, Line: line, Parent: parent},
			change.LineChild{File: file, Line: line, Child: child},
		} {
			ch, err := change.New(c)
			if err != nil {
				return err
			}
			if _, err := wt.Apply(ch); err != nil {
				return err
			}
		}
		return nil
	}))
	return line
}

func renderFile(t *testing.T, r *repo.Repository, reg *registry.Registry, file ids.FileId) ([]byte, []ovg.Slot) {
	t.Helper()
	var slots []ovg.Slot
	require.NoError(t, r.View(func(rt *repo.ReadTx) error {
		g, err := ovg.Build(rt, file)
		if err != nil {
			return err
		}
		slots = ovg.Linearize(ovg.Condense(g))
		return nil
	}))
	out, err := ovg.Render(slots, reg)
	require.NoError(t, err)
	return out, slots
}

func TestDiffThenApplyReproducesEdit(t *testing.T) {
	r, reg, file := newDiffFixture(t)
	foo := insertLine(t, r, reg, file, ids.LineIdFirst, ids.LineIdLast, "Foo")
	insertLine(t, r, reg, file, foo, ids.LineIdLast, "Bar")

	before, slots := renderFile(t, r, reg, file)
	assert.Equal(t, "Foo\nBar", string(before))

	old, err := BuildOldEntries(slots, reg)
	require.NoError(t, err)

	edited := []byte("Foo\nBaz\nBar\n")

	var changes []change.Change
	require.NoError(t, r.View(func(rt *repo.ReadTx) error {
		var err error
		changes, err = Diff(rt, reg, file, old, edited)
		return err
	}))
	require.NotEmpty(t, changes)

	require.NoError(t, r.Update(func(wt *repo.WriteTx) error {
		for _, c := range changes {
			if _, err := wt.Apply(c); err != nil {
				return err
			}
		}
		return nil
	}))

	after, _ := renderFile(t, r, reg, file)
	assert.Equal(t, "Foo\nBaz\nBar", string(after))
}

func TestDiffRejectsUnresolvedCycle(t *testing.T) {
	r, reg, file := newDiffFixture(t)
	insertLine(t, r, reg, file, ids.LineIdFirst, ids.LineIdLast, "Foo")

	_, slots := renderFile(t, r, reg, file)
	old, err := BuildOldEntries(slots, reg)
	require.NoError(t, err)

	edited := []byte("Foo\n<<<<<<< CYCLE bad\nA\nB\n>>>>>>> CYCLE\n")

	require.NoError(t, r.View(func(rt *repo.ReadTx) error {
		_, err := Diff(rt, reg, file, old, edited)
		assert.ErrorIs(t, err, ErrCycleUnresolved)
		return nil
	}))
}
