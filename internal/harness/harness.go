package harness

import (
	"fmt"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solipr/engine/internal/change"
	"github.com/solipr/engine/internal/ids"
	"github.com/solipr/engine/internal/solipr"
	"github.com/solipr/engine/internal/testutil"
)

// Result is the outcome of running a Scenario: the final rendering and
// a step-by-step log, useful for assertion failure messages.
type Result struct {
	Scenario *Scenario
	Log      []string
	Render   []byte
}

// Run executes every step of s against a freshly opened Engine and
// single repository/file pair, failing t immediately (via require) on
// the first unmet expectation. It returns the accumulated Result for
// callers that want to inspect the log or final rendering further.
func Run(t *testing.T, s *Scenario) *Result {
	t.Helper()

	eng, err := solipr.Open(solipr.Config{
		KVPath:      filepath.Join(t.TempDir(), "repo.db"),
		RegistryDir: t.TempDir(),
	})
	require.NoError(t, err, "scenario %s: open engine", s.Name)
	t.Cleanup(func() { eng.Close() })

	rid, err := ids.NewRepositoryId()
	require.NoError(t, err)
	repo := eng.Repository(rid)
	file, err := ids.NewFileId()
	require.NoError(t, err)

	clock := testutil.NewDeterministicClock()
	named := map[string][]change.Change{}
	res := &Result{Scenario: s}

	for _, step := range s.Steps {
		seq := clock.Next()
		switch {
		case step.ApplyText != "":
			changes, err := eng.Diff(repo, file, []byte(step.ApplyText))
			require.NoError(t, err, "scenario %s step %d: diff", s.Name, seq)
			_, err = eng.Apply(repo, changes)
			require.NoError(t, err, "scenario %s step %d: apply", s.Name, seq)
			res.Log = append(res.Log, fmt.Sprintf("step %d: applied text diff (%d changes)", seq, len(changes)))

		case step.DiffOnly != nil:
			changes, err := eng.Diff(repo, file, []byte(step.DiffOnly.Text))
			require.NoError(t, err, "scenario %s step %d: diff_only[%s]", s.Name, seq, step.DiffOnly.As)
			named[step.DiffOnly.As] = changes
			res.Log = append(res.Log, fmt.Sprintf("step %d: computed diff %q (%d changes)", seq, step.DiffOnly.As, len(changes)))

		case step.ApplyNamed != "":
			changes, ok := named[step.ApplyNamed]
			require.True(t, ok, "scenario %s step %d: no diff named %q", s.Name, seq, step.ApplyNamed)
			_, err := eng.Apply(repo, changes)
			require.NoError(t, err, "scenario %s step %d: apply_named[%s]", s.Name, seq, step.ApplyNamed)
			res.Log = append(res.Log, fmt.Sprintf("step %d: applied %q", seq, step.ApplyNamed))

		case step.ExpectRender != nil:
			out, err := eng.Render(repo, file)
			require.NoError(t, err, "scenario %s step %d: render", s.Name, seq)
			require.Equal(t, *step.ExpectRender, string(out), "scenario %s step %d: render mismatch", s.Name, seq)
			res.Render = out

		case step.ExpectRenderMatch != nil:
			out, err := eng.Render(repo, file)
			require.NoError(t, err, "scenario %s step %d: render", s.Name, seq)
			re, err := regexp.Compile("(?s)\\A" + *step.ExpectRenderMatch + "\\z")
			require.NoError(t, err, "scenario %s step %d: compile expect_render_match", s.Name, seq)
			require.True(t, re.Match(out), "scenario %s step %d: render %q did not match pattern %q", s.Name, seq, out, *step.ExpectRenderMatch)
			res.Render = out

		case step.ApplyAppendToPrevious != nil:
			text := string(res.Render) + *step.ApplyAppendToPrevious
			changes, err := eng.Diff(repo, file, []byte(text))
			require.NoError(t, err, "scenario %s step %d: diff (append to previous)", s.Name, seq)
			_, err = eng.Apply(repo, changes)
			require.NoError(t, err, "scenario %s step %d: apply (append to previous)", s.Name, seq)
			res.Log = append(res.Log, fmt.Sprintf("step %d: applied previous-render+suffix diff (%d changes)", seq, len(changes)))

		case step.ExpectRenderEqualsPreviousPlus != nil:
			want := string(res.Render) + *step.ExpectRenderEqualsPreviousPlus
			out, err := eng.Render(repo, file)
			require.NoError(t, err, "scenario %s step %d: render", s.Name, seq)
			require.Equal(t, want, string(out), "scenario %s step %d: render mismatch", s.Name, seq)
			res.Render = out

		case step.ExpectDiffEmpty != nil:
			text := *step.ExpectDiffEmpty
			if text == "" {
				out, err := eng.Render(repo, file)
				require.NoError(t, err, "scenario %s step %d: render for diff_empty", s.Name, seq)
				text = string(out)
			}
			changes, err := eng.Diff(repo, file, []byte(text))
			require.NoError(t, err, "scenario %s step %d: diff_empty", s.Name, seq)
			require.Empty(t, changes, "scenario %s step %d: expected empty diff, got %d changes", s.Name, seq, len(changes))

		default:
			t.Fatalf("scenario %s step %d: empty step", s.Name, seq)
		}
	}
	return res
}

// RunDir loads every scenario fixture under dir and runs each as a
// subtest named after the scenario.
func RunDir(t *testing.T, dir string) {
	t.Helper()
	scenarios, err := LoadScenarios(dir)
	require.NoError(t, err)
	require.NotEmpty(t, scenarios, "no scenario fixtures found in %s", dir)
	for _, s := range scenarios {
		s := s
		t.Run(s.Name, func(t *testing.T) {
			Run(t, s)
		})
	}
}
