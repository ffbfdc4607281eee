package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is one end-to-end conformance fixture: a named sequence of
// Steps executed against a single file in a single fresh repository.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is a tagged union of the operations a scenario can perform.
// Exactly one field is expected to be non-nil/non-zero per step; Run
// dispatches on whichever is set.
type Step struct {
	// ApplyText parses text against the file's current rendering,
	// diffs it, and applies the resulting Changes immediately (the
	// "parse -> diff -> apply" pipeline of §4.6 run in one shot).
	ApplyText string `yaml:"apply_text,omitempty"`

	// DiffOnly computes a Change set against the file's current
	// rendering without applying it, and stashes it under As for a
	// later ApplyNamed step. Used to model two branches diffing
	// independently against the same base (§8 S2).
	DiffOnly *NamedDiff `yaml:"diff_only,omitempty"`

	// ApplyNamed applies a Change set previously computed by a
	// DiffOnly step with the same name.
	ApplyNamed string `yaml:"apply_named,omitempty"`

	// ExpectRender asserts the file's current rendering equals this
	// exact byte string.
	ExpectRender *string `yaml:"expect_render,omitempty"`

	// ExpectRenderMatch asserts the file's current rendering matches
	// this regular expression (anchored with (?s) over the whole
	// string by Run). Used instead of ExpectRender whenever the
	// expectation must absorb a conflict/cycle marker's content-derived
	// uuid, or when the relative order of conflict alternatives is a
	// legitimate implementation choice (§8 S2 end-to-end scenario note)
	// expressed as a regex alternation.
	ExpectRenderMatch *string `yaml:"expect_render_match,omitempty"`

	// ExpectDiffEmpty diffs Text (or, if Text is empty, the file's
	// current rendering against itself) and asserts the resulting
	// Change set is empty (§8 invariant 7, S3).
	ExpectDiffEmpty *string `yaml:"expect_diff_empty,omitempty"`

	// ApplyAppendToPrevious diffs and applies the last rendering a
	// ExpectRender/ExpectRenderMatch step captured, with this string
	// appended, without the fixture needing to spell out a rendering
	// whose exact bytes depend on an order the algebra leaves
	// unspecified (a conflict's alternative ordering, §8 S4).
	ApplyAppendToPrevious *string `yaml:"apply_append_to_previous,omitempty"`

	// ExpectRenderEqualsPreviousPlus asserts the current rendering
	// equals the last captured rendering with this string appended, and
	// becomes the new captured rendering in turn.
	ExpectRenderEqualsPreviousPlus *string `yaml:"expect_render_equals_previous_plus,omitempty"`
}

// NamedDiff names a Change set computed by a DiffOnly step so a later
// step can apply it.
type NamedDiff struct {
	As   string `yaml:"as"`
	Text string `yaml:"text"`
}

// LoadScenario reads and parses a single scenario fixture.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("harness: read scenario %s: %w", path, err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("harness: parse scenario %s: %w", path, err)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("harness: scenario %s: missing name", path)
	}
	return &s, nil
}

// LoadScenarios loads every *.yaml fixture in dir, sorted by filename.
func LoadScenarios(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("harness: read scenario dir %s: %w", dir, err)
	}
	var scenarios []*Scenario
	for _, e := range entries {
		if e.IsDir() || (!hasSuffix(e.Name(), ".yaml") && !hasSuffix(e.Name(), ".yml")) {
			continue
		}
		s, err := LoadScenario(dir + "/" + e.Name())
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}
