package harness

import "testing"

// TestScenarios runs every YAML fixture under testdata/scenarios as its
// own subtest, exercising the full set of worked examples: linear
// append, divergent non-conflicting insert, empty-diff fixed point,
// append past an open conflict, conflict resolution by direct edit,
// and a deletion-vs-insert conflict.
func TestScenarios(t *testing.T) {
	RunDir(t, "testdata/scenarios")
}
