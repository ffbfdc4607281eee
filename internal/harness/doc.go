// Package harness runs the end-to-end conformance scenarios from §8 of
// the document engine specification (S1-S6) against a real
// solipr.Engine backed by a temporary bbolt
// database and content registry.
//
// # Scenario format
//
// Scenarios are YAML fixtures under testdata/scenarios, each a sequence
// of steps against one file in one repository:
//
//	name: s2_non_conflicting_divergent_insert
//	description: "two branches insert different lines at the same point"
//	steps:
//	  - apply_text: "Foo\nBar\nCar"
//	  - diff_only: { as: branch_a, text: "Foo\nBar\nDavid\nCar" }
//	  - diff_only: { as: branch_b, text: "Foo\nBar\nFrancis\nCar" }
//	  - apply_named: branch_a
//	  - apply_named: branch_b
//	  - expect_render_match: >-
//	      Foo\nBar\n<<<<<<< CONFLICT [0-9a-f-]{36}\n(David\n=======\nFrancis|Francis\n=======\nDavid)\n>>>>>>> CONFLICT\nCar
//
// Every scenario runs against a fresh Engine opened on a t.TempDir, so
// scenarios never interact with each other's state.
//
// # Golden rendering
//
// TestGoldenRenderLinear (golden_test.go) fixes a linear file's exact
// bytes through a github.com/sebdah/goldie/v2 fixture under
// testdata/golden. TestGoldenRenderConflict and TestGoldenRenderCycle
// render a two-way conflict and a two-line cycle and check their marker
// lines by substring, since marker uuids depend on freshly minted line
// ids and differ from run to run.
package harness
