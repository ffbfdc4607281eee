// Package linear implements the rendered-file side of the engine
// (§4.6): parsing a linearized byte stream back into structured
// segments, and diffing an edited linear file against a prior rendering
// to produce the minimal set of Changes that reproduce the edit.
package linear
