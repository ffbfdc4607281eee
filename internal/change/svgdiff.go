package change

import "github.com/solipr/engine/internal/ids"

// SVGDiff implements the single-value-graph chaining construction
// (§4.4.4): given the current head set of a SingleId and a replacement
// content value, it emits a chain of Changes such that applying all of
// them supersedes every current head with the single new value, while
// respecting the MaxReplace bound on each individual Change.
//
// With |heads| = 0 it returns a single Change with an empty replace set
// (§8 boundary behaviors).
func SVGDiff(heads []ids.ChangeHash, content ChangeContent) ([]Change, error) {
	pending := append([]ids.ChangeHash(nil), heads...)
	var result []Change

	for {
		batch := pending
		if len(batch) > MaxReplace {
			batch = batch[:MaxReplace]
		}
		rest := pending[len(batch):]

		c, err := New(content, batch...)
		if err != nil {
			return nil, err
		}
		result = append(result, c)

		if len(rest) == 0 {
			return result, nil
		}

		// Re-push this change's hash so the next change in the chain
		// also supersedes it, then continue over the remaining heads.
		pending = append([]ids.ChangeHash{c.Hash()}, rest...)
	}
}
