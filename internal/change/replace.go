package change

import (
	"fmt"
	"sort"

	"github.com/solipr/engine/internal/ids"
)

// MaxReplace is the serialization bound on the number of hashes a single
// Change may supersede (§3, §4.3). Superseding more requires the chaining
// construction in §4.4.4.
const MaxReplace = 3

// ReplaceSet is a bounded, canonically ordered collection of at most
// MaxReplace distinct ChangeHash values. It is the Go equivalent of the
// original implementation's fixed-capacity small vector; no corpus
// library provides a bounded small-vector primitive, so this is a plain
// value type rather than a dependency (documented in DESIGN.md).
type ReplaceSet struct {
	hashes []ids.ChangeHash
}

// NewReplaceSet builds a ReplaceSet from up to MaxReplace hashes,
// deduplicating and sorting them ascending by byte value (§4.3, §9) so
// that independently constructed equivalent changes hash identically.
func NewReplaceSet(hashes ...ids.ChangeHash) (ReplaceSet, error) {
	dedup := make([]ids.ChangeHash, 0, len(hashes))
	seen := make(map[ids.ChangeHash]bool, len(hashes))
	for _, h := range hashes {
		if seen[h] {
			continue
		}
		seen[h] = true
		dedup = append(dedup, h)
	}
	if len(dedup) > MaxReplace {
		return ReplaceSet{}, fmt.Errorf("change: replace set has %d elements, max %d", len(dedup), MaxReplace)
	}
	sort.Slice(dedup, func(i, j int) bool {
		return ids.CompareChangeHash(dedup[i], dedup[j]) < 0
	})
	return ReplaceSet{hashes: dedup}, nil
}

// Hashes returns the canonically ordered member hashes. The returned
// slice must not be mutated by callers.
func (r ReplaceSet) Hashes() []ids.ChangeHash { return r.hashes }

// Len returns the number of member hashes.
func (r ReplaceSet) Len() int { return len(r.hashes) }

// Contains reports whether h is a member of the set.
func (r ReplaceSet) Contains(h ids.ChangeHash) bool {
	for _, m := range r.hashes {
		if m == h {
			return true
		}
	}
	return false
}
