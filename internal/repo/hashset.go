package repo

import (
	"fmt"
	"sort"

	"github.com/solipr/engine/internal/canon"
	"github.com/solipr/engine/internal/ids"
)

// encodeHashSet serializes a set of ChangeHash values as a
// length-prefixed list, sorted ascending for deterministic byte output.
// An empty set must never be persisted (§6); callers delete the key
// instead of writing encodeHashSet(nil).
func encodeHashSet(hashes []ids.ChangeHash) []byte {
	sorted := append([]ids.ChangeHash(nil), hashes...)
	sort.Slice(sorted, func(i, j int) bool {
		return ids.CompareChangeHash(sorted[i], sorted[j]) < 0
	})

	w := canon.NewWriter()
	w.Uint32(uint32(len(sorted)))
	for _, h := range sorted {
		w.Raw(h[:])
	}
	return w.Finish()
}

func decodeHashSet(buf []byte) ([]ids.ChangeHash, error) {
	if buf == nil {
		return nil, nil
	}
	r := canon.NewReader(buf)
	n, err := r.Uint32()
	if err != nil {
		return nil, fmt.Errorf("repo: decode hash set length: %w", err)
	}
	out := make([]ids.ChangeHash, n)
	for i := range out {
		raw, err := r.Raw(32)
		if err != nil {
			return nil, fmt.Errorf("repo: decode hash set[%d]: %w", i, err)
		}
		copy(out[i][:], raw)
	}
	return out, nil
}

func hashSetRemove(set []ids.ChangeHash, target ids.ChangeHash) []ids.ChangeHash {
	out := make([]ids.ChangeHash, 0, len(set))
	for _, h := range set {
		if h != target {
			out = append(out, h)
		}
	}
	return out
}

func hashSetContains(set []ids.ChangeHash, target ids.ChangeHash) bool {
	for _, h := range set {
		if h == target {
			return true
		}
	}
	return false
}

func hashSetAdd(set []ids.ChangeHash, target ids.ChangeHash) []ids.ChangeHash {
	if hashSetContains(set, target) {
		return set
	}
	return append(set, target)
}
