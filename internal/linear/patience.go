package linear

import (
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// OpKind discriminates one step of a line-level edit script.
type OpKind int

const (
	// OpEqual carries forward an unchanged line from the old sequence.
	OpEqual OpKind = iota
	// OpInsert introduces a line with no counterpart in the old
	// sequence.
	OpInsert
	// OpDelete drops a line from the old sequence.
	OpDelete
	// OpBarrier marks a whole CONFLICT/CYCLE region matched by marker id
	// between the old and new sequences (§4.6.2): its interior is left
	// untouched, and it breaks the chain relink walks so a still-open
	// conflict's branch-in/merge-out edges are never re-asserted to a
	// single value. Produced only by entryDiff, never by patienceDiff.
	OpBarrier
)

// Op is one step of the edit script produced by patienceDiff or
// entryDiff.
type Op struct {
	Kind OpKind
	Old  OldLine // valid for OpEqual and OpDelete
	Text string  // valid for OpInsert
}

// patienceDiff computes a line-level edit script from old to newLines
// (§4.6.2). It is biased toward patience diff's anchoring strategy -
// lines that occur exactly once on both sides are matched first via a
// longest-increasing-subsequence pass, since go-diff only implements
// Myers' algorithm directly - then the gaps between anchors are
// resolved with go-diff's line-mode Myers diff.
func patienceDiff(old []OldLine, newLines []string) []Op {
	oldTexts := make([]string, len(old))
	for i, l := range old {
		oldTexts[i] = l.Text
	}
	anchors := patienceAnchors(oldTexts, newLines)

	var ops []Op
	prevOld, prevNew := 0, 0
	for _, a := range anchors {
		ops = append(ops, myersGap(old[prevOld:a.oldIdx], newLines[prevNew:a.newIdx])...)
		ops = append(ops, Op{Kind: OpEqual, Old: old[a.oldIdx]})
		prevOld, prevNew = a.oldIdx+1, a.newIdx+1
	}
	ops = append(ops, myersGap(old[prevOld:], newLines[prevNew:])...)
	return ops
}

type anchor struct{ oldIdx, newIdx int }

// patienceAnchors finds entries that are unique within both oldLines and
// newLines, matches them by token, and keeps the subsequence that is
// increasing in both old and new index (a longest increasing
// subsequence over newIdx, since candidates are already old-ascending) -
// the classic patience-sorting step that gives patience diff its name.
// Used both directly on content lines (patienceDiff) and on whole-entry
// comparison tokens (entryDiff), since it only cares about string
// identity.
func patienceAnchors(oldLines, newLines []string) []anchor {
	oldCount := make(map[string]int, len(oldLines))
	for _, l := range oldLines {
		oldCount[l]++
	}
	newCount := make(map[string]int, len(newLines))
	newIndexOf := make(map[string]int, len(newLines))
	for i, l := range newLines {
		newCount[l]++
		newIndexOf[l] = i
	}

	var candidates []anchor
	for i, l := range oldLines {
		if oldCount[l] == 1 && newCount[l] == 1 {
			candidates = append(candidates, anchor{oldIdx: i, newIdx: newIndexOf[l]})
		}
	}

	return lisByNewIndex(candidates)
}

// lisByNewIndex returns the longest subsequence of candidates (already
// ascending in oldIdx) that is also strictly ascending in newIdx, using
// patience sorting: O(n log n) via binary search over pile tops.
func lisByNewIndex(candidates []anchor) []anchor {
	if len(candidates) == 0 {
		return nil
	}

	tails := make([]int, 0, len(candidates)) // index into candidates of each pile's top
	prev := make([]int, len(candidates))      // predecessor chain for reconstruction

	for i, c := range candidates {
		j := sort.Search(len(tails), func(k int) bool {
			return candidates[tails[k]].newIdx >= c.newIdx
		})
		if j > 0 {
			prev[i] = tails[j-1]
		} else {
			prev[i] = -1
		}
		if j == len(tails) {
			tails = append(tails, i)
		} else {
			tails[j] = i
		}
	}

	out := make([]anchor, len(tails))
	k := tails[len(tails)-1]
	for i := len(tails) - 1; i >= 0; i-- {
		out[i] = candidates[k]
		k = prev[k]
	}
	return out
}

// myersGap resolves a non-anchored region with go-diff's line-mode
// Myers diff, pairing each surviving or deleted line with its OldLine
// value directly rather than an index into some larger array - old is
// already scoped to just this gap.
func myersGap(old []OldLine, newLines []string) []Op {
	if len(old) == 0 {
		ops := make([]Op, len(newLines))
		for i, l := range newLines {
			ops[i] = Op{Kind: OpInsert, Text: l}
		}
		return ops
	}
	if len(newLines) == 0 {
		ops := make([]Op, len(old))
		for i, l := range old {
			ops[i] = Op{Kind: OpDelete, Old: l}
		}
		return ops
	}

	oldLines := make([]string, len(old))
	for i, l := range old {
		oldLines[i] = l.Text
	}

	dmp := diffmatchpatch.New()
	text1 := strings.Join(oldLines, "\n") + "\n"
	text2 := strings.Join(newLines, "\n") + "\n"
	chars1, chars2, lineArray := dmp.DiffLinesToChars(text1, text2)
	diffs := dmp.DiffMain(chars1, chars2, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var ops []Op
	oldIdx := 0
	for _, d := range diffs {
		lines := strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n")
		for _, l := range lines {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				ops = append(ops, Op{Kind: OpEqual, Old: old[oldIdx]})
				oldIdx++
			case diffmatchpatch.DiffDelete:
				ops = append(ops, Op{Kind: OpDelete, Old: old[oldIdx]})
				oldIdx++
			case diffmatchpatch.DiffInsert:
				ops = append(ops, Op{Kind: OpInsert, Text: l})
			}
		}
	}
	return ops
}
