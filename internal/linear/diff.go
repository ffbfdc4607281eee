package linear

import (
	"errors"
	"fmt"

	"github.com/solipr/engine/internal/change"
	"github.com/solipr/engine/internal/ids"
	"github.com/solipr/engine/internal/ovg"
	"github.com/solipr/engine/internal/registry"
	"github.com/solipr/engine/internal/repo"
)

// ErrCycleUnresolved is returned by Diff when the edited file still
// contains a well-formed CYCLE region: a cycle carries no meaningful
// line order, so it must be broken by hand before it can be turned back
// into Changes (§4.6.3, §9).
var ErrCycleUnresolved = errors.New("linear: file still contains an unresolved cycle region")

// OldLine pairs a rendered content line with the OVG node it came from,
// the identity patience diff anchors new edits back onto (§4.6.2).
type OldLine struct {
	Node ovg.Node
	Text string
}

// Diff computes the minimal set of Changes that transform the file
// currently described by old into the content of newText (§4.6.3).
// rt supplies each surviving or touched SingleId's current heads so
// every emitted Change supersedes exactly what is locally known, per
// the replace-set contract (§4.3, §4.4.4).
//
// A still-open CONFLICT region that survives untouched in newText is
// matched by marker id rather than diffed as literal marker text
// (§4.6.2): entryDiff anchors it as a single OpBarrier, which breaks the
// chain relink walks so its branch-in and merge-out edges are never
// re-asserted to a single value, preserving the live conflict instead of
// silently resolving it. Any well-formed CYCLE region in newText,
// including one carried over unchanged, makes Diff return
// ErrCycleUnresolved.
func Diff(rt *repo.ReadTx, reg *registry.Registry, file ids.FileId, old []OldEntry, newText []byte) ([]change.Change, error) {
	parsed := Parse(newText)
	if HasUnresolvedCycle(parsed) {
		return nil, ErrCycleUnresolved
	}
	newEntries := buildNewEntries(parsed)
	ops := entryDiff(old, newEntries)

	var changes []change.Change
	emit := func(heads []ids.ChangeHash, content change.ChangeContent) error {
		chain, err := change.SVGDiff(heads, content)
		if err != nil {
			return err
		}
		changes = append(changes, chain...)
		return nil
	}

	// segments collects, in final file order, the LineId of every line
	// that survives or is newly introduced, broken into one slice per
	// run of OpBarrier-separated content - the chain parent/child
	// relinking walks over within each segment in a second pass, never
	// across a barrier.
	segments := [][]ids.LineId{{}}
	cur := func() int { return len(segments) - 1 }

	for _, op := range ops {
		switch op.Kind {
		case OpEqual:
			segments[cur()] = append(segments[cur()], op.Old.Node.Line)

		case OpBarrier:
			segments = append(segments, []ids.LineId{})

		case OpDelete:
			line := op.Old.Node.Line
			sid := ids.SingleId{File: file, Line: line, Facet: ids.FacetExistence}
			heads, err := rt.Heads(sid)
			if err != nil {
				return nil, fmt.Errorf("linear: diff: existence heads for %s: %w", line, err)
			}
			if err := emit(heads, change.LineExistence{File: file, Line: line, Existence: false}); err != nil {
				return nil, fmt.Errorf("linear: diff: delete %s: %w", line, err)
			}

		case OpInsert:
			line, err := ids.NewLineId()
			if err != nil {
				return nil, fmt.Errorf("linear: diff: mint line id: %w", err)
			}
			content, err := reg.WriteBytes([]byte(op.Text))
			if err != nil {
				return nil, fmt.Errorf("linear: diff: store content: %w", err)
			}
			if err := emit(nil, change.LineExistence{File: file, Line: line, Existence: true}); err != nil {
				return nil, err
			}
			if err := emit(nil, change.LineContent{File: file, Line: line, Content: content}); err != nil {
				return nil, err
			}
			segments[cur()] = append(segments[cur()], line)
		}
	}

	// Re-link parent/child within each segment independently. The first
	// segment's leading edge anchors to FIRST and the last segment's
	// trailing edge anchors to LAST; a segment bounded by a barrier on
	// either side leaves that side unlinked, since the untouched
	// conflict it borders already owns those edges.
	for i, seg := range segments {
		prev := ids.LineIdFirst
		havePrev := i == 0
		for _, line := range seg {
			if havePrev {
				if err := relink(rt, emit, file, prev, line); err != nil {
					return nil, err
				}
			}
			prev, havePrev = line, true
		}
		if havePrev && i == len(segments)-1 {
			if err := relink(rt, emit, file, prev, ids.LineIdLast); err != nil {
				return nil, err
			}
		}
	}

	return changes, nil
}

// relink asserts both halves of a parent/child edge, mirroring the
// sentinel exemptions ParentSet/ChildSet apply on read: LineIdFirst
// never carries a Parent facet and LineIdLast never carries a Child
// facet (§3, §8 boundary behaviors), so neither half is written for
// those endpoints. Each half is skipped when the resolved set already
// holds exactly that edge, so re-diffing an unchanged file never
// reasserts a Change that would be a no-op (§8 invariant 7).
func relink(rt *repo.ReadTx, emit func([]ids.ChangeHash, change.ChangeContent) error, file ids.FileId, parent, child ids.LineId) error {
	if parent != ids.LineIdLast {
		children, err := rt.ChildSet(file, parent)
		if err != nil {
			return fmt.Errorf("linear: diff: child set for %s: %w", parent, err)
		}
		if !isSingleton(children, child) {
			sid := ids.SingleId{File: file, Line: parent, Facet: ids.FacetChild}
			heads, err := rt.Heads(sid)
			if err != nil {
				return fmt.Errorf("linear: diff: child heads for %s: %w", parent, err)
			}
			if err := emit(heads, change.LineChild{File: file, Line: parent, Child: child}); err != nil {
				return fmt.Errorf("linear: diff: link child %s->%s: %w", parent, child, err)
			}
		}
	}
	if child != ids.LineIdFirst {
		parents, err := rt.ParentSet(file, child)
		if err != nil {
			return fmt.Errorf("linear: diff: parent set for %s: %w", child, err)
		}
		if !isSingleton(parents, parent) {
			sid := ids.SingleId{File: file, Line: child, Facet: ids.FacetParent}
			heads, err := rt.Heads(sid)
			if err != nil {
				return fmt.Errorf("linear: diff: parent heads for %s: %w", child, err)
			}
			if err := emit(heads, change.LineParent{File: file, Line: child, Parent: parent}); err != nil {
				return fmt.Errorf("linear: diff: link parent %s->%s: %w", parent, child, err)
			}
		}
	}
	return nil
}

func isSingleton(set []ids.LineId, want ids.LineId) bool {
	return len(set) == 1 && set[0] == want
}
