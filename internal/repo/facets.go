package repo

import (
	"fmt"

	"github.com/solipr/engine/internal/change"
	"github.com/solipr/engine/internal/ids"
)

// Existence is the resolved value of a line's LineExistence facet
// (§4.4.3). Conflict is true when the applied heads disagree, in which
// case Value carries no meaning.
type Existence struct {
	Value    bool
	Conflict bool
}

// Existence resolves the LineExistence facet for (file, line): None on
// disagreement (Conflict=true), Some(bool) on unanimity, Some(false) on
// no heads (§4.4.3).
func (rt *ReadTx) Existence(file ids.FileId, line ids.LineId) (Existence, error) {
	sid := ids.SingleId{File: file, Line: line, Facet: ids.FacetExistence}
	heads, err := rt.Heads(sid)
	if err != nil {
		return Existence{}, fmt.Errorf("repo: existence %s: %w", sid, err)
	}
	if len(heads) == 0 {
		return Existence{Value: false}, nil
	}

	var first bool
	for i, h := range heads {
		c, ok, err := rt.Change(h)
		if err != nil {
			return Existence{}, fmt.Errorf("repo: existence %s: %w", sid, err)
		}
		if !ok {
			continue
		}
		le, ok := c.Content.(change.LineExistence)
		if !ok {
			return Existence{}, fmt.Errorf("repo: existence %s: head %s is not a LineExistence change", sid, h)
		}
		if i == 0 {
			first = le.Existence
		} else if le.Existence != first {
			return Existence{Conflict: true}, nil
		}
	}
	return Existence{Value: first}, nil
}

// ContentSet resolves the LineContent facet for (file, line): the union
// of ContentHash across all heads (§4.4.3). An empty result is a valid
// resolved state (no content heads).
func (rt *ReadTx) ContentSet(file ids.FileId, line ids.LineId) ([]ids.ContentHash, error) {
	sid := ids.SingleId{File: file, Line: line, Facet: ids.FacetContent}
	heads, err := rt.Heads(sid)
	if err != nil {
		return nil, fmt.Errorf("repo: content %s: %w", sid, err)
	}
	var out []ids.ContentHash
	for _, h := range heads {
		c, ok, err := rt.Change(h)
		if err != nil {
			return nil, fmt.Errorf("repo: content %s: %w", sid, err)
		}
		if !ok {
			continue
		}
		lc, ok := c.Content.(change.LineContent)
		if !ok {
			return nil, fmt.Errorf("repo: content %s: head %s is not a LineContent change", sid, h)
		}
		out = append(out, lc.Content)
	}
	return out, nil
}

// ParentSet resolves the LineParent facet for (file, line): the union of
// parent LineId across all heads, defaulting to {FIRST} when empty.
// LineIdFirst has no parents by definition and always resolves to the
// empty set (§4.4.3, §8 boundary behaviors).
func (rt *ReadTx) ParentSet(file ids.FileId, line ids.LineId) ([]ids.LineId, error) {
	if line == ids.LineIdFirst {
		return nil, nil
	}
	set, err := rt.linkSet(file, line, ids.FacetParent, func(c change.ChangeContent) (ids.LineId, bool) {
		lp, ok := c.(change.LineParent)
		if !ok {
			return ids.LineId{}, false
		}
		return lp.Parent, true
	})
	if err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return []ids.LineId{ids.LineIdFirst}, nil
	}
	return set, nil
}

// ChildSet resolves the LineChild facet for (file, line): the union of
// child LineId across all heads, defaulting to {LAST} when empty.
// LineIdLast has no children by definition and always resolves to the
// empty set (§4.4.3, §8 boundary behaviors).
func (rt *ReadTx) ChildSet(file ids.FileId, line ids.LineId) ([]ids.LineId, error) {
	if line == ids.LineIdLast {
		return nil, nil
	}
	set, err := rt.linkSet(file, line, ids.FacetChild, func(c change.ChangeContent) (ids.LineId, bool) {
		lc, ok := c.(change.LineChild)
		if !ok {
			return ids.LineId{}, false
		}
		return lc.Child, true
	})
	if err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return []ids.LineId{ids.LineIdLast}, nil
	}
	return set, nil
}

func (rt *ReadTx) linkSet(file ids.FileId, line ids.LineId, facet ids.Facet, extract func(change.ChangeContent) (ids.LineId, bool)) ([]ids.LineId, error) {
	sid := ids.SingleId{File: file, Line: line, Facet: facet}
	heads, err := rt.Heads(sid)
	if err != nil {
		return nil, fmt.Errorf("repo: %s: %w", sid, err)
	}
	var out []ids.LineId
	for _, h := range heads {
		c, ok, err := rt.Change(h)
		if err != nil {
			return nil, fmt.Errorf("repo: %s: %w", sid, err)
		}
		if !ok {
			continue
		}
		v, ok := extract(c.Content)
		if !ok {
			return nil, fmt.Errorf("repo: %s: head %s has unexpected content type", sid, h)
		}
		out = append(out, v)
	}
	return out, nil
}
