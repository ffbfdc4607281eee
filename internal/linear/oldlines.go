package linear

import (
	"fmt"

	"github.com/solipr/engine/internal/ovg"
	"github.com/solipr/engine/internal/registry"
)

// OldEntry is one top-level unit of the file's current rendering, at
// the granularity entryDiff compares against a freshly parsed edit
// (§4.6.2). A plain line compares by content; a still-open CONFLICT or
// CYCLE slot compares as a whole by its marker id, matching §4.6.2's
// equality rule exactly (`Conflict(id1,_) == Conflict(id2,_) iff
// id1==id2`, likewise for Cycle) rather than by the literal marker text
// Render would produce for it.
type OldEntry struct {
	// Block is true for a still-open CONFLICT/CYCLE slot; false for an
	// ordinary singleton line.
	Block bool

	// Line holds the content line and its originating node (valid when
	// !Block).
	Line OldLine

	// ID holds the slot's marker uuid, computed the same way Render
	// would (valid when Block).
	ID string

	// Members holds every line spanned by the slot, in the same
	// left-to-right order Render uses, for the fallback case where no
	// matching marker survives on the new side and the block's content
	// must be diffed line by line instead (valid when Block).
	Members []OldLine
}

// BuildOldEntries flattens slots (the output of ovg.Linearize) into the
// top-level sequence Diff anchors new edits against: one entry per
// singleton line, one opaque entry per still-open conflict or cycle
// slot (§4.6.2).
func BuildOldEntries(slots []ovg.Slot, reg *registry.Registry) ([]OldEntry, error) {
	var out []OldEntry
	for _, slot := range slots {
		if slot.IsConflict() {
			members, err := flattenPaths(slot.Paths, reg)
			if err != nil {
				return nil, err
			}
			out = append(out, OldEntry{
				Block:   true,
				ID:      ovg.ConflictID(slot.Paths),
				Members: members,
			})
			continue
		}

		macro := slot.Paths[0][0]
		if len(macro.Members) > 1 {
			members, err := flattenMacro(macro, reg)
			if err != nil {
				return nil, err
			}
			out = append(out, OldEntry{
				Block:   true,
				ID:      ovg.CycleID(macro),
				Members: members,
			})
			continue
		}

		line, err := oldLineFor(macro.Members[0], reg)
		if err != nil {
			return nil, err
		}
		out = append(out, OldEntry{Line: line})
	}
	return out, nil
}

func flattenPaths(paths [][]ovg.MacroNode, reg *registry.Registry) ([]OldLine, error) {
	var out []OldLine
	for _, path := range paths {
		for _, m := range path {
			lines, err := flattenMacro(m, reg)
			if err != nil {
				return nil, err
			}
			out = append(out, lines...)
		}
	}
	return out, nil
}

func flattenMacro(m ovg.MacroNode, reg *registry.Registry) ([]OldLine, error) {
	out := make([]OldLine, len(m.Members))
	for i, n := range m.Members {
		line, err := oldLineFor(n, reg)
		if err != nil {
			return nil, err
		}
		out[i] = line
	}
	return out, nil
}

func oldLineFor(n ovg.Node, reg *registry.Registry) (OldLine, error) {
	content, err := reg.ReadAll(n.Content)
	if err != nil {
		return OldLine{}, fmt.Errorf("linear: build old entries: content for %s: %w", n.Line, err)
	}
	return OldLine{Node: n, Text: trimNewline(content)}, nil
}

func trimNewline(b []byte) string {
	s := string(b)
	if n := len(s); n > 0 && s[n-1] == '\n' {
		return s[:n-1]
	}
	return s
}
