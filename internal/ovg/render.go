package ovg

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	"github.com/google/uuid"

	"github.com/solipr/engine/internal/registry"
)

// markerNamespace roots the deterministic conflict/cycle marker uuids
// (§9): a fixed, arbitrary namespace distinct from the uuid library's
// predefined ones, so marker uuids never collide with identifiers
// minted elsewhere in this system.
var markerNamespace = uuid.MustParse("8f3e1b2a-0c4d-4e9a-9b1f-6a7d2c5e9301")

// Render produces the linear byte stream for slots (§4.5.1), fetching
// each node's content bytes from reg. Every slot renders to a fragment
// with no newline of its own trailing it; the file is the join of those
// fragments with a bare "\n" separator, so the stream ends with a
// newline only if the last line's content itself carries one - matching
// §4.5.1's "no trailing newline at end of file unless present in
// content" exactly, including for a single-line file. Conflict slots are
// wrapped in CONFLICT markers with alternatives separated by a bare
// "=======" line; cycles (macro-nodes with more than one member) are
// wrapped in CYCLE markers in Tarjan pop order. Marker uuids are derived
// deterministically from the identities of the nodes they bound, so two
// renderers observing the same repository state always emit
// byte-identical output (§8 invariant 6).
func Render(slots []Slot, reg *registry.Registry) ([]byte, error) {
	fragments := make([][]byte, len(slots))
	for i, slot := range slots {
		frag, err := renderSlot(slot, reg)
		if err != nil {
			return nil, err
		}
		fragments[i] = frag
	}
	return bytes.Join(fragments, []byte("\n")), nil
}

func renderSlot(slot Slot, reg *registry.Registry) ([]byte, error) {
	if !slot.IsConflict() {
		return renderPath(slot.Paths[0], reg)
	}

	var buf bytes.Buffer
	id := conflictMarkerID("CONFLICT", slot.Paths)
	fmt.Fprintf(&buf, "<<<<<<< CONFLICT %s\n", id)
	for i, path := range slot.Paths {
		if i > 0 {
			buf.WriteString("=======\n")
		}
		frag, err := renderPath(path, reg)
		if err != nil {
			return nil, err
		}
		buf.Write(frag)
		buf.WriteByte('\n')
	}
	buf.WriteString(">>>>>>> CONFLICT")
	return buf.Bytes(), nil
}

func renderPath(path []MacroNode, reg *registry.Registry) ([]byte, error) {
	fragments := make([][]byte, len(path))
	for i, m := range path {
		frag, err := renderMacro(m, reg)
		if err != nil {
			return nil, err
		}
		fragments[i] = frag
	}
	return bytes.Join(fragments, []byte("\n")), nil
}

func renderMacro(m MacroNode, reg *registry.Registry) ([]byte, error) {
	if len(m.Members) == 1 {
		return renderNode(m.Members[0], reg)
	}

	var buf bytes.Buffer
	id := conflictMarkerID("CYCLE", [][]MacroNode{{m}})
	fmt.Fprintf(&buf, "<<<<<<< CYCLE %s\n", id)
	members := make([][]byte, len(m.Members))
	for i, n := range m.Members {
		frag, err := renderNode(n, reg)
		if err != nil {
			return nil, err
		}
		members[i] = frag
	}
	buf.Write(bytes.Join(members, []byte("\n")))
	buf.WriteByte('\n')
	buf.WriteString(">>>>>>> CYCLE")
	return buf.Bytes(), nil
}

func renderNode(n Node, reg *registry.Registry) ([]byte, error) {
	content, err := reg.ReadAll(n.Content)
	if err != nil {
		return nil, fmt.Errorf("ovg: render: content for %s: %w", n.Line, err)
	}
	return content, nil
}

// ConflictID returns the deterministic marker uuid Render would assign
// to a CONFLICT slot spanning paths (§9), exported so the linear diff
// stage can recognize an untouched conflict by id without re-rendering
// it (§4.6.2).
func ConflictID(paths [][]MacroNode) string {
	return conflictMarkerID("CONFLICT", paths)
}

// CycleID returns the deterministic marker uuid Render would assign to
// a cycle macro-node m (§9), exported for the same reason as
// ConflictID.
func CycleID(m MacroNode) string {
	return conflictMarkerID("CYCLE", [][]MacroNode{{m}})
}

// conflictMarkerID hashes the sorted identities of every node spanned by
// paths into a stable uuid (§9): domain-separated so CONFLICT and CYCLE
// markers never collide even when they happen to bound the same nodes.
func conflictMarkerID(domain string, paths [][]MacroNode) string {
	var keys [][]byte
	for _, path := range paths {
		for _, m := range path {
			for _, n := range m.Members {
				keys = append(keys, nodeKey(n))
			}
		}
	}
	sortByteSlices(keys)

	data := append([]byte(domain), 0)
	for _, k := range keys {
		data = append(data, k...)
	}

	return uuid.NewHash(sha256.New(), markerNamespace, data, 5).String()
}

func sortByteSlices(s [][]byte) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && bytes.Compare(s[j-1], s[j]) > 0; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
