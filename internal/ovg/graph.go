// Package ovg builds and linearizes the per-file Object-Vertex-Graph
// (§4.5): the multi-content graph of (LineId, ContentHash) nodes derived
// from a repository's resolved head facets, condensed and linearized
// into an ordered sequence of render slots.
package ovg

import (
	"fmt"

	"github.com/solipr/engine/internal/ids"
	"github.com/solipr/engine/internal/repo"
)

// Node is a vertex of the OVG: a line identity paired with one of its
// resolved content values (§3 Line).
type Node struct {
	Line    ids.LineId
	Content ids.ContentHash
}

// Graph is the multi-content graph for one file (§4.5 step 1): nodes are
// (LineId, ContentHash) pairs, edges encode parent/child relationships,
// including orphan edges where the two facets disagree (deletion
// conflicts, §3 Relationships).
type Graph struct {
	Nodes    map[Node]bool
	Edges    map[Node][]Node // forward: parent -> child
	RevEdges map[Node][]Node // predecessors
}

type edgeKey struct{ from, to Node }

// Build materializes the multi-content graph for file from rt's
// resolved head facets (§4.5 step 1): a breadth-first traversal starting
// at the existing lines, propagated through parent and child facets so
// that orphan edges (surfacing deletion conflicts) are represented even
// when one endpoint has been deleted.
func Build(rt *repo.ReadTx, file ids.FileId) (*Graph, error) {
	existing, err := rt.ExistingLines(file)
	if err != nil {
		return nil, fmt.Errorf("ovg: build: existing lines: %w", err)
	}

	visited := make(map[ids.LineId]bool)
	queue := append([]ids.LineId(nil), existing...)
	for len(queue) > 0 {
		line := queue[0]
		queue = queue[1:]
		if visited[line] {
			continue
		}
		visited[line] = true

		parents, err := rt.ParentSet(file, line)
		if err != nil {
			return nil, fmt.Errorf("ovg: build: parents of %s: %w", line, err)
		}
		children, err := rt.ChildSet(file, line)
		if err != nil {
			return nil, fmt.Errorf("ovg: build: children of %s: %w", line, err)
		}
		for _, p := range parents {
			if !visited[p] {
				queue = append(queue, p)
			}
		}
		for _, c := range children {
			if !visited[c] {
				queue = append(queue, c)
			}
		}
	}

	lineContents := make(map[ids.LineId][]ids.ContentHash, len(visited))
	g := &Graph{
		Nodes:    make(map[Node]bool),
		Edges:    make(map[Node][]Node),
		RevEdges: make(map[Node][]Node),
	}
	for line := range visited {
		contents, err := rt.ContentSet(file, line)
		if err != nil {
			return nil, fmt.Errorf("ovg: build: content of %s: %w", line, err)
		}
		lineContents[line] = contents
		for _, c := range contents {
			g.Nodes[Node{Line: line, Content: c}] = true
		}
	}

	seen := make(map[edgeKey]bool)
	addEdge := func(from, to Node) {
		k := edgeKey{from, to}
		if seen[k] {
			return
		}
		seen[k] = true
		g.Edges[from] = append(g.Edges[from], to)
		g.RevEdges[to] = append(g.RevEdges[to], from)
	}

	for line := range visited {
		contents := lineContents[line]

		parents, err := rt.ParentSet(file, line)
		if err != nil {
			return nil, fmt.Errorf("ovg: build: parents of %s: %w", line, err)
		}
		for _, p := range parents {
			for _, pc := range lineContents[p] {
				for _, c := range contents {
					addEdge(Node{Line: p, Content: pc}, Node{Line: line, Content: c})
				}
			}
		}

		children, err := rt.ChildSet(file, line)
		if err != nil {
			return nil, fmt.Errorf("ovg: build: children of %s: %w", line, err)
		}
		for _, ch := range children {
			for _, cc := range lineContents[ch] {
				for _, c := range contents {
					addEdge(Node{Line: line, Content: c}, Node{Line: ch, Content: cc})
				}
			}
		}
	}

	return g, nil
}
