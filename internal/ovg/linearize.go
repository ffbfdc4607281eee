package ovg

import (
	"bytes"
	"sort"
)

// Slot is one rendered unit (§4.5 step 3/4): either a singleton (one
// path containing one macro-node - the common case of a single line) or
// a conflict group (multiple alternative paths spanning a branch-to-join
// region of the condensed DAG).
type Slot struct {
	Paths [][]MacroNode
}

// IsConflict reports whether s has more than one alternative path.
func (s Slot) IsConflict() bool { return len(s.Paths) > 1 }

// Linearize walks the condensed DAG in topological order (a Kahn-style
// barrier: a macro-node is only ready once every predecessor has been
// emitted) and groups it into an ordered list of slots (§4.5 step 3).
//
// Conflict detection covers the single-entry/single-exit diamond shape:
// a branch point (out-degree > 1) whose alternative forward chains
// reconverge at a unique node receiving exactly one incoming edge per
// branch. followBranch gives up on any branch that forks again or that
// never reconverges at such a node, at which point its partial path is
// still emitted as that branch's alternative - so a nested or
// overlapping conflict region does not get its own inner slot boundary;
// see the "Conflict group scope" entry in DESIGN.md for why this is the
// scope this module targets rather than full path enumeration.
func Linearize(c *Condensation) []Slot {
	order := topoOrder(c)
	consumed := make(map[int]bool, len(order))

	var slots []Slot
	for _, node := range order {
		if consumed[node] {
			continue
		}
		consumed[node] = true

		out := c.Edges[node]
		if len(out) <= 1 {
			slots = append(slots, Slot{Paths: [][]MacroNode{{c.Macros[node]}}})
			continue
		}

		slots = append(slots, Slot{Paths: [][]MacroNode{{c.Macros[node]}}})

		branches := append([]int(nil), out...)
		sort.Slice(branches, func(i, j int) bool { return macroLess(c.Macros[branches[i]], c.Macros[branches[j]]) })

		paths := make([][]MacroNode, 0, len(branches))
		for _, b := range branches {
			path, trailing := followBranch(c, b, len(branches), consumed)
			paths = append(paths, path)
			_ = trailing // the join node itself is re-visited normally by the outer topo loop
		}
		slots = append(slots, Slot{Paths: paths})
	}
	return slots
}

// followBranch walks forward from a branch's entry node until it either
// reaches the join (a node receiving exactly numBranches incoming
// edges, left unconsumed for the outer loop to emit as its own slot) or
// a dead end (no join within this DAG, e.g. an unresolved conflict at
// end of file).
func followBranch(c *Condensation, start, numBranches int, consumed map[int]bool) ([]MacroNode, int) {
	var path []MacroNode
	cur := start
	for {
		if len(c.RevEdges[cur]) == numBranches {
			return path, cur
		}
		path = append(path, c.Macros[cur])
		consumed[cur] = true

		succ := c.Edges[cur]
		if len(succ) != 1 {
			return path, -1
		}
		cur = succ[0]
	}
}

// topoOrder produces a deterministic topological ordering of c's
// macro-nodes: ready nodes (all predecessors emitted) are processed in
// ascending macro-key order, so repeated linearizations of the same
// state always agree (§8 invariant 6).
func topoOrder(c *Condensation) []int {
	inDegree := make([]int, len(c.Macros))
	for i := range c.Macros {
		inDegree[i] = len(c.RevEdges[i])
	}

	var ready []int
	for i, d := range inDegree {
		if d == 0 {
			ready = append(ready, i)
		}
	}

	var order []int
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool { return macroLess(c.Macros[ready[i]], c.Macros[ready[j]]) })
		n := ready[0]
		ready = ready[1:]
		order = append(order, n)

		for _, succ := range c.Edges[n] {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				ready = append(ready, succ)
			}
		}
	}
	return order
}

// macroLess orders two macro-nodes by their lexicographically smallest
// member, giving a total, deterministic order over ties in the
// topological sort and over branch enumeration.
func macroLess(a, b MacroNode) bool {
	return bytes.Compare(macroKey(a), macroKey(b)) < 0
}

func macroKey(m MacroNode) []byte {
	best := nodeKey(m.Members[0])
	for _, n := range m.Members[1:] {
		k := nodeKey(n)
		if bytes.Compare(k, best) < 0 {
			best = k
		}
	}
	return best
}

func nodeKey(n Node) []byte {
	k := make([]byte, 0, 48)
	k = append(k, n.Line[:]...)
	k = append(k, n.Content[:]...)
	return k
}
