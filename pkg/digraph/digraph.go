package digraph

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] and [Graph.AddEdge]
	// when a node ID is empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrSelfEdge is returned by [Graph.AddEdge] when source and target are
	// the same node. Self-edges are excluded from the model; loaders discard
	// them before they reach the graph.
	ErrSelfEdge = errors.New("self-edge not allowed")

	// ErrDuplicateEdge is returned by [Graph.AddEdge] when the edge already
	// exists. The graph is a simple digraph; duplicates must be collapsed by
	// the loader.
	ErrDuplicateEdge = errors.New("duplicate edge")

	// ErrEdgeNotFound is returned by [Graph.RemoveEdge] when the requested
	// edge is not present. Removal of a missing edge indicates a bookkeeping
	// defect in the caller and is fatal to a search run.
	ErrEdgeNotFound = errors.New("edge not found")

	// ErrEmptyRestoreStack is returned by [Graph.RestoreLastEdge] when there
	// is nothing to restore. This is a contract violation in the search
	// controller, not a user-facing condition.
	ErrEmptyRestoreStack = errors.New("restore stack is empty")

	// ErrInvariantViolation is returned when the in-degree cache diverges
	// from the edges actually present. The graph state is corrupt at that
	// point and the run must abort.
	ErrInvariantViolation = errors.New("in-degree invariant violation")
)

// Edge is a directed, unweighted connection between two nodes.
type Edge struct {
	From string
	To   string
}

// node carries the per-node state the solver depends on: forward adjacency
// in insertion order (for deterministic traversal and restore ordering) and
// the cached in-degree.
type node struct {
	succ   []string
	indeg  int
	outSet map[string]struct{}
}

// Graph is a simple directed graph with incremental edge removal and exact
// undo. Nodes are identified by opaque strings and remembered in first-seen
// order; that order is the documented tie-break for the solver's candidate
// ranking.
//
// The zero value is not usable - use [New].
// Graph is not safe for concurrent use.
type Graph struct {
	order   []string
	nodes   map[string]*node
	restore []Edge
	edges   int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{nodes: make(map[string]*node)}
}

// AddNode registers a node with no edges. Returns ErrInvalidNodeID for an
// empty ID and ErrDuplicateNodeID if the node already exists. Most callers
// never need this: [Graph.AddEdge] registers endpoints on first sight.
func (g *Graph) AddNode(id string) error {
	if id == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[id]; exists {
		return ErrDuplicateNodeID
	}
	g.register(id)
	return nil
}

// register adds the node if it is not known yet and returns it.
func (g *Graph) register(id string) *node {
	if n, ok := g.nodes[id]; ok {
		return n
	}
	n := &node{outSet: make(map[string]struct{})}
	g.nodes[id] = n
	g.order = append(g.order, id)
	return n
}

// AddEdge inserts the edge u→v, registering unknown endpoints, and
// increments the in-degree of v. Returns ErrSelfEdge when u == v,
// ErrInvalidNodeID for empty endpoints, and ErrDuplicateEdge when the edge
// is already present.
func (g *Graph) AddEdge(u, v string) error {
	if u == "" || v == "" {
		return ErrInvalidNodeID
	}
	if u == v {
		return ErrSelfEdge
	}
	src := g.register(u)
	dst := g.register(v)
	if _, dup := src.outSet[v]; dup {
		return ErrDuplicateEdge
	}
	src.succ = append(src.succ, v)
	src.outSet[v] = struct{}{}
	dst.indeg++
	g.edges++
	return nil
}

// RemoveEdge removes the edge u→v, decrements the in-degree of v, and
// pushes the edge onto the restore stack. The edge must exist; removal of a
// missing edge returns ErrEdgeNotFound. A decrement that would drive the
// in-degree negative returns ErrInvariantViolation instead of clamping.
func (g *Graph) RemoveEdge(u, v string) error {
	src, ok := g.nodes[u]
	if !ok {
		return fmt.Errorf("%w: %s -> %s", ErrEdgeNotFound, u, v)
	}
	if _, ok := src.outSet[v]; !ok {
		return fmt.Errorf("%w: %s -> %s", ErrEdgeNotFound, u, v)
	}
	dst := g.nodes[v]
	if dst.indeg <= 0 {
		return fmt.Errorf("%w: node %s: in-degree %d with edge %s -> %s present",
			ErrInvariantViolation, v, dst.indeg, u, v)
	}
	src.succ = slices.DeleteFunc(src.succ, func(s string) bool { return s == v })
	delete(src.outSet, v)
	dst.indeg--
	g.edges--
	g.restore = append(g.restore, Edge{From: u, To: v})
	return nil
}

// RestoreLastEdge pops the most recently removed edge and re-inserts it.
// Returns ErrEmptyRestoreStack if nothing has been removed.
//
// The guarantee is set-level, not order-level: after undoing a removal
// sequence, the edge set and every in-degree are exactly as before, but the
// restored edge sits at the end of its source's adjacency list rather than
// at its original position. No query in this package or the solver depends
// on successor order, only on membership and counts.
func (g *Graph) RestoreLastEdge() error {
	if len(g.restore) == 0 {
		return ErrEmptyRestoreStack
	}
	e := g.restore[len(g.restore)-1]
	g.restore = g.restore[:len(g.restore)-1]

	// The edge was present before removal, so re-adding cannot collide.
	src := g.nodes[e.From]
	src.succ = append(src.succ, e.To)
	src.outSet[e.To] = struct{}{}
	g.nodes[e.To].indeg++
	g.edges++
	return nil
}

// RemoveSuccessors removes every outgoing edge of each node in nodes, in
// the given node order and per-node adjacency order, and returns the number
// of edges removed. The count is exactly how many [Graph.RestoreLastEdge]
// calls undo the operation. On error the edges removed so far have already
// been pushed onto the restore stack, so the caller can still unwind by the
// partial count; in practice an error here means corrupted state and the
// run aborts.
func (g *Graph) RemoveSuccessors(nodes []string) (int, error) {
	// Snapshot first: RemoveEdge mutates the adjacency slices being walked.
	var pending []Edge
	for _, u := range nodes {
		n, ok := g.nodes[u]
		if !ok {
			continue
		}
		for _, v := range n.succ {
			pending = append(pending, Edge{From: u, To: v})
		}
	}

	for i, e := range pending {
		if err := g.RemoveEdge(e.From, e.To); err != nil {
			return i, err
		}
	}
	return len(pending), nil
}

// ZeroInDegree returns the nodes with in-degree 0 that are not in reachable,
// in node insertion order. Pure query, no mutation. A nil reachable set is
// treated as empty.
func (g *Graph) ZeroInDegree(reachable map[string]struct{}) []string {
	var out []string
	for _, id := range g.order {
		if g.nodes[id].indeg != 0 {
			continue
		}
		if _, ok := reachable[id]; ok {
			continue
		}
		out = append(out, id)
	}
	return out
}

// HasNode reports whether the node is known to the graph.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// HasEdge reports whether the edge u→v is currently present.
func (g *Graph) HasEdge(u, v string) bool {
	n, ok := g.nodes[u]
	if !ok {
		return false
	}
	_, ok = n.outSet[v]
	return ok
}

// Nodes returns all node IDs in insertion order. The returned slice is a
// copy and safe to modify.
func (g *Graph) Nodes() []string { return slices.Clone(g.order) }

// Successors returns the current successor IDs of the node in adjacency
// order. The returned slice should not be modified.
func (g *Graph) Successors(id string) []string {
	n, ok := g.nodes[id]
	if !ok {
		return nil
	}
	return n.succ
}

// OutDegree returns the number of outgoing edges currently present.
// Returns 0 for unknown nodes.
func (g *Graph) OutDegree(id string) int {
	n, ok := g.nodes[id]
	if !ok {
		return 0
	}
	return len(n.succ)
}

// InDegree returns the cached in-degree. Returns 0 for unknown nodes.
func (g *Graph) InDegree(id string) int {
	n, ok := g.nodes[id]
	if !ok {
		return 0
	}
	return n.indeg
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges currently present.
func (g *Graph) EdgeCount() int { return g.edges }

// RestoreDepth returns the number of removed edges awaiting restoration.
func (g *Graph) RestoreDepth() int { return len(g.restore) }

// Edges returns the edges currently present, grouped by source node in
// insertion order. The result is a copy.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.edges)
	for _, u := range g.order {
		for _, v := range g.nodes[u].succ {
			out = append(out, Edge{From: u, To: v})
		}
	}
	return out
}

// CheckIntegrity recomputes every in-degree from adjacency and compares it
// against the cache. Returns ErrInvariantViolation naming the first node
// whose cached count diverges. O(N+E); intended for tests and debugging.
func (g *Graph) CheckIntegrity() error {
	actual := make(map[string]int, len(g.nodes))
	for _, u := range g.order {
		n := g.nodes[u]
		if len(n.succ) != len(n.outSet) {
			return fmt.Errorf("%w: node %s: adjacency list has %d entries, set has %d",
				ErrInvariantViolation, u, len(n.succ), len(n.outSet))
		}
		for _, v := range n.succ {
			actual[v]++
		}
	}
	for _, id := range g.order {
		if cached := g.nodes[id].indeg; cached != actual[id] {
			return fmt.Errorf("%w: node %s: cached in-degree %d, actual %d",
				ErrInvariantViolation, id, cached, actual[id])
		}
	}
	return nil
}
