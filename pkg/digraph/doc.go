// Package digraph provides the mutable directed graph that backs the
// driver-set search.
//
// # Overview
//
// The solver explores candidate driver sets by destructively mutating one
// shared graph and reverting it in place, never by copying. This package
// provides the three pieces that make that cheap and exact:
//
//   - forward adjacency with an incrementally maintained in-degree cache
//     (never recomputed after construction),
//   - a LIFO restore stack of removed edges, so any sequence of removals
//     can be undone edge-for-edge in reverse order,
//   - pure queries over the current state ([Graph.ZeroInDegree] and friends)
//     that the cascade and the ranking heuristic consult.
//
// # Basic Usage
//
// Create a graph with [New], add edges with [Graph.AddEdge] (nodes are
// registered on first sight), and mutate it with [Graph.RemoveEdge] or
// [Graph.RemoveSuccessors]. Every removal is recorded; calling
// [Graph.RestoreLastEdge] once per removal returns the graph to its exact
// prior state:
//
//	g := digraph.New()
//	g.AddEdge("a", "b")
//	g.AddEdge("b", "c")
//	n, _ := g.RemoveSuccessors([]string{"a"})
//	for i := 0; i < n; i++ {
//		g.RestoreLastEdge()
//	}
//
// # Invariants
//
// The in-degree cache of a node always equals the number of edges currently
// targeting it. Violations are programming errors and surface as
// [ErrInvariantViolation] rather than being clamped or ignored.
// [Graph.CheckIntegrity] recomputes the truth from adjacency and reports the
// first divergence; it exists for tests and paranoid callers, not for the
// hot path.
//
// Graph is not safe for concurrent use. The solver owns its graph instance
// exclusively for the duration of a run; the restore-stack discipline is
// inherently sequential.
package digraph
