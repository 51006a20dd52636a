// Package solver finds a minimum driver set of a directed graph: the
// smallest set of seed nodes from which the implication cascade reaches
// every node.
//
// # The implication cascade
//
// Given a set of reachable nodes, the cascade repeatedly peels the frontier
// of zero-in-degree nodes not yet reached, marks them reachable, and removes
// their outgoing edges (which may expose a new frontier). It succeeds when
// every node is reachable and dead-ends when the frontier is empty while
// nodes remain. The cascade has no choices to make, so it is deterministic
// for a fixed graph and starting set.
//
// # The search
//
// [Solve] seeds the driver set with the unconditional zero-in-degree nodes
// (size k0) and escalates a target size k from k0 upward. For each k it
// extends the driver set with heuristically ranked candidates ([Score],
// [RankCandidates]), backtracking through the graph's restore stack so that
// every failed branch leaves the graph exactly as it found it. The first k
// that admits a full cascade wins.
//
// The candidate list per extension is capped at need + min(10, eligible);
// this pruning makes the search fast but formally incomplete on adversarial
// inputs (see [RankCandidates]).
//
// Cyclic inputs are not detected or rejected. A node inside a cycle can
// never be peeled, so the search escalates until some driver choice breaks
// the cycle; in the worst case it terminates at k equal to the node count,
// where the driver set is all nodes and the cascade is trivially satisfied.
//
// # State and ownership
//
// All search state (reachable set, level list) lives in an explicit
// per-run value, so independent searches never interfere. The solver
// mutates the caller's graph during the run and does not restore it after
// success; build a fresh graph (or use [Verify], which does restore) if the
// instance is needed afterwards.
package solver
