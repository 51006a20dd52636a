package solver

import (
	"slices"

	"github.com/dagmin/dagmin/pkg/digraph"
)

// rankBuffer is the extra headroom added to the candidate cutoff: wide
// enough to survive a few bad top picks, narrow enough to keep branching
// cheap.
const rankBuffer = 10

// Score rates a node as a driver-set candidate against the current
// reachable set. Higher is better:
//
//	score = (out_degree - in_degree) + 2 * |successors not yet reachable|
//
// The first term prefers source-like nodes (more likely to be impossible to
// reach by implication), the second term prefers nodes that immediately
// unlock many new nodes. Pure function of the current graph state.
func Score(g *digraph.Graph, id string, reachable map[string]struct{}) int {
	fresh := 0
	for _, v := range g.Successors(id) {
		if _, ok := reachable[v]; !ok {
			fresh++
		}
	}
	return g.OutDegree(id) - g.InDegree(id) + 2*fresh
}

// RankCandidates returns the most promising not-yet-reachable nodes, best
// first, cut off at count + min(10, eligible). Ties are broken by node
// insertion order (first appearance in the input), which makes the ranking
// - and therefore the whole search - deterministic for a given input.
//
// The cutoff is a heuristic pruning: branches below it are never explored,
// so on adversarial graphs the search can miss a valid driver set at some k
// and settle for a larger one. This trade of completeness for speed is
// deliberate.
//
// Pure query; safe to call at any point in the search.
func RankCandidates(g *digraph.Graph, reachable map[string]struct{}, count int) []string {
	var eligible []string
	for _, id := range g.Nodes() {
		if _, ok := reachable[id]; !ok {
			eligible = append(eligible, id)
		}
	}

	scores := make(map[string]int, len(eligible))
	for _, id := range eligible {
		scores[id] = Score(g, id, reachable)
	}
	slices.SortStableFunc(eligible, func(a, b string) int {
		return scores[b] - scores[a]
	})

	limit := count + min(rankBuffer, len(eligible))
	if limit > len(eligible) {
		limit = len(eligible)
	}
	return eligible[:limit]
}
