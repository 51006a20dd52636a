package solver

import (
	"fmt"
	"slices"
	"testing"

	"github.com/dagmin/dagmin/pkg/digraph"
)

func TestScore(t *testing.T) {
	// hub: out 3, in 0, all successors fresh -> 3 + 6 = 9
	// mid: out 1, in 1, successor fresh      -> 0 + 2 = 2
	// leaf: out 0, in 2                      -> -2
	g := build(t, [][2]string{
		{"hub", "a"}, {"hub", "b"}, {"hub", "leaf"},
		{"mid", "leaf"}, {"a", "mid"},
	})
	reach := map[string]struct{}{}

	cases := []struct {
		node string
		want int
	}{
		{"hub", 9},
		{"mid", 2},
		{"leaf", -2},
	}
	for _, c := range cases {
		if got := Score(g, c.node, reach); got != c.want {
			t.Errorf("Score(%s) = %d, want %d", c.node, got, c.want)
		}
	}

	// Reachable successors stop counting as fresh.
	reach["a"] = struct{}{}
	reach["b"] = struct{}{}
	if got := Score(g, "hub", reach); got != 5 { // 3 - 0 + 2*1
		t.Errorf("Score(hub) with reachable successors = %d, want 5", got)
	}
}

func TestRankCandidatesExcludesReachable(t *testing.T) {
	g := build(t, [][2]string{{"a", "b"}, {"c", "d"}})
	reach := map[string]struct{}{"a": {}, "b": {}}

	got := RankCandidates(g, reach, 2)
	for _, id := range got {
		if _, ok := reach[id]; ok {
			t.Errorf("reachable node %s ranked as candidate", id)
		}
	}
	if !slices.Contains(got, "c") || !slices.Contains(got, "d") {
		t.Errorf("candidates = %v, want c and d present", got)
	}
}

func TestRankCandidatesOrdering(t *testing.T) {
	// big fans out to three fresh nodes, small to one, sink to none.
	g := build(t, [][2]string{
		{"big", "x"}, {"big", "y"}, {"big", "z"},
		{"small", "x"},
		{"x", "sink"}, {"y", "sink"},
	})

	got := RankCandidates(g, nil, 1)
	if len(got) == 0 || got[0] != "big" {
		t.Errorf("top candidate = %v, want big first", got)
	}
	posSmall := slices.Index(got, "small")
	posSink := slices.Index(got, "sink")
	if posSmall == -1 || posSink == -1 || posSmall > posSink {
		t.Errorf("ordering %v: small must rank above sink", got)
	}
}

func TestRankCandidatesTieBreak(t *testing.T) {
	// Isolated nodes all score zero; insertion order decides.
	g := digraph.New()
	for _, id := range []string{"m", "a", "z", "k"} {
		if err := g.AddNode(id); err != nil {
			t.Fatalf("AddNode: %v", err)
		}
	}

	got := RankCandidates(g, nil, 4)
	if !slices.Equal(got, []string{"m", "a", "z", "k"}) {
		t.Errorf("tie-break order = %v, want insertion order [m a z k]", got)
	}
}

func TestRankCandidatesCutoff(t *testing.T) {
	g := digraph.New()
	for i := 0; i < 25; i++ {
		if err := g.AddNode(fmt.Sprintf("n%02d", i)); err != nil {
			t.Fatalf("AddNode: %v", err)
		}
	}

	// count + min(10, eligible) = 3 + 10
	if got := RankCandidates(g, nil, 3); len(got) != 13 {
		t.Errorf("len = %d, want 13", len(got))
	}

	// Fewer eligible nodes than the cutoff: return them all.
	reach := map[string]struct{}{}
	for i := 0; i < 20; i++ {
		reach[fmt.Sprintf("n%02d", i)] = struct{}{}
	}
	if got := RankCandidates(g, reach, 3); len(got) != 5 {
		t.Errorf("len = %d, want all 5 eligible", len(got))
	}
}

func TestRankCandidatesPure(t *testing.T) {
	g := build(t, [][2]string{{"a", "b"}, {"b", "c"}})
	edges := g.EdgeCount()
	_ = RankCandidates(g, nil, 2)
	_ = RankCandidates(g, nil, 2)
	if g.EdgeCount() != edges || g.RestoreDepth() != 0 {
		t.Error("RankCandidates mutated the graph")
	}
}
