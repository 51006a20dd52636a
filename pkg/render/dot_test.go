package render

import (
	"strings"
	"testing"

	"github.com/dagmin/dagmin/pkg/digraph"
)

func buildGraph(t *testing.T) *digraph.Graph {
	t.Helper()
	g := digraph.New()
	for _, e := range [][2]string{{"A", "B"}, {"B", "C"}, {"D", "C"}} {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			t.Fatalf("AddEdge(%s, %s): %v", e[0], e[1], err)
		}
	}
	return g
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(buildGraph(t), Options{})

	if !strings.HasPrefix(dot, "digraph G {") {
		t.Errorf("missing digraph header:\n%s", dot)
	}
	for _, want := range []string{`"A";`, `"B";`, `"C";`, `"D";`, `"A" -> "B";`, `"B" -> "C";`, `"D" -> "C";`} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTHighlightsDrivers(t *testing.T) {
	dot := ToDOT(buildGraph(t), Options{Drivers: []string{"A", "D"}})

	if !strings.Contains(dot, `"A" [fillcolor=`) {
		t.Errorf("driver A not highlighted:\n%s", dot)
	}
	if !strings.Contains(dot, `"D" [fillcolor=`) {
		t.Errorf("driver D not highlighted:\n%s", dot)
	}
	if strings.Contains(dot, `"B" [fillcolor=`) {
		t.Errorf("non-driver B should not be highlighted:\n%s", dot)
	}
}

func TestToDOTUnknownDriverIgnored(t *testing.T) {
	dot := ToDOT(buildGraph(t), Options{Drivers: []string{"nope"}})
	if strings.Contains(dot, `"nope"`) {
		t.Errorf("unknown driver should not appear:\n%s", dot)
	}
}

func TestToDOTLabel(t *testing.T) {
	dot := ToDOT(buildGraph(t), Options{Label: "k=2"})
	if !strings.Contains(dot, `label="k=2";`) {
		t.Errorf("label missing:\n%s", dot)
	}
}
