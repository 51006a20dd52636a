package io

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	dagminerrors "github.com/dagmin/dagmin/pkg/errors"
)

func TestReadEdgeList(t *testing.T) {
	input := strings.Join([]string{
		"# comment line",
		"A B",
		"B C",
		"",
		"D C",
		"A B", // duplicate, collapsed
		"E E", // self-edge, discarded
	}, "\n")

	g, err := ReadEdgeList(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadEdgeList: %v", err)
	}

	if g.EdgeCount() != 3 {
		t.Errorf("EdgeCount = %d, want 3", g.EdgeCount())
	}
	if !g.HasEdge("A", "B") || !g.HasEdge("B", "C") || !g.HasEdge("D", "C") {
		t.Error("expected edges missing")
	}

	// No node may carry a self-edge, whatever the input contained.
	for _, id := range g.Nodes() {
		if g.HasEdge(id, id) {
			t.Errorf("self-edge survived load: %s", id)
		}
	}
}

func TestReadEdgeListTabsAndExtraFields(t *testing.T) {
	g, err := ReadEdgeList(strings.NewReader("a\tb\t1.5\nb  c\n"))
	if err != nil {
		t.Fatalf("ReadEdgeList: %v", err)
	}
	if !g.HasEdge("a", "b") || !g.HasEdge("b", "c") {
		t.Error("whitespace variants not parsed")
	}
}

func TestReadEdgeListMalformed(t *testing.T) {
	_, err := ReadEdgeList(strings.NewReader("a b\nlonely\nc d\n"))
	if err == nil {
		t.Fatal("expected error for single-field line")
	}
	if !dagminerrors.Is(err, dagminerrors.ErrCodeMalformedInput) {
		t.Errorf("got %v, want MALFORMED_INPUT", err)
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error should name the offending line: %v", err)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	input := "a b\nb c\nd c\n"
	g, err := ReadEdgeList(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadEdgeList: %v", err)
	}
	if err := g.AddNode("isolated"); err != nil {
		t.Fatalf("AddNode: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	back, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if back.NodeCount() != g.NodeCount() || back.EdgeCount() != g.EdgeCount() {
		t.Errorf("round trip: %d/%d nodes, %d/%d edges",
			back.NodeCount(), g.NodeCount(), back.EdgeCount(), g.EdgeCount())
	}
	if !back.HasNode("isolated") {
		t.Error("isolated node lost in round trip")
	}

	a := g.Nodes()
	b := back.Nodes()
	slices.Sort(a)
	slices.Sort(b)
	if !slices.Equal(a, b) {
		t.Errorf("node sets differ: %v vs %v", a, b)
	}
}

func TestReadJSONMalformed(t *testing.T) {
	_, err := ReadJSON(strings.NewReader("{not json"))
	if !dagminerrors.Is(err, dagminerrors.ErrCodeMalformedInput) {
		t.Errorf("got %v, want MALFORMED_INPUT", err)
	}
}

func TestReadJSONSelfEdgeDiscarded(t *testing.T) {
	g, err := ReadJSON(strings.NewReader(`{"edges":[{"from":"a","to":"a"},{"from":"a","to":"b"}]}`))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if g.EdgeCount() != 1 || g.HasEdge("a", "a") {
		t.Errorf("self-edge not discarded: %d edges", g.EdgeCount())
	}
}
