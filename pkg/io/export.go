package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dagmin/dagmin/pkg/digraph"
	"github.com/dagmin/dagmin/pkg/solver"
)

// ToDoc converts a graph to its JSON document form. Isolated nodes are
// listed explicitly so a round trip preserves the node set.
func ToDoc(g *digraph.Graph) GraphDoc {
	doc := GraphDoc{Edges: make([]EdgeDoc, 0, g.EdgeCount())}
	for _, e := range g.Edges() {
		doc.Edges = append(doc.Edges, EdgeDoc{From: e.From, To: e.To})
	}
	for _, id := range g.Nodes() {
		if g.OutDegree(id) == 0 && g.InDegree(id) == 0 {
			doc.Nodes = append(doc.Nodes, id)
		}
	}
	return doc
}

// WriteJSON encodes a graph as JSON and writes it to w.
// The output can be re-imported with [ReadJSON] for round-trip processing.
func WriteJSON(g *digraph.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ToDoc(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteResult encodes a solve result as indented JSON.
func WriteResult(res solver.Result, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}

// ExportResult writes a solve result to a JSON file at path.
func ExportResult(res solver.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteResult(res, f)
}
