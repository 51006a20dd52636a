// Package io reads and writes dagmin's graph and result formats.
//
// Two input formats are supported: the whitespace-separated edge list
// (one "SOURCE TARGET" pair per line) and a JSON mirror of it used by the
// HTTP API. Self-edges are discarded during load and duplicate edges are
// collapsed; the loaded graph is always a simple digraph.
package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	dagminerrors "github.com/dagmin/dagmin/pkg/errors"

	"github.com/dagmin/dagmin/pkg/digraph"
)

// ReadEdgeList decodes a whitespace-separated edge list from r.
//
// Each non-empty line names one directed edge as "SOURCE TARGET"; fields
// beyond the second are ignored. Blank lines and lines starting with '#'
// are skipped. Self-edges are discarded and duplicate edges collapsed.
//
// A line with fewer than two fields aborts the load with a
// MALFORMED_INPUT error naming the offending line number - malformed input
// is never skipped silently.
func ReadEdgeList(r io.Reader) (*digraph.Graph, error) {
	g := digraph.New()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, dagminerrors.New(dagminerrors.ErrCodeMalformedInput,
				"line %d: expected two fields, got %d: %q", lineNo, len(fields), line)
		}
		if err := addEdge(g, fields[0], fields[1]); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return g, nil
}

// ImportEdgeList reads an edge-list file at path and returns the graph.
// It returns the same validation errors as [ReadEdgeList], wrapped with the
// file path for context.
func ImportEdgeList(path string) (*digraph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadEdgeList(f)
}

// GraphDoc is the JSON serialization of a graph: the edge list, plus any
// isolated nodes that no edge mentions.
type GraphDoc struct {
	Nodes []string  `json:"nodes,omitempty"`
	Edges []EdgeDoc `json:"edges"`
}

// EdgeDoc is one directed edge in the JSON format.
type EdgeDoc struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ReadJSON decodes a JSON graph from r.
//
// The input must be an object with an "edges" array; an optional "nodes"
// array registers nodes that appear in no edge. Self-edges are discarded
// and duplicates collapsed, matching [ReadEdgeList].
func ReadJSON(r io.Reader) (*digraph.Graph, error) {
	var doc GraphDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, dagminerrors.Wrap(dagminerrors.ErrCodeMalformedInput, err, "decode graph JSON")
	}
	return FromDoc(doc)
}

// FromDoc builds a graph from its JSON document form.
func FromDoc(doc GraphDoc) (*digraph.Graph, error) {
	g := digraph.New()
	for _, id := range doc.Nodes {
		if g.HasNode(id) {
			continue
		}
		if err := g.AddNode(id); err != nil {
			return nil, fmt.Errorf("node %s: %w", id, err)
		}
	}
	for _, e := range doc.Edges {
		if err := addEdge(g, e.From, e.To); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
	}
	return g, nil
}

// addEdge applies the load policy: self-edges dropped, duplicates
// collapsed, anything else surfaced.
func addEdge(g *digraph.Graph, u, v string) error {
	if u == v {
		return nil
	}
	if g.HasEdge(u, v) {
		return nil
	}
	return g.AddEdge(u, v)
}
