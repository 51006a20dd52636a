// Package render turns graphs into visual output.
//
// [ToDOT] converts a graph to Graphviz DOT text, highlighting the driver
// set when one is given. [RenderSVG] and [RenderPNG] rasterize DOT using
// the embedded Graphviz engine.
package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/dagmin/dagmin/pkg/digraph"
)

// Options configures DOT generation.
type Options struct {
	// Drivers is the set of node IDs to highlight. Driver nodes are drawn
	// with a filled accent color so the generating set stands out.
	Drivers []string

	// Label is an optional graph-level caption.
	Label string
}

// ToDOT converts a graph to Graphviz DOT format. Nodes named in
// opts.Drivers are highlighted; unknown driver IDs are ignored.
func ToDOT(g *digraph.Graph, opts Options) string {
	driver := make(map[string]struct{}, len(opts.Drivers))
	for _, id := range opts.Drivers {
		driver[id] = struct{}{}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	if opts.Label != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", opts.Label)
	}
	buf.WriteString("\n")

	for _, id := range g.Nodes() {
		if _, ok := driver[id]; ok {
			fmt.Fprintf(&buf, "  %q [fillcolor=\"#7D56F4\", fontcolor=white, penwidth=2];\n", id)
		} else {
			fmt.Fprintf(&buf, "  %q;\n", id)
		}
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.PNG)
}

func renderFormat(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
