package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dagmin/dagmin/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	format     string // dot, svg, or png
	output     string // output path (stdout for dot if empty)
	resultPath string // result JSON whose driver set gets highlighted
	label      string // optional graph caption
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <graph>",
		Short: "Render the graph as DOT, SVG, or PNG",
		Long: `Render draws the graph using Graphviz. When a solve result is given
with --result, its driver set is highlighted.

Examples:
  dagmin render deps.txt --format dot
  dagmin render deps.txt --result result.json --format svg -o graph.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "svg", "output format: dot, svg, or png")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <graph>.<format>)")
	cmd.Flags().StringVarP(&opts.resultPath, "result", "r", "", "highlight the driver set from this result file")
	cmd.Flags().StringVar(&opts.label, "label", "", "graph caption")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, path string, opts renderOpts) error {
	g, err := loadGraph(path)
	if err != nil {
		return err
	}

	dotOpts := render.Options{Label: opts.label}
	if opts.resultPath != "" {
		res, err := readResult(opts.resultPath)
		if err != nil {
			return err
		}
		dotOpts.Drivers = res.DriverSet
	}

	dot := render.ToDOT(g, dotOpts)

	tracker := newProgress(loggerFromContext(cmd.Context()))
	var data []byte
	switch opts.format {
	case "dot":
		data = []byte(dot)
	case "svg":
		data, err = render.RenderSVG(cmd.Context(), dot)
	case "png":
		data, err = render.RenderPNG(cmd.Context(), dot)
	default:
		return fmt.Errorf("unknown format %q (want dot, svg, or png)", opts.format)
	}
	if err != nil {
		return err
	}

	if opts.output == "" {
		if opts.format == "dot" {
			fmt.Print(string(data))
			return nil
		}
		opts.output = path + "." + opts.format
	}

	if err := os.WriteFile(opts.output, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	tracker.done(fmt.Sprintf("Rendered %d nodes to %s", g.NodeCount(), opts.format))
	printFile(opts.output)
	return nil
}
