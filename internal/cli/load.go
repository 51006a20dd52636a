package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/dagmin/dagmin/pkg/digraph"
	dagminio "github.com/dagmin/dagmin/pkg/io"
)

// loadGraph reads a graph from path, dispatching on the file extension:
// .json files use the JSON graph format, everything else is treated as a
// whitespace-separated edge list. "-" reads an edge list from stdin.
func loadGraph(path string) (*digraph.Graph, error) {
	if path == "-" {
		return dagminio.ReadEdgeList(os.Stdin)
	}
	if strings.HasSuffix(path, ".json") {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		return dagminio.ReadJSON(f)
	}
	return dagminio.ImportEdgeList(path)
}
