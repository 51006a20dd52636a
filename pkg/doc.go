// Package pkg provides the core libraries for dagmin.
//
// # Overview
//
// Dagmin finds minimum driver sets in directed graphs: the smallest set of
// nodes from which every other node follows by repeatedly capturing the
// successors of already-captured nodes. The pkg directory is organized as:
//
//  1. [digraph] - Mutable graph store with in-degree cache and edge restore
//  2. [solver] - Implication cascade, candidate ranking, and the search
//  3. [io] - Edge-list and JSON graph formats, result serialization
//  4. [render] - Graphviz DOT/SVG/PNG output
//  5. [cache] - Result caching (file, Redis, null backends)
//  6. [server] - HTTP API
//  7. [errors], [observability], [buildinfo] - Cross-cutting support
//
// # Quick Start
//
//	g, err := io.ImportEdgeList("deps.txt")
//	if err != nil { ... }
//	res, err := solver.Solve(ctx, g, solver.Options{Timeout: time.Minute})
//	if err != nil { ... }
//	fmt.Println(res.DriverSet)
//
// [digraph]: github.com/dagmin/dagmin/pkg/digraph
// [solver]: github.com/dagmin/dagmin/pkg/solver
// [io]: github.com/dagmin/dagmin/pkg/io
// [render]: github.com/dagmin/dagmin/pkg/render
// [cache]: github.com/dagmin/dagmin/pkg/cache
// [server]: github.com/dagmin/dagmin/pkg/server
// [errors]: github.com/dagmin/dagmin/pkg/errors
// [observability]: github.com/dagmin/dagmin/pkg/observability
// [buildinfo]: github.com/dagmin/dagmin/pkg/buildinfo
package pkg
