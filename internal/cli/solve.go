package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dagmin/dagmin/pkg/cache"
	dagminio "github.com/dagmin/dagmin/pkg/io"
	"github.com/dagmin/dagmin/pkg/observability"
	"github.com/dagmin/dagmin/pkg/solver"
)

// ErrIncomplete signals that the search ran out of budget before proving a
// minimum. main maps it to exit code 2 so scripts can tell an incomplete
// answer apart from a hard failure.
var ErrIncomplete = errors.New("search incomplete: budget exhausted before a minimum was proven")

// solveOpts holds the command-line flags for the solve command.
type solveOpts struct {
	timeout float64 // wall-clock budget in seconds, 0 disables
	output  string  // result JSON path (skip when empty)
	noCache bool    // disable the result cache entirely
	refresh bool    // bypass cache reads, still write fresh results
	watch   bool    // live TUI progress instead of a spinner
	asJSON  bool    // print the result JSON to stdout
}

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	var opts solveOpts

	cmd := &cobra.Command{
		Use:   "solve <graph>",
		Short: "Find a minimum driver set",
		Long: `Solve searches the graph for a minimum driver set.

The input is an edge-list file (one "SOURCE TARGET" pair per line, '#'
comments allowed), a .json graph file, or "-" for stdin.

Examples:
  dagmin solve deps.txt
  dagmin solve graph.json --timeout 10 -o result.json
  dagmin solve deps.txt --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.applyConfig(c.Config)
			return c.runSolve(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().Float64VarP(&opts.timeout, "timeout", "t", -1, "wall-clock budget in seconds (0 = unlimited)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the result JSON to this file")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results, re-run the search")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "show live search progress")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the result JSON to stdout")

	return cmd
}

// applyConfig fills flag defaults from the loaded configuration. A negative
// timeout means the flag was not set.
func (o *solveOpts) applyConfig(cfg Config) {
	if o.timeout < 0 {
		o.timeout = cfg.Solver.TimeoutSeconds
	}
}

func (c *CLI) runSolve(ctx context.Context, path string, opts solveOpts) error {
	logger := loggerFromContext(ctx)

	g, err := loadGraph(path)
	if err != nil {
		return err
	}
	nodes, edges := g.NodeCount(), g.EdgeCount()
	logger.Debugf("loaded %d nodes, %d edges from %s", nodes, edges, path)

	store := c.newCache(ctx, opts.noCache)
	defer store.Close()

	// The solver consumes the graph, so the cache key is computed up front.
	key := cache.SolveKey(cache.GraphHash(g))

	if !opts.refresh {
		if res, ok := c.cachedResult(ctx, store, key); ok {
			logger.Debug("cache hit", "key", key)
			return c.reportSolve(res, true, opts)
		}
	}

	runOpts := solver.Options{
		Timeout: solverTimeout(opts.timeout),
		Logf:    logger.Debugf,
	}

	var res solver.Result
	if opts.watch {
		res, err = solveWithWatch(ctx, g, runOpts)
	} else {
		spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Searching %d nodes for a minimum driver set", nodes))
		spinner.Start()
		res, err = solver.Solve(ctx, g, runOpts)
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	if res.Completed {
		c.storeResult(ctx, store, key, res)
	}

	return c.reportSolve(res, false, opts)
}

// cachedResult fetches and decodes a cached solve result, reporting the
// hit or miss to the cache hooks.
func (c *CLI) cachedResult(ctx context.Context, store cache.Cache, key string) (solver.Result, bool) {
	hooks := observability.Cache()

	data, found, err := store.Get(ctx, key)
	if err != nil || !found {
		hooks.OnCacheMiss(ctx, "solve")
		return solver.Result{}, false
	}
	var res solver.Result
	if err := json.Unmarshal(data, &res); err != nil {
		hooks.OnCacheMiss(ctx, "solve")
		return solver.Result{}, false
	}
	hooks.OnCacheHit(ctx, "solve")
	return res, true
}

func (c *CLI) storeResult(ctx context.Context, store cache.Cache, key string, res solver.Result) {
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	ttl := c.Config.Cache.TTL()
	if ttl == 0 {
		ttl = cache.DefaultTTL
	}
	if err := store.Set(ctx, key, data, ttl); err != nil {
		c.Logger.Warnf("cache write failed: %v", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "solve", len(data))
}

// reportSolve prints the result and writes the optional output file.
func (c *CLI) reportSolve(res solver.Result, cached bool, opts solveOpts) error {
	if opts.asJSON {
		if err := dagminio.WriteResult(res, os.Stdout); err != nil {
			return err
		}
	} else {
		if res.Completed {
			printSuccess("Minimum driver set has %s",
				StyleHighlight.Render(fmt.Sprintf("%d nodes", res.K)))
		} else {
			printWarning("Budget exhausted at k=%d; best candidate so far:", res.K)
		}
		printStats(res.Nodes, res.Edges, cached)
		if len(res.DriverSet) > 0 {
			printDetail("drivers: %s", strings.Join(res.DriverSet, " "))
		}
		printDetail("unconditional sources: %d · elapsed: %s", res.K0, res.Elapsed.Round(time.Millisecond))
	}

	if opts.output != "" {
		if err := dagminio.ExportResult(res, opts.output); err != nil {
			return err
		}
		if !opts.asJSON {
			printFile(opts.output)
		}
	}

	if !res.Completed {
		return ErrIncomplete
	}
	return nil
}

func solverTimeout(seconds float64) time.Duration {
	if seconds <= 0 {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}
