package solver

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/dagmin/dagmin/pkg/digraph"
	"github.com/dagmin/dagmin/pkg/observability"
)

// errBudgetExceeded signals that the wall-clock budget (or the caller's
// context) expired mid-search. It is absorbed by Solve and turned into an
// incomplete Result; it never escapes the package.
var errBudgetExceeded = errors.New("search budget exhausted")

// UnknownDriverNodeError is returned by [Verify] when the proposed driver
// set names a node the graph does not contain.
type UnknownDriverNodeError struct {
	Node string
}

func (e *UnknownDriverNodeError) Error() string {
	return fmt.Sprintf("unknown driver node: %s", e.Node)
}

// Options configures a solve run.
type Options struct {
	// Timeout is the wall-clock budget for the size-escalation loop.
	// Zero means no budget. The check is cooperative: the loop polls at
	// each escalation step and inside the candidate loop, so the worst-case
	// overrun is bounded by one branch exploration between polls.
	Timeout time.Duration

	// Logf receives debug progress messages when non-nil. It has no effect
	// on the search outcome or graph state.
	Logf func(format string, args ...any)
}

// Result is the outcome of a solve run.
//
// When Completed is false the search ran out of budget; DriverSet is the
// best in-progress candidate at expiry, not a verified solution.
type Result struct {
	RunID     string        `json:"run_id"`
	DriverSet []string      `json:"driver_set"`
	K         int           `json:"k"`
	K0        int           `json:"k0"`
	Completed bool          `json:"completed"`
	Nodes     int           `json:"nodes"`
	Edges     int           `json:"edges"`
	Elapsed   time.Duration `json:"elapsed"`
}

// search is the per-run state: one graph, one reachable set, one level
// list. levels[0] is the driver set under construction; levels[i>0] are the
// cascade discoveries at depth i. Invariant between recursive calls:
// reachable is exactly the union of levels and the levels are disjoint.
type search struct {
	ctx       context.Context
	g         *digraph.Graph
	reachable map[string]struct{}
	levels    [][]string
	deadline  time.Time // zero means no budget
	logfFn    func(format string, args ...any)
}

func newSearch(ctx context.Context, g *digraph.Graph, opts Options) *search {
	if ctx == nil {
		ctx = context.Background()
	}
	return &search{
		ctx:       ctx,
		g:         g,
		reachable: make(map[string]struct{}, g.NodeCount()),
		logfFn:    opts.Logf,
	}
}

func (s *search) logf(format string, args ...any) {
	if s.logfFn != nil {
		s.logfFn(format, args...)
	}
}

// expired reports whether the budget or the context has run out.
func (s *search) expired() bool {
	if s.ctx.Err() != nil {
		return true
	}
	return !s.deadline.IsZero() && time.Now().After(s.deadline)
}

// Solve searches for a minimum driver set of g.
//
// The graph is mutated destructively during the search and is not restored
// afterwards; treat it as consumed. The search is single-threaded and
// deterministic for a given input (see [RankCandidates] for the tie-break).
//
// ctx cancellation is honored at the same poll points as the wall-clock
// budget and likewise yields an incomplete Result rather than an error.
// Errors are reserved for invariant violations, which indicate a defect and
// abort immediately.
func Solve(ctx context.Context, g *digraph.Graph, opts Options) (Result, error) {
	start := time.Now()
	hooks := observability.Search()

	res := Result{
		RunID: uuid.NewString(),
		Nodes: g.NodeCount(),
		Edges: g.EdgeCount(),
	}

	s := newSearch(ctx, g, opts)
	if opts.Timeout > 0 {
		s.deadline = start.Add(opts.Timeout)
	}

	// Seed with the unconditional zero-in-degree nodes: they can never be
	// reached by implication, so any driver set must contain them.
	s0 := g.ZeroInDegree(nil)
	s.levels = [][]string{slices.Clone(s0)}
	for _, id := range s0 {
		s.reachable[id] = struct{}{}
	}
	if _, err := g.RemoveSuccessors(s0); err != nil {
		return Result{}, err
	}
	k0 := len(s0)
	res.K0 = k0
	s.logf("initial driver set: %d unconditional sources", k0)

	for k := k0; k <= g.NodeCount(); k++ {
		if s.expired() {
			return s.incomplete(res, start, hooks), nil
		}
		hooks.OnEscalate(s.ctx, k)
		s.logf("trying driver set size k=%d", k)

		ok, err := s.trySize(k)
		if errors.Is(err, errBudgetExceeded) {
			return s.incomplete(res, start, hooks), nil
		}
		if err != nil {
			return Result{}, err
		}
		if ok {
			res.DriverSet = sortedSet(s.levels[0])
			res.K = len(res.DriverSet)
			res.Completed = true
			res.Elapsed = time.Since(start)
			s.logf("solved with k=%d in %s", res.K, res.Elapsed.Round(time.Millisecond))
			hooks.OnDone(s.ctx, res.K, true, res.Elapsed)
			return res, nil
		}
	}

	// Exhausted every k up to the node count. Reachable only on degenerate
	// instances; an empty graph already succeeds at k=0.
	res.DriverSet = []string{}
	res.Elapsed = time.Since(start)
	hooks.OnDone(s.ctx, 0, false, res.Elapsed)
	return res, nil
}

// incomplete builds the budget-expired result: the driver set as it stands
// at the escalation boundary (all trial mutations have been unwound).
func (s *search) incomplete(res Result, start time.Time, hooks observability.SearchHooks) Result {
	res.DriverSet = sortedSet(s.levels[0])
	res.K = len(res.DriverSet)
	res.Completed = false
	res.Elapsed = time.Since(start)
	s.logf("budget exhausted after %s at k=%d", res.Elapsed.Round(time.Millisecond), res.K)
	hooks.OnDone(s.ctx, res.K, false, res.Elapsed)
	return res
}

// trySize attempts to complete a driver set of exactly k nodes.
//
// If the driver set already has k nodes, the cascade decides. Otherwise it
// extends the set with ranked candidates one at a time, recursing, and
// undoes each failed extension (driver membership, reachability, and edge
// removals) before trying the next. Every failure path leaves graph and
// search state exactly as this call found them; that restoration discipline
// is the central correctness property of the search.
func (s *search) trySize(k int) (bool, error) {
	if len(s.levels[0]) >= k {
		return s.cascade()
	}

	need := k - len(s.levels[0])
	hooks := observability.Search()

	for _, cand := range RankCandidates(s.g, s.reachable, need) {
		if s.expired() {
			return false, errBudgetExceeded
		}
		// Ranking already excludes reachable nodes; keep the guard anyway
		// since a stale candidate would corrupt the level invariant.
		if _, ok := s.reachable[cand]; ok {
			continue
		}

		s.levels[0] = append(s.levels[0], cand)
		s.reachable[cand] = struct{}{}
		removed, err := s.g.RemoveSuccessors([]string{cand})
		if err != nil {
			return false, err
		}
		hooks.OnCandidate(s.ctx, cand, k)

		ok, err := s.trySize(k)
		if ok && err == nil {
			return true, nil
		}

		// Undo this extension before trying the next candidate - also on
		// error, so a budget abort propagates through fully restored state.
		s.levels[0] = s.levels[0][:len(s.levels[0])-1]
		delete(s.reachable, cand)
		for i := 0; i < removed; i++ {
			if rerr := s.g.RestoreLastEdge(); rerr != nil {
				return false, rerr
			}
		}
		if err != nil {
			return false, err
		}
	}
	return false, nil
}

// sortedSet clones and sorts a node list for stable presentation.
func sortedSet(ids []string) []string {
	out := slices.Clone(ids)
	slices.Sort(out)
	return out
}
