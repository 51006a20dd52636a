package solver

import (
	"github.com/dagmin/dagmin/pkg/digraph"
	"github.com/dagmin/dagmin/pkg/observability"
)

// frame records one cascade level so it can be undone exactly: the nodes
// discovered at that level and the number of edges removed for them.
type frame struct {
	level   []string
	removed int
}

// cascade runs the implication process from the current reachable set.
//
// It returns (true, nil) when every node is reachable, leaving all of its
// mutations in place for the caller to inspect (levels, reachable set,
// removed edges). It returns (false, nil) on a dead end - an empty
// zero-in-degree frontier with nodes still unreached - after unwinding every
// level it added, so the graph, reachable set, and level list are exactly as
// the caller left them. Mutations made by the caller before invoking the
// cascade are the caller's to undo.
//
// A non-nil error means a graph invariant broke mid-flight; the run must
// abort.
func (s *search) cascade() (bool, error) {
	hooks := observability.Search()

	var frames []frame
	for {
		if len(s.reachable) == s.g.NodeCount() {
			return true, nil
		}

		front := s.g.ZeroInDegree(s.reachable)
		if len(front) == 0 {
			// Dead end: unwind the levels this cascade added, newest first.
			for i := len(frames) - 1; i >= 0; i-- {
				if err := s.unwind(frames[i]); err != nil {
					return false, err
				}
			}
			return false, nil
		}

		for _, id := range front {
			s.reachable[id] = struct{}{}
		}
		s.levels = append(s.levels, front)

		removed, err := s.g.RemoveSuccessors(front)
		if err != nil {
			return false, err
		}
		frames = append(frames, frame{level: front, removed: removed})
		hooks.OnCascadeLevel(s.ctx, len(s.levels)-1, len(front))
		s.logf("cascade level %d: %d nodes, %d edges peeled", len(s.levels)-1, len(front), removed)
	}
}

// unwind pops the most recent level and restores its edge removals in
// reverse removal order.
func (s *search) unwind(f frame) error {
	s.levels = s.levels[:len(s.levels)-1]
	for _, id := range f.level {
		delete(s.reachable, id)
	}
	for i := 0; i < f.removed; i++ {
		if err := s.g.RestoreLastEdge(); err != nil {
			return err
		}
	}
	return nil
}

// Verify independently checks that driver is a valid generating set for g:
// with reachability seeded to exactly the driver nodes and their outgoing
// edges removed, the cascade must reach every node.
//
// Unlike [Solve], Verify restores the graph completely before returning,
// so the same instance can be verified or solved again. Unknown driver
// nodes return an [UnknownDriverNodeError].
func Verify(g *digraph.Graph, driver []string) (bool, error) {
	for _, id := range driver {
		if !g.HasNode(id) {
			return false, &UnknownDriverNodeError{Node: id}
		}
	}

	s := newSearch(nil, g, Options{})
	s.levels = [][]string{append([]string(nil), driver...)}
	for _, id := range driver {
		s.reachable[id] = struct{}{}
	}

	depth := g.RestoreDepth()
	if _, err := g.RemoveSuccessors(driver); err != nil {
		return false, err
	}
	ok, err := s.cascade()

	// Roll back everything this verification removed, success or not.
	for g.RestoreDepth() > depth {
		if rerr := g.RestoreLastEdge(); rerr != nil {
			if err == nil {
				err = rerr
			}
			break
		}
	}
	return ok, err
}
