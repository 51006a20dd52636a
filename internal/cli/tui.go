package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dagmin/dagmin/pkg/digraph"
	"github.com/dagmin/dagmin/pkg/observability"
	"github.com/dagmin/dagmin/pkg/solver"
)

// Search progress messages delivered to the watch model.
type (
	escalateMsg  struct{ k int }
	candidateMsg struct {
		node string
		k    int
	}
	searchDoneMsg struct {
		size      int
		completed bool
		elapsed   time.Duration
	}
)

// hookRelay forwards solver hooks into a channel the watch model drains.
// Candidate events are hot-path and dropped when the channel is full;
// escalation and completion events always go through.
type hookRelay struct {
	observability.NoopSearchHooks
	events chan tea.Msg
}

func (r *hookRelay) OnEscalate(ctx context.Context, k int) {
	r.events <- escalateMsg{k: k}
}

func (r *hookRelay) OnCandidate(ctx context.Context, node string, k int) {
	select {
	case r.events <- candidateMsg{node: node, k: k}:
	default:
	}
}

func (r *hookRelay) OnDone(ctx context.Context, driverSize int, completed bool, elapsed time.Duration) {
	r.events <- searchDoneMsg{size: driverSize, completed: completed, elapsed: elapsed}
}

// WatchModel is the bubbletea model for live search progress.
type WatchModel struct {
	events chan tea.Msg
	cancel context.CancelFunc

	k          int
	candidates int
	last       string
	start      time.Time
	frame      int
	done       bool
	completed  bool
	quit       bool
}

// NewWatchModel creates a watch model draining the given event channel.
// cancel aborts the underlying search when the user quits early.
func NewWatchModel(events chan tea.Msg, cancel context.CancelFunc) WatchModel {
	return WatchModel{events: events, cancel: cancel, start: time.Now()}
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m WatchModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

func (m WatchModel) Init() tea.Cmd {
	return tea.Batch(m.waitForEvent(), tick())
}

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quit = true
			m.cancel()
			return m, nil
		}
	case escalateMsg:
		m.k = msg.k
		return m, m.waitForEvent()
	case candidateMsg:
		m.candidates++
		m.last = msg.node
		return m, m.waitForEvent()
	case searchDoneMsg:
		m.done = true
		m.completed = msg.completed
		m.k = msg.size
		return m, tea.Quit
	case tickMsg:
		m.frame++
		return m, tick()
	}
	return m, nil
}

var watchFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (m WatchModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Searching for minimum driver set"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("q: abort and keep best candidate"))
	b.WriteString("\n\n")

	frame := watchFrames[m.frame%len(watchFrames)]
	b.WriteString(fmt.Sprintf("  %s %s %s\n",
		styleIconSpinner.Render(frame),
		StyleDim.Render("trying size"),
		StyleHighlight.Render(fmt.Sprintf("k=%d", m.k))))
	b.WriteString(fmt.Sprintf("  %s %s\n",
		StyleDim.Render("candidates tried:"),
		StyleValue.Render(fmt.Sprintf("%d", m.candidates))))
	if m.last != "" {
		b.WriteString(fmt.Sprintf("  %s %s\n",
			StyleDim.Render("last candidate:"),
			StyleValue.Render(m.last)))
	}
	b.WriteString(fmt.Sprintf("  %s %s\n",
		StyleDim.Render("elapsed:"),
		StyleValue.Render(time.Since(m.start).Round(100*time.Millisecond).String())))

	return b.String()
}

// solveWithWatch runs the solver with a live progress display. The search
// runs in a goroutine; the TUI drains its hook events until completion or
// until the user aborts.
func solveWithWatch(ctx context.Context, g *digraph.Graph, opts solver.Options) (solver.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan tea.Msg, 256)
	relay := &hookRelay{events: events}
	observability.SetSearchHooks(relay)
	defer observability.Reset()

	type outcome struct {
		res solver.Result
		err error
	}
	resCh := make(chan outcome, 1)
	go func() {
		res, err := solver.Solve(ctx, g, opts)
		resCh <- outcome{res: res, err: err}
	}()

	p := tea.NewProgram(NewWatchModel(events, cancel))
	if _, err := p.Run(); err != nil {
		cancel()
		out := <-resCh
		if out.err != nil {
			return solver.Result{}, out.err
		}
		return out.res, err
	}

	out := <-resCh
	return out.res, out.err
}
