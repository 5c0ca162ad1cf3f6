// Package ask is the discovery screen: a free-text question unlocks the
// topics it mentions and shows a short reply.
package ask

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathgalaxy/internal/galaxy"
	"github.com/abhisek/mathgalaxy/internal/screen"
	"github.com/abhisek/mathgalaxy/internal/topicgraph"
	"github.com/abhisek/mathgalaxy/internal/ui/components"
	"github.com/abhisek/mathgalaxy/internal/ui/layout"
	"github.com/abhisek/mathgalaxy/internal/ui/theme"
)

// Service is the part of galaxy.Service the ask screen uses.
type Service interface {
	Discover(ctx context.Context, query string) (galaxy.DiscoveryResult, error)
	Graph() *topicgraph.Graph
}

type discoveryMsg struct {
	seq int
	res galaxy.DiscoveryResult
	err error
}

// AskScreen takes a question and shows what it discovered.
type AskScreen struct {
	svc   Service
	input components.TextInput

	// seq tags queries; only the reply to the latest one is shown.
	seq     int
	pending bool
	result  *galaxy.DiscoveryResult
	err     error
}

var _ screen.Screen = (*AskScreen)(nil)
var _ screen.KeyHintProvider = (*AskScreen)(nil)

// New creates an AskScreen.
func New(svc Service) *AskScreen {
	return &AskScreen{
		svc:   svc,
		input: components.NewTextInput("Ask about any math idea, e.g. how do I find the slope?", 200),
	}
}

func (a *AskScreen) Init() tea.Cmd {
	return a.input.Init()
}

func (a *AskScreen) Title() string { return "Ask the Galaxy" }

func (a *AskScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Ask"},
		{Key: "Esc", Description: "Back"},
	}
}

func (a *AskScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case discoveryMsg:
		if msg.seq != a.seq {
			return a, nil
		}
		a.pending = false
		a.result = &msg.res
		a.err = msg.err
		a.input.Submit(len(msg.res.Matched) > 0)
		snap := msg.res.Snapshot
		return a, func() tea.Msg { return screen.SnapshotMsg{Snapshot: snap} }

	case tea.KeyMsg:
		if msg.String() == "enter" {
			return a, a.submit()
		}
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// submit starts a discovery for the current input. A newer query makes the
// reply to an older one stale.
func (a *AskScreen) submit() tea.Cmd {
	query := a.input.Value()
	if query == "" {
		return nil
	}
	a.seq++
	a.pending = true
	seq, svc := a.seq, a.svc
	return func() tea.Msg {
		res, err := svc.Discover(context.Background(), query)
		return discoveryMsg{seq: seq, res: res, err: err}
	}
}

func (a *AskScreen) View(width, height int) string {
	contentWidth := width - 8
	if contentWidth > 76 {
		contentWidth = 76
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Title.PaddingLeft(2).Render("What are you curious about?"))
	b.WriteString("\n\n  ")
	b.WriteString(a.input.View())
	b.WriteString("\n\n")

	switch {
	case a.pending:
		b.WriteString(theme.Hint.Render("  Scanning the galaxy..."))
	case a.result != nil:
		b.WriteString(a.renderResult(*a.result, contentWidth))
	}

	if a.err != nil {
		b.WriteString("\n\n")
		b.WriteString(theme.Incorrect.Render("  Progress could not be saved: " + a.err.Error()))
	}

	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, b.String())
}

func (a *AskScreen) renderResult(res galaxy.DiscoveryResult, width int) string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Foreground(theme.Text).
		PaddingLeft(2).
		Render(res.Reply.Text))
	b.WriteString("\n")

	if len(res.Matched) == 0 {
		return b.String()
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("  Topics found"))
	b.WriteString("\n")

	g := a.svc.Graph()
	newly := make(map[string]bool, len(res.NewlyUnlocked))
	for _, id := range res.NewlyUnlocked {
		newly[id] = true
	}
	for _, id := range res.Matched {
		t, ok := g.Topic(id)
		if !ok {
			continue
		}
		v, _ := res.Snapshot.Node(id)
		line := fmt.Sprintf("  %s %s", theme.NodeIcon(v.Captured, v.Unlocked), t.Name)
		b.WriteString(theme.NodeStyle(v.Captured, v.Unlocked).Render(line))
		if newly[id] {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("  new!"))
		}
		b.WriteString("\n")
	}
	return b.String()
}
