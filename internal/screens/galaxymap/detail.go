package galaxymap

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathgalaxy/internal/explain"
	"github.com/abhisek/mathgalaxy/internal/galaxy"
	"github.com/abhisek/mathgalaxy/internal/screen"
	"github.com/abhisek/mathgalaxy/internal/topicgraph"
	"github.com/abhisek/mathgalaxy/internal/ui/layout"
	"github.com/abhisek/mathgalaxy/internal/ui/theme"
)

// explanationMsg delivers an explanation requested by a detail screen.
type explanationMsg struct {
	topicID string
	seq     int
	exp     explain.TopicExplanation
}

// TopicDetailScreen shows one topic with its neighbours and explanation.
type TopicDetailScreen struct {
	svc   Service
	topic topicgraph.Topic
	snap  galaxy.Snapshot

	// seq tags explanation requests; replies for older requests are dropped.
	seq     int
	loading bool
	exp     *explain.TopicExplanation
}

var _ screen.Screen = (*TopicDetailScreen)(nil)
var _ screen.KeyHintProvider = (*TopicDetailScreen)(nil)

func newTopicDetail(svc Service, t topicgraph.Topic, snap galaxy.Snapshot) *TopicDetailScreen {
	return &TopicDetailScreen{svc: svc, topic: t, snap: snap}
}

func (d *TopicDetailScreen) Init() tea.Cmd {
	if !d.reachable() {
		return nil
	}
	return d.requestExplanation()
}

func (d *TopicDetailScreen) Title() string { return d.topic.Name }

func (d *TopicDetailScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.SnapshotMsg:
		d.snap = msg.Snapshot
	case explanationMsg:
		if msg.topicID != d.topic.ID || msg.seq != d.seq {
			return d, nil
		}
		d.loading = false
		d.exp = &msg.exp
	case tea.KeyMsg:
		if msg.String() == "r" && d.reachable() && !d.loading {
			return d, d.requestExplanation()
		}
	}
	return d, nil
}

func (d *TopicDetailScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	if d.reachable() {
		hints = append(hints, layout.KeyHint{Key: "r", Description: "Explain again"})
	}
	return hints
}

// reachable reports whether the topic is unlocked or captured.
func (d *TopicDetailScreen) reachable() bool {
	v, ok := d.snap.Node(d.topic.ID)
	return ok && (v.Unlocked || v.Captured)
}

func (d *TopicDetailScreen) requestExplanation() tea.Cmd {
	d.seq++
	d.loading = true
	seq, id, svc := d.seq, d.topic.ID, d.svc
	return func() tea.Msg {
		exp, _ := svc.Explain(context.Background(), id)
		return explanationMsg{topicID: id, seq: seq, exp: exp}
	}
}

func (d *TopicDetailScreen) View(width, height int) string {
	t := d.topic
	contentWidth := width - 8
	if contentWidth > 76 {
		contentWidth = 76
	}

	view, _ := d.snap.Node(t.ID)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	valStyle := lipgloss.NewStyle().Foreground(theme.Text)
	sectionStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)

	var b strings.Builder

	b.WriteString(theme.NodeStyle(view.Captured, view.Unlocked).
		Bold(true).
		Render(fmt.Sprintf("  %s  %s", theme.NodeIcon(view.Captured, view.Unlocked), t.Name)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + stateLabel(view.Captured, view.Unlocked)))
	b.WriteString("\n\n")

	if t.Description != "" {
		b.WriteString(lipgloss.NewStyle().
			Width(contentWidth).
			Foreground(theme.Text).
			PaddingLeft(2).
			Render(t.Description))
		b.WriteString("\n\n")
	}

	b.WriteString(dimStyle.Render("  Constellation: ") + valStyle.Render(topicgraph.ConstellationDisplayName(t.Constellation)) + "\n")
	b.WriteString(dimStyle.Render("  Difficulty:    ") + valStyle.Render(string(t.Difficulty)) + "\n")
	if attempts := d.snap.Record.Attempts(t.ID); attempts > 0 {
		best, _ := d.snap.Record.BestScore(t.ID)
		b.WriteString(dimStyle.Render("  Best score:    ") + valStyle.Render(fmt.Sprintf("%d (%d attempts)", best, attempts)) + "\n")
	}
	b.WriteString("\n")

	neighbours := d.svc.Graph().ConnectedTopics(t.ID)
	if len(neighbours) > 0 {
		b.WriteString(sectionStyle.Render("  Connected Topics"))
		b.WriteString("\n")
		for _, n := range neighbours {
			nv, _ := d.snap.Node(n.ID)
			st := theme.NodeStyle(nv.Captured, nv.Unlocked)
			b.WriteString(st.Render(fmt.Sprintf("  %s %s", theme.NodeIcon(nv.Captured, nv.Unlocked), n.Name)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(sectionStyle.Render("  Explanation"))
	b.WriteString("\n")
	switch {
	case !d.reachable():
		b.WriteString(theme.Hint.Render("  Capture a connected topic to unlock this one."))
	case d.loading:
		b.WriteString(theme.Hint.Render("  Asking the stars..."))
	case d.exp != nil:
		body := d.exp.Body.String()
		if d.exp.Source == explain.SourceFallback {
			body += "\n\n" + theme.Hint.Render("(offline explanation)")
		}
		b.WriteString(lipgloss.NewStyle().
			Width(contentWidth).
			Foreground(theme.Text).
			PaddingLeft(2).
			Render(body))
	}

	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top,
		"\n"+b.String())
}
