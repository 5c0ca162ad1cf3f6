package cmd

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathgalaxy/internal/galaxy"
	"github.com/abhisek/mathgalaxy/internal/topicgraph"
	"github.com/abhisek/mathgalaxy/internal/ui/components"
	"github.com/abhisek/mathgalaxy/internal/ui/theme"
	"github.com/abhisek/mathgalaxy/internal/unlock"
)

var (
	dimStyle     = lipgloss.NewStyle().Foreground(theme.TextDim)
	sectionStyle = lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	newStyle     = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
)

func stateLabel(v unlock.NodeView) string {
	switch {
	case v.Captured:
		return "captured"
	case v.Unlocked:
		return "unlocked"
	default:
		return "locked"
	}
}

// topicLine renders "★ Name" coloured by state.
func topicLine(v unlock.NodeView) string {
	return theme.NodeStyle(v.Captured, v.Unlocked).
		Render(theme.NodeIcon(v.Captured, v.Unlocked) + " " + v.Topic.Name)
}

func topicNames(g *topicgraph.Graph, ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if t, ok := g.Topic(id); ok {
			out = append(out, t.Name)
		}
	}
	return out
}

// printSummary writes the one-line capture summary.
func printSummary(w io.Writer, snap galaxy.Snapshot, total int) {
	pct := 0.0
	if total > 0 {
		pct = float64(snap.CapturedCount()) / float64(total)
	}
	bar := components.NewProgressBar(
		fmt.Sprintf("%s %d/%d captured", theme.IconCaptured, snap.CapturedCount(), total),
		pct, true, 60,
	)
	lipgloss.Fprintln(w, theme.Title.Render("MathGalaxy")+"  "+bar.View())
	lipgloss.Fprintln(w, dimStyle.Render(fmt.Sprintf("%d unlocked, %d locked",
		snap.UnlockedCount()-snap.CapturedCount(), len(snap.Nodes)-snap.UnlockedCount())))
}

// printMap writes the topic list grouped by constellation. An empty only
// prints every constellation.
func printMap(w io.Writer, g *topicgraph.Graph, snap galaxy.Snapshot, only string) {
	for _, cs := range snap.Constellations(g) {
		if only != "" && cs.Name != only {
			continue
		}
		topics := g.ByConstellation(cs.Name)
		color := ""
		if len(topics) > 0 {
			color = topics[0].Color
		}
		lipgloss.Fprintln(w)
		lipgloss.Fprintln(w, theme.ConstellationStyle(color).Render(strings.ToUpper(topicgraph.ConstellationDisplayName(cs.Name)))+
			dimStyle.Render(fmt.Sprintf("  %d/%d", cs.Captured, cs.Total)))

		for _, t := range topics {
			v, _ := snap.Node(t.ID)
			line := "  " + topicLine(v)
			if best, ok := snap.Record.BestScore(t.ID); ok {
				line += dimStyle.Render(fmt.Sprintf("  best %d", best))
			}
			lipgloss.Fprintln(w, line)
		}
	}
}
