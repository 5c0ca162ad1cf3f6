package galaxymap

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathgalaxy/internal/explain"
	"github.com/abhisek/mathgalaxy/internal/galaxy"
	"github.com/abhisek/mathgalaxy/internal/router"
	"github.com/abhisek/mathgalaxy/internal/screen"
	"github.com/abhisek/mathgalaxy/internal/screens/ask"
	"github.com/abhisek/mathgalaxy/internal/topicgraph"
	"github.com/abhisek/mathgalaxy/internal/ui/components"
	"github.com/abhisek/mathgalaxy/internal/ui/layout"
	"github.com/abhisek/mathgalaxy/internal/ui/theme"
)

// Service is the part of galaxy.Service the map screens use.
type Service interface {
	ask.Service
	Map(ctx context.Context) galaxy.Snapshot
	Graph() *topicgraph.Graph
	Explain(ctx context.Context, topicID string) (explain.TopicExplanation, bool)
}

type rowKind int

const (
	rowConstellationHeader rowKind = iota
	rowTopic
)

type row struct {
	kind          rowKind
	constellation string
	topic         topicgraph.Topic
}

// GalaxyMapScreen lists topics grouped by constellation.
type GalaxyMapScreen struct {
	svc          Service
	snap         galaxy.Snapshot
	rows         []row
	cursor       int
	scrollOffset int
}

var _ screen.Screen = (*GalaxyMapScreen)(nil)
var _ screen.KeyHintProvider = (*GalaxyMapScreen)(nil)

// New creates a GalaxyMapScreen and loads the current progress.
func New(svc Service) *GalaxyMapScreen {
	g := svc.Graph()

	var rows []row
	for _, c := range g.Constellations() {
		rows = append(rows, row{kind: rowConstellationHeader, constellation: c})
		for _, t := range g.ByConstellation(c) {
			rows = append(rows, row{kind: rowTopic, constellation: c, topic: t})
		}
	}

	s := &GalaxyMapScreen{
		svc:  svc,
		snap: svc.Map(context.Background()),
		rows: rows,
	}

	// Start on the root topic.
	s.cursor = -1
	for i, r := range s.rows {
		if r.kind == rowTopic && r.topic.ID == g.Root() {
			s.cursor = i
			break
		}
	}
	if s.cursor < 0 {
		s.cursor = 0
		s.moveCursor(1)
	}

	return s
}

func (s *GalaxyMapScreen) Init() tea.Cmd {
	snap := s.snap
	return func() tea.Msg { return screen.SnapshotMsg{Snapshot: snap} }
}

func (s *GalaxyMapScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.SnapshotMsg:
		s.snap = msg.Snapshot
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			s.moveCursor(-1)
		case "down", "j":
			s.moveCursor(1)
		case "tab":
			s.nextConstellation()
		case "shift+tab":
			s.prevConstellation()
		case "enter":
			return s, s.selectTopic()
		case "a", "/":
			next := ask.New(s.svc)
			return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
		case "q":
			return s, tea.Quit
		}
	}
	return s, nil
}

func (s *GalaxyMapScreen) View(width, height int) string {
	if len(s.rows) == 0 {
		return ""
	}

	s.adjustScroll(height)

	var lines []string
	visible := 0
	for i, r := range s.rows {
		if i < s.scrollOffset {
			continue
		}
		if visible >= height {
			break
		}

		switch r.kind {
		case rowConstellationHeader:
			lines = append(lines, s.renderConstellationHeader(r.constellation, width))
		case rowTopic:
			lines = append(lines, s.renderTopicRow(r, i == s.cursor, width))
		}
		visible++
	}

	return strings.Join(lines, "\n")
}

func (s *GalaxyMapScreen) Title() string {
	return "Galaxy Map"
}

// KeyHints returns the key binding hints for the footer.
func (s *GalaxyMapScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Tab", Description: "Constellation"},
		{Key: "Enter", Description: "Details"},
		{Key: "a", Description: "Ask"},
		{Key: "q", Description: "Quit"},
	}
}

// Selected returns the topic under the cursor.
func (s *GalaxyMapScreen) Selected() (topicgraph.Topic, bool) {
	if s.cursor < 0 || s.cursor >= len(s.rows) || s.rows[s.cursor].kind != rowTopic {
		return topicgraph.Topic{}, false
	}
	return s.rows[s.cursor].topic, true
}

// moveCursor moves the cursor by delta, skipping constellation headers.
func (s *GalaxyMapScreen) moveCursor(delta int) {
	next := s.cursor + delta
	for next >= 0 && next < len(s.rows) {
		if s.rows[next].kind == rowTopic {
			s.cursor = next
			return
		}
		next += delta
	}
}

// nextConstellation jumps to the first topic of the next constellation.
func (s *GalaxyMapScreen) nextConstellation() {
	current := s.rows[s.cursor].constellation
	for i := s.cursor + 1; i < len(s.rows); i++ {
		if s.rows[i].kind == rowTopic && s.rows[i].constellation != current {
			s.cursor = i
			return
		}
	}
}

// prevConstellation jumps to the first topic of the previous constellation.
func (s *GalaxyMapScreen) prevConstellation() {
	current := s.rows[s.cursor].constellation

	prev := ""
	for i := s.cursor - 1; i >= 0; i-- {
		if s.rows[i].kind == rowTopic && s.rows[i].constellation != current {
			prev = s.rows[i].constellation
			break
		}
	}
	if prev == "" {
		return
	}
	for i, r := range s.rows {
		if r.kind == rowTopic && r.constellation == prev {
			s.cursor = i
			return
		}
	}
}

// adjustScroll ensures the cursor is visible within the viewport.
func (s *GalaxyMapScreen) adjustScroll(height int) {
	if height <= 0 {
		return
	}
	// Keep the constellation header above the cursor in view when possible.
	headerRow := s.cursor
	for headerRow > 0 && s.rows[headerRow-1].kind == rowConstellationHeader {
		headerRow--
	}

	if headerRow < s.scrollOffset {
		s.scrollOffset = headerRow
	}
	if s.cursor >= s.scrollOffset+height {
		s.scrollOffset = s.cursor - height + 1
	}
}

func (s *GalaxyMapScreen) selectTopic() tea.Cmd {
	t, ok := s.Selected()
	if !ok {
		return nil
	}
	detail := newTopicDetail(s.svc, t, s.snap)
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: detail}
	}
}

func (s *GalaxyMapScreen) renderConstellationHeader(c string, width int) string {
	topics := s.svc.Graph().ByConstellation(c)
	captured := 0
	color := ""
	for _, t := range topics {
		if s.snap.Record.IsCaptured(t.ID) {
			captured++
		}
		if color == "" {
			color = t.Color
		}
	}

	name := theme.ConstellationStyle(color).
		PaddingLeft(2).
		Render(strings.ToUpper(topicgraph.ConstellationDisplayName(c)))

	pct := 0.0
	if len(topics) > 0 {
		pct = float64(captured) / float64(len(topics))
	}
	bar := components.NewProgressBar(fmt.Sprintf("%d/%d", captured, len(topics)), pct, false, 20).View()

	gap := width - lipgloss.Width(name) - lipgloss.Width(bar) - 4
	if gap < 2 {
		gap = 2
	}
	return "\n" + name + strings.Repeat(" ", gap) + bar
}

func (s *GalaxyMapScreen) renderTopicRow(r row, selected bool, width int) string {
	view, _ := s.snap.Node(r.topic.ID)
	icon := theme.NodeIcon(view.Captured, view.Unlocked)

	status := stateLabel(view.Captured, view.Unlocked)
	if best, ok := s.snap.Record.BestScore(r.topic.ID); ok {
		status = fmt.Sprintf("best %d", best)
	}

	padding := 4
	iconWidth := 3
	diffWidth := 12
	statusWidth := 10
	spacing := 4
	nameWidth := width - padding - iconWidth - diffWidth - statusWidth - spacing
	if nameWidth < 10 {
		nameWidth = 10
	}

	name := r.topic.Name
	if len([]rune(name)) > nameWidth {
		name = string([]rune(name)[:nameWidth-1]) + "…"
	}

	nameStyle := theme.NodeStyle(view.Captured, view.Unlocked)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	cursor := "  "
	if selected {
		nameStyle = theme.Selected
		cursor = "▸ "
	}

	return fmt.Sprintf("  %s%s %s  %s  %s",
		cursor,
		theme.NodeStyle(view.Captured, view.Unlocked).Render(icon),
		nameStyle.Render(fmt.Sprintf("%-*s", nameWidth, name)),
		dimStyle.Render(fmt.Sprintf("%-12s", r.topic.Difficulty)),
		nameStyle.Render(fmt.Sprintf("%9s", status)),
	)
}

func stateLabel(captured, unlocked bool) string {
	switch {
	case captured:
		return "Captured"
	case unlocked:
		return "Unlocked"
	default:
		return "Locked"
	}
}
