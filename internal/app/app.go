package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathgalaxy/internal/router"
	"github.com/abhisek/mathgalaxy/internal/screen"
	"github.com/abhisek/mathgalaxy/internal/screens/galaxymap"
	"github.com/abhisek/mathgalaxy/internal/screens/welcome"
	"github.com/abhisek/mathgalaxy/internal/ui/layout"
)

// Options configures the terminal UI.
type Options struct {
	// Galaxy drives every screen. Required.
	Galaxy galaxymap.Service

	// SkipSplash opens the map directly.
	SkipSplash bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router   *router.Router
	captured int
	total    int
	width    int
	height   int
}

// newAppModel creates a new AppModel. The splash replaces itself with the
// galaxy map on the first key press.
func newAppModel(opts Options) AppModel {
	total := opts.Galaxy.Graph().Count()
	newMap := func() screen.Screen { return galaxymap.New(opts.Galaxy) }

	captured := opts.Galaxy.Map(context.Background()).CapturedCount()
	var root screen.Screen
	if opts.SkipSplash {
		root = newMap()
	} else {
		root = welcome.New(newMap, fmt.Sprintf("%d of %d topics captured", captured, total))
	}
	return AppModel{
		router:   router.New(root),
		captured: captured,
		total:    total,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case screen.SnapshotMsg:
		m.captured = msg.Snapshot.CapturedCount()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.captured, m.total, m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	if opts.Galaxy == nil {
		return fmt.Errorf("app: galaxy service is required")
	}
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
