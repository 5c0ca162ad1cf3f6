package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathgalaxy/internal/router"
	"github.com/abhisek/mathgalaxy/internal/screen"
	"github.com/abhisek/mathgalaxy/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 500 * time.Millisecond
	phase2End    = 1200 * time.Millisecond
	totalDur     = 2000 * time.Millisecond
)

const galaxyArt = `        ·    ✦       ·
   ·        ╭──────╮      ·
       ✦  ╭─╯  ··  ╰─╮
  ·      ╭╯ ·  ◉◉  · ╰╮    ✦
         ╰╮ ·  ◉◉  · ╭╯
    ✦     ╰─╮  ··  ╭─╯  ·
       ·    ╰──────╯
  ·       ✦        ·    ·`

// twinkle frames replace the ✦ stars while the splash runs.
var twinkleFrames = []string{"✦", "✧", "★"}

type tickMsg time.Time

// WelcomeScreen shows a short splash before the galaxy map. Any key skips it.
type WelcomeScreen struct {
	next         func() screen.Screen
	tagline      string
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that replaces itself with the screen produced
// by next. tagline is shown under the banner.
func New(next func() screen.Screen, tagline string) *WelcomeScreen {
	return &WelcomeScreen{next: next, tagline: tagline}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.next()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	art := galaxyArt
	if w.elapsed >= phase1End {
		art = strings.ReplaceAll(art, "✦", twinkleFrames[w.tickCount%len(twinkleFrames)])
	}
	sections = append(sections, lipgloss.NewStyle().Foreground(theme.Primary).Render(art))

	if w.elapsed >= phase2End {
		sections = append(sections, "", RenderBanner(width), "")
		if w.tagline != "" {
			sections = append(sections, lipgloss.NewStyle().
				Foreground(theme.Text).
				Bold(true).
				Render(w.tagline))
		}
		sections = append(sections, "", theme.Hint.Render("press any key to explore"))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}
