package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette: deep space background, star-like highlights.
var (
	Primary   = lipgloss.Color("#A78BFA") // Nebula Violet
	Secondary = lipgloss.Color("#38BDF8") // Sky
	Accent    = lipgloss.Color("#FACC15") // Star Gold
	Success   = lipgloss.Color("#34D399") // Emerald
	Error     = lipgloss.Color("#FB7185") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Locked    = lipgloss.Color("#475569") // Dim Slate
	BgDark    = lipgloss.Color("#020617") // Void
	BgCard    = lipgloss.Color("#111827") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Node glyphs.
const (
	IconCaptured = "★"
	IconUnlocked = "◉"
	IconLocked   = "○"
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Captured = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	Unlocked = lipgloss.NewStyle().
			Foreground(Secondary)

	Dimmed = lipgloss.NewStyle().
		Foreground(Locked)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Accent)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)
)

// NodeIcon returns the glyph for a topic's state.
func NodeIcon(captured, unlocked bool) string {
	switch {
	case captured:
		return IconCaptured
	case unlocked:
		return IconUnlocked
	default:
		return IconLocked
	}
}

// NodeStyle returns the style for a topic's state.
func NodeStyle(captured, unlocked bool) lipgloss.Style {
	switch {
	case captured:
		return Captured
	case unlocked:
		return Unlocked
	default:
		return Dimmed
	}
}

// ConstellationStyle colours a heading with the constellation's catalog
// colour, falling back to Primary when none is set.
func ConstellationStyle(hex string) lipgloss.Style {
	st := lipgloss.NewStyle().Bold(true).Foreground(Primary)
	if hex != "" {
		st = st.Foreground(lipgloss.Color(hex))
	}
	return st
}
