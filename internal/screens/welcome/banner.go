package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathgalaxy/internal/ui/theme"
)

const bannerArt = `
 █▀▄▀█ ▄▀█ ▀█▀ █ █   █▀▀ ▄▀█ █   ▄▀█ ▀▄▀ █▄█
 █ ▀ █ █▀█  █  █▀█   █▄█ █▀█ █▄▄ █▀█ █ █  █ `

const bannerCompact = "M A T H G A L A X Y"

// RenderBanner returns the MATHGALAXY banner styled in the accent color.
// Uses a compact fallback for terminals narrower than 48 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true)

	if width < 48 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
