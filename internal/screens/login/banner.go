package login

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mutabayinat/internal/ui/theme"
)

const bannerArt = `╭───────────────────────────────╮
│   M U T A B A Y I N A T       │
│              متباينات          │
│   x ≥ 3   ·   س < ٥   ·   ≤ ≥  │
╰───────────────────────────────╯`

const bannerCompact = "Mutabayinat · متباينات"

// RenderBanner returns the app banner in the primary color, or a one-line
// fallback on narrow terminals.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < lipgloss.Width(bannerArt)+4 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
