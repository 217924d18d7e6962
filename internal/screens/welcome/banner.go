package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/pioneer-academy/nmotrain/internal/ui/theme"
)

const bannerArt = `
 ███╗   ██╗███╗   ███╗ ██████╗
 ████╗  ██║████╗ ████║██╔═══██╗
 ██╔██╗ ██║██╔████╔██║██║   ██║
 ██║╚██╗██║██║╚██╔╝██║██║   ██║
 ██║ ╚████║██║ ╚═╝ ██║╚██████╔╝
 ╚═╝  ╚═══╝╚═╝     ╚═╝ ╚═════╝`

const bannerCompact = "N M O"

// RenderBanner returns the NMO banner styled in the primary color. Uses a
// compact fallback for terminals narrower than 34 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 34 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
