package dashboard

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pymaster/internal/ui/theme"
)

const bannerArt = `
 ██████╗ ██╗   ██╗███╗   ███╗ █████╗ ███████╗████████╗███████╗██████╗
 ██╔══██╗╚██╗ ██╔╝████╗ ████║██╔══██╗██╔════╝╚══██╔══╝██╔════╝██╔══██╗
 ██████╔╝ ╚████╔╝ ██╔████╔██║███████║███████╗   ██║   █████╗  ██████╔╝
 ██╔═══╝   ╚██╔╝  ██║╚██╔╝██║██╔══██║╚════██║   ██║   ██╔══╝  ██╔══██╗
 ██║        ██║   ██║ ╚═╝ ██║██║  ██║███████║   ██║   ███████╗██║  ██║
 ╚═╝        ╚═╝   ╚═╝     ╚═╝╚═╝  ╚═╝╚══════╝   ╚═╝   ╚══════╝╚═╝  ╚═╝`

const bannerCompact = "P Y M A S T E R"

// bannerMinWidth is the narrowest frame the full art fits in.
const bannerMinWidth = 74

// renderBanner returns the banner in the primary colour, or a one-line
// fallback when the terminal is narrow or short.
func renderBanner(width, height int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerMinWidth || height < 36 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
