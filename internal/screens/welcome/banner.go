package welcome

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/pawfocus/pawfocus/internal/ui/theme"
)

var bannerLines = []string{
	"╔═╗┌─┐┬ ┬╔═╗┌─┐┌─┐┬ ┬┌─┐",
	"╠═╝├─┤│││╠╣ │ ││  │ │└─┐",
	"╩  ┴ ┴└┴┘╚  └─┘└─┘└─┘└─┘",
}

// bannerTints colour the banner top to bottom.
var bannerTints = []color.Color{theme.Primary, theme.Focus, theme.Coin}

const (
	bannerCompact    = "P A W F O C U S"
	compactBelowCols = 30
)

// RenderBanner draws the title art, or a spaced-out word on narrow terminals.
func RenderBanner(width int) string {
	if width < compactBelowCols {
		return lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(bannerCompact)
	}
	lines := make([]string, len(bannerLines))
	for i, line := range bannerLines {
		lines[i] = lipgloss.NewStyle().Foreground(bannerTints[i%len(bannerTints)]).Bold(true).Render(line)
	}
	return strings.Join(lines, "\n")
}
