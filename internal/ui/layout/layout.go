package layout

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	"charm.land/lipgloss/v2"

	"github.com/pawfocus/pawfocus/internal/ui/theme"
)

// The focus screen needs room for the clock, bar, pet and help line.
const (
	MinWidth  = 60
	MinHeight = 20

	HeaderHeight = 3
	FooterHeight = 3
)

// KeyHint is one key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// HintsFor converts enabled bindings to footer hints, in order.
func HintsFor(bindings ...key.Binding) []KeyHint {
	hints := make([]KeyHint, 0, len(bindings))
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		hints = append(hints, KeyHint{Key: b.Help().Key, Description: b.Help().Desc})
	}
	return hints
}

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// ContentHeight returns the rows left for the active screen.
func ContentHeight(totalHeight int) int {
	return max(totalHeight-HeaderHeight-FooterHeight, 0)
}

func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"The cat needs more room.\n\nResize to at least %d x %d\n(now %d x %d)",
			MinWidth, MinHeight, width, height,
		))
}

// Stats is the profile summary shown on the right of the header.
type Stats struct {
	Level  int
	Coins  int
	Points int
}

func (s Stats) render() string {
	level := lipgloss.NewStyle().Foreground(theme.Gold).Render(fmt.Sprintf("Lv %d", s.Level))
	coins := lipgloss.NewStyle().Foreground(theme.Coin).Render(fmt.Sprintf("● %d", s.Coins))
	points := lipgloss.NewStyle().Foreground(theme.Focus).Render(fmt.Sprintf("%d pts", s.Points))
	return level + "  " + coins + "  " + points
}

// RenderHeader draws the app name, the screen title centred, and stats.
func RenderHeader(title string, stats Stats, width int) string {
	left := theme.Selected.Render("  PawFocus")
	center := theme.Body.Render(title)
	inner := max(width-4, 0)
	return boxed(spread(inner, left, center, stats.render()), width)
}

func RenderFooter(hints []KeyHint, width int) string {
	parts := make([]string, 0, len(hints))
	keyStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	for _, h := range hints {
		parts = append(parts, keyStyle.Render(h.Key)+" "+descStyle.Render(h.Description))
	}
	return boxed("  "+strings.Join(parts, "   "), width)
}

// RenderFrame stacks header, content and footer, giving the content all
// remaining height.
func RenderFrame(header, content, footer string, width, height int) string {
	contentHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().
		Width(width).
		Height(contentHeight).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// spread places center in the middle of width and pins left and right to
// the edges, keeping at least one space between neighbours.
func spread(width int, left, center, right string) string {
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)
	leftGap := max((width-cw)/2-lw, 1)
	rightGap := max(width-lw-leftGap-cw-rw, 1)
	return left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right
}

func boxed(content string, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}
