package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/pawfocus/pawfocus/internal/ui/theme"
)

const (
	cellFilled = "█"
	cellEmpty  = "░"
	minCells   = 4
)

// ProgressBar draws a fraction as a row of filled and empty cells with an
// optional label before it and a caption after it.
type ProgressBar struct {
	Percent     float64
	Width       int
	Label       string
	Caption     string
	ShowPercent bool
	Fill        color.Color
}

// NewProgressBar returns a bar of the given total width tinted for focus.
func NewProgressBar(percent float64, width int) ProgressBar {
	return ProgressBar{Percent: percent, Width: width, Fill: theme.Focus}
}

func (p ProgressBar) WithLabel(label string) ProgressBar {
	p.Label = label
	return p
}

// WithCaption sets text shown after the bar, e.g. "12/40".
func (p ProgressBar) WithCaption(caption string) ProgressBar {
	p.Caption = caption
	return p
}

func (p ProgressBar) WithPercent() ProgressBar {
	p.ShowPercent = true
	return p
}

func (p ProgressBar) WithFill(c color.Color) ProgressBar {
	p.Fill = c
	return p
}

// View renders the bar. Percent is clamped to [0, 1].
func (p ProgressBar) View() string {
	pct := min(max(p.Percent, 0), 1)

	var head, tail string
	if p.Label != "" {
		head = theme.Body.Render(p.Label) + " "
	}
	switch {
	case p.Caption != "":
		tail = " " + theme.Hint.Render(p.Caption)
	case p.ShowPercent:
		tail = " " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("%3d%%", int(pct*100)))
	}

	cells := max(p.Width-lipgloss.Width(head)-lipgloss.Width(tail), minCells)
	filled := int(float64(cells) * pct)

	fill := p.Fill
	if fill == nil {
		fill = theme.Focus
	}
	bar := lipgloss.NewStyle().Foreground(fill).Render(strings.Repeat(cellFilled, filled)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat(cellEmpty, cells-filled))
	return head + bar + tail
}
