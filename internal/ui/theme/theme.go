package theme

import (
	"charm.land/lipgloss/v2"
)

// Palette. Focus and Rest tint the two kinds of timer phase; Coin and Gold
// mark currency and level rewards.
var (
	Primary = lipgloss.Color("#8B5CF6")
	Focus   = lipgloss.Color("#14B8A6")
	Rest    = lipgloss.Color("#22C55E")
	Coin    = lipgloss.Color("#F97316")
	Gold    = lipgloss.Color("#FACC15")
	Error   = lipgloss.Color("#F43F5E")
	Text    = lipgloss.Color("#F8FAFC")
	TextDim = lipgloss.Color("#94A3B8")
	BgDark  = lipgloss.Color("#0F172A")
	Border  = lipgloss.Color("#334155")
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	// Clock renders the remaining time on the focus screen.
	Clock = lipgloss.NewStyle().
		Foreground(Text).
		Bold(true).
		Padding(0, 1)

	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Reward = lipgloss.NewStyle().
		Foreground(Gold).
		Bold(true)
)

// PhaseTint returns the fill colour for a timer phase.
func PhaseTint(isBreak bool) lipgloss.Style {
	if isBreak {
		return lipgloss.NewStyle().Foreground(Rest)
	}
	return lipgloss.NewStyle().Foreground(Focus)
}
