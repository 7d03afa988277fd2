package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/pawfocus/pawfocus/internal/progression"
	"github.com/pawfocus/pawfocus/internal/router"
	"github.com/pawfocus/pawfocus/internal/screen"
	"github.com/pawfocus/pawfocus/internal/ui/layout"
	"github.com/pawfocus/pawfocus/internal/ui/theme"
)

// Report is what one visit to the focus screen achieved.
type Report struct {
	WorkPhases   int
	Skipped      int
	FocusMinutes int
	PointsEarned int
	Rewards      []progression.Summary
	Profile      progression.Profile
}

// SummaryScreen displays the focus session summary.
type SummaryScreen struct {
	report Report
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(report Report) *SummaryScreen {
	return &SummaryScreen{report: report}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	r := s.report
	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("Session complete!")))
	b.WriteString("\n\n")

	statsLine := fmt.Sprintf("Focus phases: %d        Minutes: %d        Points: +%d",
		r.WorkPhases, r.FocusMinutes, r.PointsEarned)
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text).Render(statsLine)))
	b.WriteString("\n")
	if r.Skipped > 0 {
		b.WriteString(center(theme.Hint.Render(fmt.Sprintf("%d phase(s) skipped", r.Skipped))))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim).Render(
		fmt.Sprintf("Now level %d with %d coins", r.Profile.Level, r.Profile.Coins))))
	b.WriteString("\n\n")

	if len(r.Rewards) == 0 {
		return b.String()
	}

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(width-8, 60)))
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim).Render("Rewards")))
	b.WriteString("\n")
	b.WriteString(center(divider))
	b.WriteString("\n\n")
	for _, sum := range r.Rewards {
		b.WriteString(center(theme.Reward.Render("★ " + sum.String())))
		b.WriteString("\n")
	}
	return b.String()
}
