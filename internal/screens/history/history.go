package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/pawfocus/pawfocus/internal/screen"
	"github.com/pawfocus/pawfocus/internal/store"
	"github.com/pawfocus/pawfocus/internal/timer"
	"github.com/pawfocus/pawfocus/internal/ui/layout"
	"github.com/pawfocus/pawfocus/internal/ui/theme"
)

// maxSessions caps how many phases the screen loads.
const maxSessions = 50

type historyLoadedMsg struct {
	Sessions []store.FocusSessionRecord
	Err      error
}

// HistoryScreen lists past timer phases, newest first.
type HistoryScreen struct {
	eventRepo store.EventRepo
	profileID string
	sessions  []store.FocusSessionRecord
	selected  int
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo, profileID string) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		profileID: profileID,
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		sessions, err := s.eventRepo.QueryFocusSessions(context.Background(), s.profileID, store.QueryOpts{Limit: maxSessions})
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No focus sessions yet. Start a timer!")
	}

	// Keep the selection on screen.
	visible := max(height-2, 1)
	start := 0
	if s.selected >= visible {
		start = s.selected - visible + 1
	}
	end := min(start+visible, len(s.sessions))

	var b strings.Builder
	b.WriteString("\n")
	for i := start; i < end; i++ {
		line := sessionLine(s.sessions[i])
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if s.sessions[i].Skipped {
			style = style.Foreground(theme.TextDim)
		}
		if i == s.selected {
			prefix = "> "
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(prefix+line)))
		b.WriteString("\n")
	}
	return b.String()
}

func sessionLine(rec store.FocusSessionRecord) string {
	dateStr := rec.CompletedAt.Local().Format("Jan 02, 15:04")
	duration := fmt.Sprintf("%d:%02d", rec.Seconds/60, rec.Seconds%60)
	phase := timer.Phase(rec.Phase).DisplayName()

	status := fmt.Sprintf("+%d pts", rec.PointsAwarded)
	if rec.Skipped {
		status = "skipped"
	}
	return fmt.Sprintf("%s  %-11s  %s  cycle %d  %s", dateStr, phase, duration, rec.Cycle, status)
}
