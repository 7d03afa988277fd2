package profile

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/pawfocus/pawfocus/internal/pet"
	"github.com/pawfocus/pawfocus/internal/progression"
	"github.com/pawfocus/pawfocus/internal/screen"
	"github.com/pawfocus/pawfocus/internal/store"
	"github.com/pawfocus/pawfocus/internal/timer"
	"github.com/pawfocus/pawfocus/internal/ui/components"
	"github.com/pawfocus/pawfocus/internal/ui/layout"
	"github.com/pawfocus/pawfocus/internal/ui/theme"
)

// recentGrants is how many reward grants the screen lists.
const recentGrants = 5

type historyLoadedMsg struct {
	Totals store.FocusTotals
	Grants []store.GrantRecord
	Err    error
}

type reconciledMsg struct {
	Result progression.Result
	Err    error
}

// ProfileScreen shows level progress, owned accessories and reward history.
type ProfileScreen struct {
	svc       *progression.Service
	events    store.EventRepo
	profileID string

	profile progression.Profile
	totals  store.FocusTotals
	grants  []store.GrantRecord
	notice  string
	loaded  bool
	errMsg  string
}

var _ screen.Screen = (*ProfileScreen)(nil)
var _ screen.KeyHintProvider = (*ProfileScreen)(nil)

// New creates a new ProfileScreen.
func New(svc *progression.Service, events store.EventRepo, profileID string) *ProfileScreen {
	return &ProfileScreen{
		svc:       svc,
		events:    events,
		profileID: profileID,
		profile:   progression.NewProfile(),
	}
}

func (s *ProfileScreen) Init() tea.Cmd {
	return tea.Batch(screen.LoadProfile(s.svc, s.profileID), s.loadHistory())
}

func (s *ProfileScreen) loadHistory() tea.Cmd {
	events, id := s.events, s.profileID
	return func() tea.Msg {
		ctx := context.Background()
		totals, err := events.FocusTotals(ctx, id)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		grants, err := events.QueryGrants(ctx, id, store.QueryOpts{Limit: recentGrants})
		if err != nil {
			return historyLoadedMsg{Totals: totals, Err: err}
		}
		return historyLoadedMsg{Totals: totals, Grants: grants}
	}
}

func (s *ProfileScreen) Title() string {
	return "Profile"
}

func (s *ProfileScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "c", Description: "Check rewards"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ProfileScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.ProfileMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.profile = msg.Profile
		return s, nil

	case historyLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.totals = msg.Totals
		s.grants = msg.Grants
		return s, nil

	case reconciledMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.profile = msg.Result.After
		s.notice = msg.Result.Summary.String()
		after := msg.Result.After
		return s, tea.Batch(
			func() tea.Msg { return screen.ProfileMsg{Profile: after} },
			s.loadHistory(),
		)

	case tea.KeyMsg:
		switch msg.String() {
		case "c":
			svc, id := s.svc, s.profileID
			return s, func() tea.Msg {
				res, err := svc.Reconcile(context.Background(), id)
				return reconciledMsg{Result: res, Err: err}
			}
		}
	}
	return s, nil
}

func (s *ProfileScreen) View(width, height int) string {
	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}

	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}

	p := s.profile
	engine := s.svc.Engine()
	earned, span := engine.NextLevelProgress(p.Points)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center(theme.Title.Render(fmt.Sprintf("Level %d", p.Level))))
	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim).Render(
		fmt.Sprintf("%d points   %d coins", p.Points, p.Coins))))
	b.WriteString("\n\n")

	var pct float64
	if span > 0 {
		pct = float64(earned) / float64(span)
	}
	bar := components.NewProgressBar(pct, min(width-8, 56)).
		WithLabel("Next level").
		WithCaption(fmt.Sprintf("%d/%d", earned, span)).
		WithFill(theme.Gold)
	b.WriteString(center(bar.View()))
	b.WriteString("\n\n")

	b.WriteString(center(pet.Render(pet.MoodIdle, p.Owned)))
	b.WriteString("\n\n")

	owned := "none yet"
	if len(p.Owned) > 0 {
		owned = strings.Join(p.Owned.Sorted(), ", ")
	}
	b.WriteString(center(theme.Body.Render("Accessories: " + owned)))
	b.WriteString("\n")

	if !s.loaded {
		b.WriteString(center(theme.Hint.Render("Loading history...")))
		return b.String()
	}

	b.WriteString(center(theme.Body.Render(fmt.Sprintf(
		"%s phases completed: %d   Minutes focused: %d",
		timer.PhaseWork.DisplayName(), s.totals.WorkPhases, s.totals.FocusMinutes))))
	b.WriteString("\n\n")

	if s.notice != "" {
		b.WriteString(center(theme.Reward.Render(s.notice)))
		b.WriteString("\n\n")
	}

	if len(s.grants) == 0 {
		b.WriteString(center(theme.Hint.Render("No rewards yet. Finish a focus phase!")))
		return b.String()
	}
	b.WriteString(center(theme.Subtitle.Render("Recent rewards")))
	b.WriteString("\n")
	for _, g := range s.grants {
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text).Render(grantLine(g))))
		b.WriteString("\n")
	}
	return b.String()
}

func grantLine(g store.GrantRecord) string {
	levels := make([]string, len(g.Levels))
	for i, l := range g.Levels {
		levels[i] = fmt.Sprint(l)
	}
	line := fmt.Sprintf("%s  Lv %s  +%d coins", g.GrantedAt.Local().Format("Jan 02 15:04"), strings.Join(levels, ","), g.Coins)
	if len(g.Accessories) > 0 {
		line += "  " + strings.Join(g.Accessories, ", ")
	}
	return line + "  (" + g.Source + ")"
}
