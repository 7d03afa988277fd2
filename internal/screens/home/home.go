package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/pawfocus/pawfocus/internal/progression"
	"github.com/pawfocus/pawfocus/internal/router"
	"github.com/pawfocus/pawfocus/internal/screen"
	"github.com/pawfocus/pawfocus/internal/screens/focus"
	"github.com/pawfocus/pawfocus/internal/screens/history"
	profilescreen "github.com/pawfocus/pawfocus/internal/screens/profile"
	"github.com/pawfocus/pawfocus/internal/store"
	"github.com/pawfocus/pawfocus/internal/timer"
	"github.com/pawfocus/pawfocus/internal/ui/components"
)

// HomeScreen is the main menu. It shows the pet and the profile summary.
type HomeScreen struct {
	svc        *progression.Service
	profileID  string
	menu       components.Menu
	menuLabels []string
	profile    progression.Profile
	errMsg     string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(svc *progression.Service, events store.EventRepo, profileID string, durations timer.Durations) *HomeScreen {
	menuLabels := []string{"START FOCUS", "PROFILE", "HISTORY", "QUIT"}

	items := []components.MenuItem{
		{Label: menuLabels[0], Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: focus.New(durations, svc, profileID)}
			}
		}},
		{Label: menuLabels[1], Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: profilescreen.New(svc, events, profileID)}
			}
		}},
		{Label: menuLabels[2], Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(events, profileID)}
			}
		}},
		{Label: menuLabels[3], Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		svc:        svc,
		profileID:  profileID,
		menu:       components.NewMenu(items),
		menuLabels: menuLabels,
		profile:    progression.NewProfile(),
	}
}

// Init reloads the profile; it also runs when the screen is uncovered.
func (h *HomeScreen) Init() tea.Cmd {
	return screen.LoadProfile(h.svc, h.profileID)
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(screen.ProfileMsg); ok {
		if msg.Err != nil {
			h.errMsg = msg.Err.Error()
		} else {
			h.profile = msg.Profile
			h.errMsg = ""
		}
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back header, footer and frame gaps
	termHeight := height + 8
	compact := termHeight < 30 || width < 100

	cw := contentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		sections = append(sections, renderPetBox(h.profile, cw))
	}
	sections = append(sections, renderStatsBar(h.profile, cw, compact))
	if h.errMsg != "" {
		sections = append(sections, "Error: "+h.errMsg)
	}
	sections = append(sections, renderMenu(h.menuLabels, h.menu.Selected, cw))

	return renderCabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
