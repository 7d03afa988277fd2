package app

import (
	"fmt"
	"log/slog"

	tea "charm.land/bubbletea/v2"

	"github.com/pawfocus/pawfocus/internal/progression"
	"github.com/pawfocus/pawfocus/internal/router"
	"github.com/pawfocus/pawfocus/internal/screen"
	"github.com/pawfocus/pawfocus/internal/screens/home"
	"github.com/pawfocus/pawfocus/internal/screens/welcome"
	"github.com/pawfocus/pawfocus/internal/store"
	"github.com/pawfocus/pawfocus/internal/timer"
	"github.com/pawfocus/pawfocus/internal/ui/layout"
)

// Options holds the dependencies the TUI needs.
type Options struct {
	Service   *progression.Service
	Events    store.EventRepo
	ProfileID string
	Durations timer.Durations
	Logger    *slog.Logger

	// SkipWelcome starts on the home screen.
	SkipWelcome bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	stats  layout.Stats
	logger *slog.Logger
	width  int
	height int
}

func newAppModel(opts Options) AppModel {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	homeFactory := func() screen.Screen {
		return home.New(opts.Service, opts.Events, opts.ProfileID, opts.Durations)
	}

	var initial screen.Screen
	if opts.SkipWelcome {
		initial = homeFactory()
	} else {
		initial = welcome.New(homeFactory)
	}
	return AppModel{
		router: router.New(initial),
		stats:  layout.Stats{Level: 1},
		logger: logger,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case screen.ProfileMsg:
		if msg.Err != nil {
			m.logger.Error("load profile", "error", msg.Err)
		} else {
			m.stats = layout.Stats{Level: msg.Profile.Level, Coins: msg.Profile.Coins, Points: msg.Profile.Points}
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() <= 1 {
				return m, nil
			}
			if h, ok := m.router.Active().(screen.BackHandler); ok {
				return m, h.Back()
			}
			return m, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.stats, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	contentHeight := layout.ContentHeight(m.height)
	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		return append(p.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program and stops any running screen work on
// exit.
func Run(opts Options) error {
	if opts.Service == nil || opts.Events == nil {
		return fmt.Errorf("app: service and event repo are required")
	}
	model := newAppModel(opts)
	defer model.router.CloseAll()

	p := tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
