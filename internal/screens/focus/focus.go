package focus

import (
	"context"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/pawfocus/pawfocus/internal/progression"
	"github.com/pawfocus/pawfocus/internal/router"
	"github.com/pawfocus/pawfocus/internal/screen"
	"github.com/pawfocus/pawfocus/internal/screens/summary"
	"github.com/pawfocus/pawfocus/internal/timer"
	"github.com/pawfocus/pawfocus/internal/ui/layout"
)

// toastDuration is how long a level-up banner stays up.
const toastDuration = 6 * time.Second

type keyMap struct {
	Start key.Binding
	Pause key.Binding
	Reset key.Binding
	Next  key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Pause, k.Reset, k.Next}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Start: key.NewBinding(key.WithKeys("s", "space"), key.WithHelp("s", "start/resume")),
	Pause: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
	Reset: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
	Next:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next phase")),
}

// FocusScreen runs a Pomodoro timer and turns finished work phases into
// points.
type FocusScreen struct {
	engine    *timer.Engine
	svc       *progression.Service
	profileID string
	help      help.Model

	profile  progression.Profile
	last     progression.Summary // most recent level-up, shown as a toast
	lastDone *timer.Completion
	errMsg   string
	report   summary.Report

	tickGen  int
	toastGen int
}

var _ screen.Screen = (*FocusScreen)(nil)
var _ screen.KeyHintProvider = (*FocusScreen)(nil)
var _ screen.Closer = (*FocusScreen)(nil)
var _ screen.BackHandler = (*FocusScreen)(nil)

// New creates a FocusScreen with a fresh timer.
func New(d timer.Durations, svc *progression.Service, profileID string) *FocusScreen {
	return &FocusScreen{
		engine:    timer.New(d),
		svc:       svc,
		profileID: profileID,
		help:      help.New(),
		profile:   progression.NewProfile(),
	}
}

// Engine exposes the timer for tests.
func (f *FocusScreen) Engine() *timer.Engine {
	return f.engine
}

func (f *FocusScreen) Init() tea.Cmd {
	return screen.LoadProfile(f.svc, f.profileID)
}

func (f *FocusScreen) Title() string {
	return "Focus"
}

func (f *FocusScreen) KeyHints() []layout.KeyHint {
	return append([]layout.KeyHint{{Key: "Esc", Description: "Back"}}, layout.HintsFor(keys.ShortHelp()...)...)
}

// Close pauses the timer so leaving the screen does not lose the phase.
func (f *FocusScreen) Close() {
	f.tickGen++
	if f.engine.Snapshot().RunState == timer.StateRunning {
		f.engine.Pause()
	}
}

// Back leaves the screen, showing a summary when any phase ended here.
func (f *FocusScreen) Back() tea.Cmd {
	if f.report.WorkPhases == 0 && f.report.Skipped == 0 {
		return func() tea.Msg { return router.PopScreenMsg{} }
	}
	report := f.report
	report.Profile = f.profile
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: summary.New(report)} }
}

func (f *FocusScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.ProfileMsg:
		if msg.Err != nil {
			f.errMsg = msg.Err.Error()
			return f, nil
		}
		f.profile = msg.Profile
		return f, nil

	case tickMsg:
		return f.handleTick(msg)

	case recordedMsg:
		return f.handleRecorded(msg)

	case toastDoneMsg:
		if msg.gen == f.toastGen {
			f.last = progression.Summary{}
		}
		return f, nil

	case tea.KeyMsg:
		return f.handleKey(msg)
	}
	return f, nil
}

func (f *FocusScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Start):
		snap := f.engine.Snapshot()
		switch snap.RunState {
		case timer.StateRunning:
			return f, nil
		case timer.StatePaused:
			f.engine.Resume()
		default:
			f.engine.Start()
		}
		return f, f.startTicking()

	case key.Matches(msg, keys.Pause):
		f.engine.Pause()
		f.tickGen++
		return f, nil

	case key.Matches(msg, keys.Reset):
		f.engine.Reset()
		f.tickGen++
		f.lastDone = nil
		return f, nil

	case key.Matches(msg, keys.Next):
		f.tickGen++
		c := f.engine.NextPhase()
		return f, f.complete(c)
	}
	return f, nil
}

func (f *FocusScreen) handleTick(msg tickMsg) (screen.Screen, tea.Cmd) {
	if msg.gen != f.tickGen {
		return f, nil
	}
	c, done := f.engine.Tick()
	if done {
		f.tickGen++
		return f, f.complete(c)
	}
	if f.engine.Snapshot().RunState != timer.StateRunning {
		return f, nil
	}
	return f, tickCmd(f.tickGen)
}

func (f *FocusScreen) handleRecorded(msg recordedMsg) (screen.Screen, tea.Cmd) {
	f.errMsg = ""
	if msg.Err != nil {
		f.errMsg = msg.Err.Error()
		// A zero level means the award itself failed.
		if msg.Result.After.Level == 0 {
			return f, nil
		}
	}
	f.profile = msg.Result.After
	f.tally(msg.Completion, msg.Result)

	profileCmd := func() tea.Msg { return screen.ProfileMsg{Profile: msg.Result.After} }
	if !msg.Result.LeveledUp() {
		return f, profileCmd
	}
	f.last = msg.Result.Summary
	f.toastGen++
	gen := f.toastGen
	return f, tea.Batch(profileCmd, tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastDoneMsg{gen: gen}
	}))
}

func (f *FocusScreen) startTicking() tea.Cmd {
	f.tickGen++
	return tickCmd(f.tickGen)
}

// complete records c and awards points for it in the background.
func (f *FocusScreen) complete(c timer.Completion) tea.Cmd {
	f.lastDone = &c
	svc, id := f.svc, f.profileID
	return func() tea.Msg {
		res, err := svc.RecordFocus(context.Background(), id, c)
		return recordedMsg{Completion: c, Result: res, Err: err}
	}
}

func (f *FocusScreen) tally(c timer.Completion, res progression.Result) {
	if c.Phase != timer.PhaseWork {
		return
	}
	if c.Skipped {
		f.report.Skipped++
		return
	}
	f.report.WorkPhases++
	f.report.FocusMinutes += c.Seconds / 60
	f.report.PointsEarned += res.After.Points - res.Before.Points
	if res.LeveledUp() {
		f.report.Rewards = append(f.report.Rewards, res.Summary)
	}
}

// tickCmd returns a 1-second tick command for loop gen.
func tickCmd(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg{gen: gen, at: t}
	})
}
