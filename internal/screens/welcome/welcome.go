package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/pawfocus/pawfocus/internal/pet"
	"github.com/pawfocus/pawfocus/internal/progression"
	"github.com/pawfocus/pawfocus/internal/router"
	"github.com/pawfocus/pawfocus/internal/screen"
	"github.com/pawfocus/pawfocus/internal/ui/theme"
)

const tickInterval = 100 * time.Millisecond

// stage is how far the splash has played.
type stage int

const (
	stageWaking   stage = iota // sleepy cat alone
	stageSparkles              // cat awake, sparkles around it
	stageBanner                // celebrating cat, title and prompt
)

// stageStarts holds when each stage begins. The last entry caps elapsed.
var stageStarts = []time.Duration{0, 500 * time.Millisecond, 1500 * time.Millisecond}

const maxElapsed = 4500 * time.Millisecond

var stageMoods = map[stage]pet.Mood{
	stageWaking:   pet.MoodSleepy,
	stageSparkles: pet.MoodIdle,
	stageBanner:   pet.MoodCelebrating,
}

var sparkleFrames = []string{"★", "✦"}

const tagline = "Focus, level up, dress up your cat."

type tickMsg time.Time

// WelcomeScreen plays a short splash and hands over to the home screen on
// the first key press.
type WelcomeScreen struct {
	next         func() screen.Screen
	elapsed      time.Duration
	frame        int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New returns a splash that replaces itself with next() when dismissed.
func New(next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{next: next}
}

func (w *WelcomeScreen) Title() string { return "" }

func (w *WelcomeScreen) Init() tea.Cmd { return tick() }

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		w.elapsed = min(w.elapsed+tickInterval, maxElapsed)
		w.frame++
		return w, tick()
	case tea.KeyPressMsg:
		return w, w.dismiss()
	}
	return w, nil
}

func (w *WelcomeScreen) stage() stage {
	current := stageWaking
	for i, start := range stageStarts {
		if w.elapsed >= start {
			current = stage(i)
		}
	}
	return current
}

func (w *WelcomeScreen) dismiss() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	home := w.next()
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: home} }
}

func (w *WelcomeScreen) View(width, height int) string {
	st := w.stage()
	cat := pet.Render(stageMoods[st], progression.AccessorySet{})
	if st >= stageSparkles {
		cat = w.withSparkles(cat)
	}

	sections := []string{cat}
	if st == stageBanner {
		sections = append(sections,
			"",
			RenderBanner(width),
			"",
			theme.Body.Bold(true).Render(tagline),
			"",
			theme.Hint.Render("press any key to continue"),
		)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}

// withSparkles frames every other line of art with alternating sparkles.
func (w *WelcomeScreen) withSparkles(art string) string {
	a := sparkleFrames[w.frame%len(sparkleFrames)]
	b := sparkleFrames[(w.frame+1)%len(sparkleFrames)]
	left := lipgloss.NewStyle().Foreground(theme.Coin).Render(a)
	right := lipgloss.NewStyle().Foreground(theme.Focus).Render(b)

	lines := strings.Split(art, "\n")
	for i, line := range lines {
		if i%2 == 0 {
			lines[i] = left + "  " + line + "  " + right
		} else {
			lines[i] = "   " + line + "   "
		}
	}
	return strings.Join(lines, "\n")
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
