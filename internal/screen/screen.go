package screen

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/pawfocus/pawfocus/internal/progression"
	"github.com/pawfocus/pawfocus/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Closer is implemented by screens that hold running work, such as a
// ticking timer, that must stop when the screen leaves the stack.
type Closer interface {
	Close()
}

// BackHandler is implemented by screens that decide what Esc does instead
// of a plain pop.
type BackHandler interface {
	Back() tea.Cmd
}

// ProfileMsg carries a freshly loaded or updated profile. The app uses it
// for the header and forwards it to the active screen.
type ProfileMsg struct {
	Profile progression.Profile
	Err     error
}

// LoadProfile returns a command that loads id through svc as a ProfileMsg.
func LoadProfile(svc *progression.Service, id string) tea.Cmd {
	return func() tea.Msg {
		p, err := svc.Load(context.Background(), id)
		return ProfileMsg{Profile: p, Err: err}
	}
}
