package focus

import (
	"time"

	"github.com/pawfocus/pawfocus/internal/progression"
	"github.com/pawfocus/pawfocus/internal/timer"
)

// tickMsg is sent every second while the timer runs. gen ties it to the
// tick loop that scheduled it so a stale tick is dropped after pause/reset.
type tickMsg struct {
	gen int
	at  time.Time
}

// recordedMsg reports the outcome of persisting a finished phase.
type recordedMsg struct {
	Completion timer.Completion
	Result     progression.Result
	Err        error
}

// toastDoneMsg clears the level-up banner.
type toastDoneMsg struct {
	gen int
}
