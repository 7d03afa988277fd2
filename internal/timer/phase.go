package timer

import (
	"fmt"
	"time"
)

// Phase is one segment of the focus cycle.
type Phase string

const (
	PhaseWork       Phase = "work"
	PhaseShortBreak Phase = "short_break"
	PhaseLongBreak  Phase = "long_break"
)

// DisplayName returns a human-readable label for the phase.
func (p Phase) DisplayName() string {
	switch p {
	case PhaseWork:
		return "Focus"
	case PhaseShortBreak:
		return "Short Break"
	case PhaseLongBreak:
		return "Long Break"
	default:
		return string(p)
	}
}

// IsBreak reports whether p is one of the break phases.
func (p Phase) IsBreak() bool {
	return p == PhaseShortBreak || p == PhaseLongBreak
}

// RunState is the engine's run mode within the current phase.
type RunState string

const (
	StateIdle     RunState = "idle"
	StateRunning  RunState = "running"
	StatePaused   RunState = "paused"
	StateFinished RunState = "finished"
)

// Durations holds the fixed length of every phase and the long-break cadence.
type Durations struct {
	Work           time.Duration
	ShortBreak     time.Duration
	LongBreak      time.Duration
	LongBreakEvery int // completed work phases per long break
}

// DefaultDurations returns the classic 25/5/15 schedule with a long break
// after every fourth work phase.
func DefaultDurations() Durations {
	return Durations{
		Work:           25 * time.Minute,
		ShortBreak:     5 * time.Minute,
		LongBreak:      15 * time.Minute,
		LongBreakEvery: 4,
	}
}

// normalized replaces non-positive or sub-second values with defaults.
func (d Durations) normalized() Durations {
	def := DefaultDurations()
	if d.Work < time.Second {
		d.Work = def.Work
	}
	if d.ShortBreak < time.Second {
		d.ShortBreak = def.ShortBreak
	}
	if d.LongBreak < time.Second {
		d.LongBreak = def.LongBreak
	}
	if d.LongBreakEvery <= 0 {
		d.LongBreakEvery = def.LongBreakEvery
	}
	return d
}

// Seconds returns the whole-second length of phase p.
func (d Durations) Seconds(p Phase) int {
	switch p {
	case PhaseShortBreak:
		return int(d.ShortBreak / time.Second)
	case PhaseLongBreak:
		return int(d.LongBreak / time.Second)
	default:
		return int(d.Work / time.Second)
	}
}

// Snapshot is a point-in-time readout of the engine.
type Snapshot struct {
	Phase            Phase
	RunState         RunState
	SecondsRemaining int
	CyclesCompleted  int
	PhaseSeconds     int // full length of the current phase
}

// Remaining returns SecondsRemaining as a duration.
func (s Snapshot) Remaining() time.Duration {
	return time.Duration(s.SecondsRemaining) * time.Second
}

// Progress returns the elapsed fraction of the current phase in [0, 1].
func (s Snapshot) Progress() float64 {
	if s.PhaseSeconds <= 0 {
		return 0
	}
	p := float64(s.PhaseSeconds-s.SecondsRemaining) / float64(s.PhaseSeconds)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Clock formats the remaining time as MM:SS.
func (s Snapshot) Clock() string {
	return fmt.Sprintf("%02d:%02d", s.SecondsRemaining/60, s.SecondsRemaining%60)
}
