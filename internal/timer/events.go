package timer

import "time"

// EventType defines the type of engine event.
type EventType string

const (
	EventStateChange    EventType = "state_change"
	EventTick           EventType = "tick"
	EventPhaseCompleted EventType = "phase_completed"
)

// Completion describes a phase that just ended.
type Completion struct {
	Phase           Phase // the phase that ended
	Next            Phase // the phase now loaded (idle)
	Skipped         bool  // ended through NextPhase rather than counting down
	CyclesCompleted int
	Seconds         int // full length of the ended phase
}

// Event is an engine update for observers.
type Event struct {
	Type      EventType
	Snapshot  Snapshot
	Completed *Completion // set for EventPhaseCompleted only
	At        time.Time
}
