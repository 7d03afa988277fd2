package timer

import (
	"context"
	"sync"
	"time"
)

// Engine is the focus timer state machine. It cycles through work and break
// phases, counting down once per Tick while running.
//
// Tick is the only input that moves time forward. Callers either feed it from
// their own tick source (the TUI uses tea.Tick) or let Run drive it from a
// ticker. Pause and Reset are observed before every decrement, so a tick that
// arrives after either call never changes the countdown.
type Engine struct {
	mu        sync.Mutex
	durations Durations
	snap      Snapshot
	events    []chan Event
	kick      chan struct{}
}

// New creates an Engine in the initial work/idle state.
func New(durations Durations) *Engine {
	e := &Engine{
		durations: durations.normalized(),
		kick:      make(chan struct{}, 1),
	}
	e.snap = e.initialSnapshot()
	return e
}

// Durations returns the phase lengths in use.
func (e *Engine) Durations() Durations {
	return e.durations
}

// Snapshot returns the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snap
}

// Subscribe registers a new observer channel. Sends never block: an observer
// that falls behind misses events rather than stalling the engine.
func (e *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	e.mu.Lock()
	e.events = append(e.events, ch)
	e.mu.Unlock()
	return ch
}

// Start begins counting down the current phase. No-op while running.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.startLocked()
}

// Pause freezes the countdown. It applies from any state.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.snap.RunState == StatePaused {
		return
	}
	e.snap.RunState = StatePaused
	e.emitLocked(EventStateChange, nil)
}

// Resume continues a paused countdown. Ignored unless paused.
func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.snap.RunState != StatePaused {
		return
	}
	e.startLocked()
}

// Reset returns to the first work phase with no completed cycles.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.snap = e.initialSnapshot()
	e.emitLocked(EventStateChange, nil)
}

// NextPhase ends the current phase immediately, exactly as if its countdown
// had reached zero. The next phase is loaded idle.
func (e *Engine) NextPhase() Completion {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.completeLocked(true)
}

// Tick advances a running countdown by one second. When the tick finishes the
// phase it returns the completion record and true.
func (e *Engine) Tick() (Completion, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.snap.RunState != StateRunning {
		return Completion{}, false
	}
	if e.snap.SecondsRemaining > 0 {
		e.snap.SecondsRemaining--
	}
	if e.snap.SecondsRemaining > 0 {
		e.emitLocked(EventTick, nil)
		return Completion{}, false
	}
	return e.completeLocked(false), true
}

// Run drives Tick from a ticker until ctx is cancelled, then closes all
// subscriber channels. Start realigns the ticker so the first decrement comes
// a full interval after the call.
func (e *Engine) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	defer e.closeSubscribers()

	for {
		select {
		case <-ctx.Done():
			return
		case <-e.kick:
			ticker.Reset(interval)
		case <-ticker.C:
			e.Tick()
		}
	}
}

func (e *Engine) startLocked() {
	if e.snap.RunState == StateRunning {
		return
	}
	e.snap.RunState = StateRunning
	select {
	case e.kick <- struct{}{}:
	default:
	}
	e.emitLocked(EventStateChange, nil)
}

func (e *Engine) completeLocked(skipped bool) Completion {
	finished := e.snap.Phase
	finishedSeconds := e.snap.PhaseSeconds

	e.snap.RunState = StateFinished
	e.emitLocked(EventStateChange, nil)

	next := PhaseWork
	if finished == PhaseWork {
		e.snap.CyclesCompleted++
		if e.snap.CyclesCompleted%e.durations.LongBreakEvery == 0 {
			next = PhaseLongBreak
		} else {
			next = PhaseShortBreak
		}
	}

	e.loadPhaseLocked(next)

	c := Completion{
		Phase:           finished,
		Next:            next,
		Skipped:         skipped,
		CyclesCompleted: e.snap.CyclesCompleted,
		Seconds:         finishedSeconds,
	}
	e.emitLocked(EventPhaseCompleted, &c)
	return c
}

func (e *Engine) loadPhaseLocked(p Phase) {
	e.snap.Phase = p
	e.snap.RunState = StateIdle
	e.snap.PhaseSeconds = e.durations.Seconds(p)
	e.snap.SecondsRemaining = e.snap.PhaseSeconds
}

func (e *Engine) initialSnapshot() Snapshot {
	secs := e.durations.Seconds(PhaseWork)
	return Snapshot{
		Phase:            PhaseWork,
		RunState:         StateIdle,
		SecondsRemaining: secs,
		PhaseSeconds:     secs,
	}
}

func (e *Engine) emitLocked(t EventType, c *Completion) {
	ev := Event{Type: t, Snapshot: e.snap, Completed: c, At: time.Now()}
	for _, ch := range e.events {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (e *Engine) closeSubscribers() {
	e.mu.Lock()
	events := e.events
	e.events = nil
	e.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}
