package focus

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/pawfocus/pawfocus/internal/progression"
	"github.com/pawfocus/pawfocus/internal/router"
	"github.com/pawfocus/pawfocus/internal/screen"
	"github.com/pawfocus/pawfocus/internal/store"
	"github.com/pawfocus/pawfocus/internal/timer"
)

func testDurations() timer.Durations {
	return timer.Durations{
		Work:           3 * time.Second,
		ShortBreak:     time.Second,
		LongBreak:      2 * time.Second,
		LongBreakEvery: 2,
	}
}

func newTestScreen(t *testing.T) (*FocusScreen, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	svc := progression.NewService(progression.NewEngine(progression.DefaultRules()), mem.ProfileRepo(), mem.EventRepo(), nil)
	return New(testDurations(), svc, "tester"), mem
}

func press(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// drain runs cmd and feeds every resulting message back into f, following
// batches, until nothing is left. Ticks are delivered without waiting.
func drain(t *testing.T, f *FocusScreen, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 1000 {
			t.Fatal("command loop did not settle")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case toastDoneMsg:
			// keep the banner for assertions
		default:
			_, next := f.Update(msg)
			queue = append(queue, next)
		}
	}
}

func TestStart_TicksThroughWorkPhase(t *testing.T) {
	f, mem := newTestScreen(t)

	_, cmd := f.Update(press('s'))
	if got := f.Engine().Snapshot().RunState; got != timer.StateRunning {
		t.Fatalf("RunState = %s, want running", got)
	}
	drain(t, f, cmd)

	snap := f.Engine().Snapshot()
	if snap.Phase != timer.PhaseShortBreak || snap.RunState != timer.StateIdle {
		t.Fatalf("after work: phase=%s state=%s", snap.Phase, snap.RunState)
	}
	if f.profile.Points != progression.DefaultPointsPerWorkPhase {
		t.Errorf("Points = %d, want %d", f.profile.Points, progression.DefaultPointsPerWorkPhase)
	}

	sessions, err := mem.EventRepo().QueryFocusSessions(context.Background(), "tester", store.QueryOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 || sessions[0].Phase != "work" || sessions[0].Skipped {
		t.Errorf("sessions = %+v", sessions)
	}
}

func TestPause_DropsInFlightTick(t *testing.T) {
	f, _ := newTestScreen(t)

	_, tick := f.Update(press('s'))
	f.Update(press('p'))

	msg := tick()
	f.Update(msg)
	if got := f.Engine().Snapshot().SecondsRemaining; got != 3 {
		t.Errorf("stale tick decremented the clock: %d", got)
	}

	_, cmd := f.Update(press('s'))
	if f.Engine().Snapshot().RunState != timer.StateRunning {
		t.Fatal("s should resume a paused timer")
	}
	f.Update(cmd())
	if got := f.Engine().Snapshot().SecondsRemaining; got != 2 {
		t.Errorf("SecondsRemaining = %d, want 2", got)
	}
}

func TestReset(t *testing.T) {
	f, _ := newTestScreen(t)
	_, cmd := f.Update(press('s'))
	f.Update(cmd())
	f.Update(press('r'))

	snap := f.Engine().Snapshot()
	if snap.RunState != timer.StateIdle || snap.SecondsRemaining != 3 || snap.Phase != timer.PhaseWork {
		t.Errorf("after reset: %+v", snap)
	}
}

func TestNextPhase_SkipEarnsNothing(t *testing.T) {
	f, mem := newTestScreen(t)

	_, cmd := f.Update(press('n'))
	drain(t, f, cmd)

	if f.Engine().Snapshot().Phase != timer.PhaseShortBreak {
		t.Errorf("Phase = %s, want short_break", f.Engine().Snapshot().Phase)
	}
	if f.profile.Points != 0 {
		t.Errorf("skipped work awarded %d points", f.profile.Points)
	}
	sessions, _ := mem.EventRepo().QueryFocusSessions(context.Background(), "tester", store.QueryOpts{})
	if len(sessions) != 1 || !sessions[0].Skipped {
		t.Errorf("sessions = %+v", sessions)
	}
}

func TestLevelUpShowsBanner(t *testing.T) {
	f, _ := newTestScreen(t)
	f.Update(screen.ProfileMsg{Profile: progression.Profile{Level: 1, Points: 75, Owned: progression.AccessorySet{}, LastRewardedLevel: 1}})

	f.Update(recordedMsg{Result: progression.Result{
		Before:  progression.Profile{Level: 1, Points: 75},
		After:   progression.Profile{Level: 2, Points: 100, Coins: 4, Owned: progression.NewAccessorySet("hat"), LastRewardedLevel: 2},
		Summary: progression.Summary{RewardedLevels: []int{2}, CoinsGranted: 4, AccessoryIDsGranted: []string{"hat"}},
	}})

	out := f.View(80, 30)
	if !strings.Contains(out, "Level 2 reached!") {
		t.Errorf("view missing level-up banner:\n%s", out)
	}

	f.Update(toastDoneMsg{gen: f.toastGen - 1})
	if f.last.IsEmpty() {
		t.Error("stale toast timeout cleared the banner")
	}
	f.Update(toastDoneMsg{gen: f.toastGen})
	if !f.last.IsEmpty() {
		t.Error("banner not cleared")
	}
}

func TestClose_PausesRunningTimer(t *testing.T) {
	f, _ := newTestScreen(t)
	_, cmd := f.Update(press('s'))
	f.Close()

	if f.Engine().Snapshot().RunState != timer.StatePaused {
		t.Errorf("RunState = %s, want paused", f.Engine().Snapshot().RunState)
	}
	f.Update(cmd())
	if got := f.Engine().Snapshot().SecondsRemaining; got != 3 {
		t.Errorf("tick after close changed the clock: %d", got)
	}
}

func TestView_ShowsClockAndPhase(t *testing.T) {
	f, _ := newTestScreen(t)
	out := f.View(80, 30)
	for _, want := range []string{"Focus", "00:03", "ready"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
}

func TestBack_WithoutProgressPops(t *testing.T) {
	f, _ := newTestScreen(t)
	if _, ok := f.Back()().(router.PopScreenMsg); !ok {
		t.Error("Back with nothing done should pop")
	}
}

func TestBack_ShowsSummary(t *testing.T) {
	f, _ := newTestScreen(t)
	_, cmd := f.Update(press('s'))
	drain(t, f, cmd)

	msg, ok := f.Back()().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatal("Back after a finished phase should replace with the summary")
	}
	out := msg.Screen.View(80, 24)
	if !strings.Contains(out, "Focus phases: 1") || !strings.Contains(out, "Points: +25") {
		t.Errorf("summary view:\n%s", out)
	}
}

func TestRecorded_HistoryErrorKeepsAward(t *testing.T) {
	f, _ := newTestScreen(t)
	c := timer.Completion{Phase: timer.PhaseWork, Next: timer.PhaseShortBreak, CyclesCompleted: 1, Seconds: 3}
	res := progression.Result{
		Before: progression.NewProfile(),
		After:  progression.Profile{Level: 1, Points: 25, LastRewardedLevel: 1},
	}

	_, cmd := f.Update(recordedMsg{Completion: c, Result: res, Err: errors.New("history unavailable")})
	if cmd == nil {
		t.Fatal("a kept award should still refresh the header")
	}
	if f.profile.Points != 25 {
		t.Errorf("Points = %d, want 25", f.profile.Points)
	}
	if f.report.PointsEarned != 25 {
		t.Errorf("PointsEarned = %d, want 25", f.report.PointsEarned)
	}
	if !strings.Contains(f.errMsg, "history unavailable") {
		t.Errorf("errMsg = %q", f.errMsg)
	}
}

func TestRecorded_FailedAwardChangesNothing(t *testing.T) {
	f, _ := newTestScreen(t)
	c := timer.Completion{Phase: timer.PhaseWork, Next: timer.PhaseShortBreak, CyclesCompleted: 1, Seconds: 3}

	_, cmd := f.Update(recordedMsg{Completion: c, Err: errors.New("disk full")})
	if cmd != nil {
		t.Error("a failed award should not emit a profile update")
	}
	if f.report.WorkPhases != 0 {
		t.Errorf("WorkPhases = %d, want 0", f.report.WorkPhases)
	}
	if f.errMsg == "" {
		t.Error("error not shown")
	}
}
