package pet

import (
	"strings"
	"testing"

	"github.com/pawfocus/pawfocus/internal/progression"
	"github.com/pawfocus/pawfocus/internal/timer"
)

func TestMoodFor(t *testing.T) {
	leveled := progression.Summary{RewardedLevels: []int{2}, CoinsGranted: 4}

	tests := []struct {
		name string
		snap timer.Snapshot
		last progression.Summary
		want Mood
	}{
		{"idle work", timer.Snapshot{Phase: timer.PhaseWork, RunState: timer.StateIdle}, progression.Summary{}, MoodIdle},
		{"running work", timer.Snapshot{Phase: timer.PhaseWork, RunState: timer.StateRunning}, progression.Summary{}, MoodFocused},
		{"running break", timer.Snapshot{Phase: timer.PhaseShortBreak, RunState: timer.StateRunning}, progression.Summary{}, MoodResting},
		{"idle long break", timer.Snapshot{Phase: timer.PhaseLongBreak, RunState: timer.StateIdle}, progression.Summary{}, MoodResting},
		{"paused", timer.Snapshot{Phase: timer.PhaseWork, RunState: timer.StatePaused}, progression.Summary{}, MoodSleepy},
		{"level up wins", timer.Snapshot{Phase: timer.PhaseWork, RunState: timer.StatePaused}, leveled, MoodCelebrating},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MoodFor(tt.snap, tt.last); got != tt.want {
				t.Errorf("MoodFor = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWearing_OnePerSlot(t *testing.T) {
	owned := progression.NewAccessorySet("hat", "crown", "scarf", "bowtie", "sunglasses")
	got := Wearing(owned)
	want := []string{"crown", "sunglasses", "bowtie"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Wearing = %v, want %v", got, want)
	}

	if got := Wearing(nil); len(got) != 0 {
		t.Errorf("Wearing(nil) = %v, want none", got)
	}
}

func TestArt(t *testing.T) {
	plain := Art(MoodIdle, nil)
	if !strings.Contains(plain, "( o.o )") {
		t.Errorf("idle art missing face:\n%s", plain)
	}
	if n := strings.Count(plain, "\n"); n != 2 {
		t.Errorf("bare pet should be 3 lines, got %d", n+1)
	}

	dressed := Art(MoodFocused, progression.NewAccessorySet("hat", "sunglasses", "scarf"))
	for _, want := range []string{"▄█▄", "■-■", "≈≈≈"} {
		if !strings.Contains(dressed, want) {
			t.Errorf("dressed art missing %q:\n%s", want, dressed)
		}
	}

	sleepy := Art(MoodSleepy, progression.NewAccessorySet("sunglasses"))
	if !strings.Contains(sleepy, "u.u") || !strings.Contains(sleepy, " z") {
		t.Errorf("sleepy pet should close its eyes:\n%s", sleepy)
	}
}

func TestRender_KeepsArt(t *testing.T) {
	out := Render(MoodCelebrating, progression.NewAccessorySet("crown"))
	if !strings.Contains(out, "♛") || !strings.Contains(out, "^.^") {
		t.Errorf("Render lost art:\n%s", out)
	}
}
