package summary

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/pawfocus/pawfocus/internal/progression"
	"github.com/pawfocus/pawfocus/internal/router"
)

func testReport() Report {
	return Report{
		WorkPhases:   4,
		Skipped:      1,
		FocusMinutes: 100,
		PointsEarned: 100,
		Rewards: []progression.Summary{
			{RewardedLevels: []int{2}, CoinsGranted: 4, AccessoryIDsGranted: []string{"hat"}},
		},
		Profile: progression.Profile{Level: 2, Coins: 4, Points: 100},
	}
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New(testReport())
	if s.Title() != "Session Summary" {
		t.Errorf("Title = %q, want %q", s.Title(), "Session Summary")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	view := New(testReport()).View(80, 24)
	for _, want := range []string{"Focus phases: 4", "Points: +100", "1 phase(s) skipped", "Level 2 reached!", "level 2 with 4 coins"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestSummaryScreen_NoRewards(t *testing.T) {
	r := testReport()
	r.Rewards = nil
	if strings.Contains(New(r).View(80, 24), "Rewards") {
		t.Error("rewards section shown without rewards")
	}
}

func TestSummaryScreen_EnterPops(t *testing.T) {
	s := New(testReport())
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter (pop)")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("Enter should pop")
	}
}

func TestSummaryScreen_KeyHints(t *testing.T) {
	if n := len(New(testReport()).KeyHints()); n != 2 {
		t.Errorf("KeyHints length = %d, want 2", n)
	}
}
