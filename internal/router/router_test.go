package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/pawfocus/pawfocus/internal/screen"
)

// stubScreen is a minimal screen for testing.
type stubScreen struct {
	title   string
	inits   int
	closed  bool
	updates int
}

func (s *stubScreen) Init() tea.Cmd {
	s.inits++
	return nil
}
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) {
	s.updates++
	return s, nil
}
func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }
func (s *stubScreen) Close()               { s.closed = true }

func TestPush(t *testing.T) {
	s1 := &stubScreen{title: "home"}
	r := New(s1)

	s2 := &stubScreen{title: "focus"}
	r.Push(s2)

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "focus" {
		t.Errorf("expected active 'focus', got %q", r.Active().Title())
	}
	if s2.inits != 1 {
		t.Errorf("expected Init() once on pushed screen, got %d", s2.inits)
	}
}

func TestPop_ClosesAndRefreshes(t *testing.T) {
	s1 := &stubScreen{title: "home"}
	r := New(s1)
	s2 := &stubScreen{title: "focus"}
	r.Push(s2)

	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", r.Depth())
	}
	if !s2.closed {
		t.Error("popped screen should be closed")
	}
	if s1.inits != 1 {
		t.Errorf("uncovered screen should re-init, got %d inits", s1.inits)
	}
}

func TestPopNoopAtBottom(t *testing.T) {
	s1 := &stubScreen{title: "home"}
	r := New(s1)

	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after pop at bottom, got %d", r.Depth())
	}
	if s1.closed {
		t.Error("bottom screen must not be closed")
	}
}

func TestReplaceScreenMsg(t *testing.T) {
	s1 := &stubScreen{title: "home"}
	r := New(s1)
	s2 := &stubScreen{title: "focus"}
	r.Push(s2)

	s3 := &stubScreen{title: "profile"}
	r.Update(ReplaceScreenMsg{Screen: s3})

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "profile" {
		t.Errorf("expected active 'profile', got %q", r.Active().Title())
	}
	if !s2.closed || s3.inits != 1 {
		t.Errorf("replace should close old (%v) and init new (%d)", s2.closed, s3.inits)
	}
}

func TestUpdateForwardsToActiveOnly(t *testing.T) {
	s1 := &stubScreen{title: "home"}
	r := New(s1)
	s2 := &stubScreen{title: "focus"}
	r.Update(PushScreenMsg{Screen: s2})

	r.Update(struct{}{})

	if s1.updates != 0 || s2.updates != 1 {
		t.Errorf("updates home=%d focus=%d, want 0 and 1", s1.updates, s2.updates)
	}
	if got := r.View(10, 10); got != "focus" {
		t.Errorf("View = %q", got)
	}
}

func TestCloseAll(t *testing.T) {
	s1 := &stubScreen{title: "home"}
	s2 := &stubScreen{title: "focus"}
	r := New(s1)
	r.Push(s2)

	r.CloseAll()
	if !s1.closed || !s2.closed {
		t.Error("CloseAll should close every screen")
	}
}
