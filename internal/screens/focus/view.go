package focus

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/pawfocus/pawfocus/internal/pet"
	"github.com/pawfocus/pawfocus/internal/timer"
	"github.com/pawfocus/pawfocus/internal/ui/components"
	"github.com/pawfocus/pawfocus/internal/ui/theme"
)

func (f *FocusScreen) View(width, height int) string {
	snap := f.engine.Snapshot()
	center := func(s string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
	}

	var b strings.Builder
	b.WriteString("\n")

	phase := theme.PhaseTint(snap.Phase.IsBreak()).Bold(true).Render(snap.Phase.DisplayName())
	b.WriteString(center(phase + "  " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(stateLabel(snap.RunState))))
	b.WriteString("\n\n")

	b.WriteString(center(theme.Clock.Render(snap.Clock())))
	b.WriteString("\n")

	bar := components.NewProgressBar(snap.Progress(), min(width-8, 50)).WithPercent()
	if snap.Phase.IsBreak() {
		bar = bar.WithFill(theme.Rest)
	}
	b.WriteString(center(bar.View()))
	b.WriteString("\n")

	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim).Render(
		fmt.Sprintf("Cycles completed: %d   Points: %d", snap.CyclesCompleted, f.profile.Points))))
	b.WriteString("\n\n")

	mood := pet.MoodFor(snap, f.last)
	b.WriteString(center(pet.Render(mood, f.profile.Owned)))
	b.WriteString("\n\n")

	switch {
	case f.errMsg != "":
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Error).Render("Error: " + f.errMsg)))
	case !f.last.IsEmpty():
		b.WriteString(center(theme.Reward.Render("★ " + f.last.String())))
	case f.lastDone != nil:
		b.WriteString(center(theme.Hint.Render(completionLine(*f.lastDone))))
	}
	b.WriteString("\n")

	b.WriteString(center(f.help.View(keys)))
	return b.String()
}

func stateLabel(s timer.RunState) string {
	switch s {
	case timer.StateRunning:
		return "running"
	case timer.StatePaused:
		return "paused"
	case timer.StateFinished:
		return "finished"
	default:
		return "ready"
	}
}

func completionLine(c timer.Completion) string {
	verb := "finished"
	if c.Skipped {
		verb = "skipped"
	}
	return fmt.Sprintf("%s %s, up next: %s", c.Phase.DisplayName(), verb, c.Next.DisplayName())
}
