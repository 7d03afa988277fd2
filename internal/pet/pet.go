package pet

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/pawfocus/pawfocus/internal/progression"
	"github.com/pawfocus/pawfocus/internal/timer"
	"github.com/pawfocus/pawfocus/internal/ui/theme"
)

// Mood is how the pet reacts to what the learner is doing.
type Mood string

const (
	MoodIdle        Mood = "idle"
	MoodFocused     Mood = "focused"
	MoodResting     Mood = "resting"
	MoodCelebrating Mood = "celebrating"
	MoodSleepy      Mood = "sleepy"
)

// MoodFor picks the mood for the current timer state. A fresh level-up
// summary wins over everything else.
func MoodFor(snap timer.Snapshot, last progression.Summary) Mood {
	if !last.IsEmpty() {
		return MoodCelebrating
	}
	switch snap.RunState {
	case timer.StatePaused:
		return MoodSleepy
	case timer.StateRunning:
		if snap.Phase.IsBreak() {
			return MoodResting
		}
		return MoodFocused
	}
	if snap.Phase.IsBreak() {
		return MoodResting
	}
	return MoodIdle
}

// Accessory slots, each listed highest priority first. The pet wears at
// most one item per slot.
var (
	headwear = []string{"crown", "headphones", "hat"}
	eyewear  = []string{"sunglasses"}
	neckwear = []string{"bowtie", "scarf", "cape"}
)

var headArt = map[string]string{
	"crown":      "  ♛♛♛",
	"headphones": " ╭───╮",
	"hat":        "  ▄█▄",
}

var neckArt = map[string]string{
	"bowtie": "  ▶◆◀",
	"scarf":  " ≈≈≈≈≈",
	"cape":   " /|||\\",
}

var eyes = map[Mood]string{
	MoodIdle:        "o.o",
	MoodFocused:     "•.•",
	MoodResting:     "-.-",
	MoodSleepy:      "u.u",
	MoodCelebrating: "^.^",
}

// Wearing returns the accessories the pet shows from owned, top to bottom.
func Wearing(owned progression.AccessorySet) []string {
	var out []string
	for _, slot := range [][]string{headwear, eyewear, neckwear} {
		if id := firstOwned(owned, slot); id != "" {
			out = append(out, id)
		}
	}
	return out
}

// Art returns the uncoloured pet for mood wearing items from owned.
func Art(mood Mood, owned progression.AccessorySet) string {
	e, ok := eyes[mood]
	if !ok {
		e = eyes[MoodIdle]
	}
	if owned.Has("sunglasses") && mood != MoodSleepy {
		e = "■-■"
	}

	var lines []string
	if id := firstOwned(owned, headwear); id != "" {
		lines = append(lines, headArt[id])
	}
	face := "( " + e + " )"
	if mood == MoodSleepy {
		face += " z"
	}
	if mood == MoodCelebrating {
		face += " ★"
	}
	lines = append(lines, " /\\_/\\", face, " > ^ <")
	if id := firstOwned(owned, neckwear); id != "" {
		lines = append(lines, neckArt[id])
	}
	return strings.Join(lines, "\n")
}

// Render returns the pet art coloured for mood.
func Render(mood Mood, owned progression.AccessorySet) string {
	fg := theme.Primary
	switch mood {
	case MoodFocused:
		fg = theme.Focus
	case MoodResting:
		fg = theme.Rest
	case MoodSleepy:
		fg = theme.TextDim
	case MoodCelebrating:
		fg = theme.Gold
	}
	return lipgloss.NewStyle().Foreground(fg).Render(Art(mood, owned))
}

func firstOwned(owned progression.AccessorySet, slot []string) string {
	for _, id := range slot {
		if owned.Has(id) {
			return id
		}
	}
	return ""
}
