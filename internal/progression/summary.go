package progression

import (
	"fmt"
	"strconv"
	"strings"
)

// Summary reports what one reconciliation granted. It is built fresh per
// call and only ever shown to the user; persistence stores the profile.
type Summary struct {
	RewardedLevels           []int // ascending, unique
	CoinsGranted             int
	AccessoryIDsGranted      []string // only accessories that were not owned before
	ExtraPointsGranted       int
	ExtraStudyTimeMinGranted int
}

// IsEmpty reports whether nothing was granted and no level was rewarded.
func (s Summary) IsEmpty() bool {
	return len(s.RewardedLevels) == 0 &&
		s.CoinsGranted == 0 &&
		len(s.AccessoryIDsGranted) == 0 &&
		s.ExtraPointsGranted == 0 &&
		s.ExtraStudyTimeMinGranted == 0
}

// HighestLevel returns the top rewarded level, or 0 if none.
func (s Summary) HighestLevel() int {
	if len(s.RewardedLevels) == 0 {
		return 0
	}
	return s.RewardedLevels[len(s.RewardedLevels)-1]
}

// String renders a one-line notification, e.g.
// "Level 3 reached! +10 coins, new: hat, scarf".
func (s Summary) String() string {
	if s.IsEmpty() {
		return "No new rewards"
	}

	var b strings.Builder
	if n := len(s.RewardedLevels); n == 1 {
		fmt.Fprintf(&b, "Level %d reached!", s.RewardedLevels[0])
	} else if n > 1 {
		levels := make([]string, n)
		for i, l := range s.RewardedLevels {
			levels[i] = strconv.Itoa(l)
		}
		fmt.Fprintf(&b, "Levels %s reached!", strings.Join(levels, ", "))
	}

	parts := []string{fmt.Sprintf("+%d coins", s.CoinsGranted)}
	if len(s.AccessoryIDsGranted) > 0 {
		parts = append(parts, "new: "+strings.Join(s.AccessoryIDsGranted, ", "))
	}
	if s.ExtraPointsGranted > 0 {
		parts = append(parts, fmt.Sprintf("+%d bonus points", s.ExtraPointsGranted))
	}
	if s.ExtraStudyTimeMinGranted > 0 {
		parts = append(parts, fmt.Sprintf("+%d study min", s.ExtraStudyTimeMinGranted))
	}
	b.WriteString(" ")
	b.WriteString(strings.Join(parts, ", "))
	return b.String()
}
