package progression

import "sort"

// DefaultCoinMultiplier is the coins granted per level number.
const DefaultCoinMultiplier = 2

// DefaultPointsPerWorkPhase is the points earned for one completed focus phase.
const DefaultPointsPerWorkPhase = 25

// RewardEntry is one row of the level reward table.
type RewardEntry struct {
	Accessories       []string `yaml:"accessories,omitempty" json:"accessories,omitempty"`
	ExtraPoints       int      `yaml:"extra_points,omitempty" json:"extra_points,omitempty"`
	ExtraStudyTimeMin int      `yaml:"extra_study_time_min,omitempty" json:"extra_study_time_min,omitempty"`
}

// RewardTable maps a level to the one-off items owed for reaching it.
// Levels missing from the table still pay coins.
type RewardTable map[int]RewardEntry

// Levels returns the table's levels in ascending order.
func (t RewardTable) Levels() []int {
	levels := make([]int, 0, len(t))
	for l := range t {
		levels = append(levels, l)
	}
	sort.Ints(levels)
	return levels
}

// DefaultRewardTable is the built-in accessory schedule. Items may repeat at
// later levels; they are only ever granted once.
func DefaultRewardTable() RewardTable {
	return RewardTable{
		2:  {Accessories: []string{"hat"}},
		3:  {Accessories: []string{"scarf"}},
		5:  {Accessories: []string{"sunglasses", "bowtie"}, ExtraStudyTimeMin: 5},
		7:  {Accessories: []string{"cape"}},
		8:  {Accessories: []string{"hat", "headphones"}},
		10: {Accessories: []string{"crown"}, ExtraPoints: 50},
	}
}

// Rules are the tunable game-balance constants.
type Rules struct {
	CoinMultiplier     int
	PointsPerLevel     int
	PointsPerWorkPhase int
	Table              RewardTable
}

// DefaultRules returns the built-in balance.
func DefaultRules() Rules {
	return Rules{
		CoinMultiplier:     DefaultCoinMultiplier,
		PointsPerLevel:     DefaultPointsPerLevel,
		PointsPerWorkPhase: DefaultPointsPerWorkPhase,
		Table:              DefaultRewardTable(),
	}
}

// LevelReward is everything owed for reaching exactly Level.
type LevelReward struct {
	Level             int
	Coins             int
	AccessoryIDs      []string
	ExtraPoints       int
	ExtraStudyTimeMin int
}

// IsEmpty reports whether the reward carries nothing.
func (r LevelReward) IsEmpty() bool {
	return r.Coins == 0 && len(r.AccessoryIDs) == 0 && r.ExtraPoints == 0 && r.ExtraStudyTimeMin == 0
}
