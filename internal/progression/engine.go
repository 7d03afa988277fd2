package progression

// Engine computes levels and level-up rewards. It holds only its rules and
// is safe for concurrent use; every method is a pure function of its inputs.
type Engine struct {
	rules Rules
}

// NewEngine creates an Engine. Non-positive constants fall back to defaults;
// a nil table means no level carries accessories.
func NewEngine(rules Rules) *Engine {
	if rules.CoinMultiplier <= 0 {
		rules.CoinMultiplier = DefaultCoinMultiplier
	}
	if rules.PointsPerLevel <= 0 {
		rules.PointsPerLevel = DefaultPointsPerLevel
	}
	if rules.PointsPerWorkPhase < 0 {
		rules.PointsPerWorkPhase = 0
	}
	return &Engine{rules: rules}
}

// Rules returns the balance constants in use.
func (e *Engine) Rules() Rules {
	return e.rules
}

// LevelForPoints maps a point total to a level (always >= 1).
func (e *Engine) LevelForPoints(points int) int {
	return levelForPoints(points, e.rules.PointsPerLevel)
}

// PointsForLevel returns the minimum point total that reaches level.
func (e *Engine) PointsForLevel(level int) int {
	return pointsForLevel(level, e.rules.PointsPerLevel)
}

// RewardForLevel returns the reward owed for reaching exactly level. Levels
// below 1 owe nothing.
func (e *Engine) RewardForLevel(level int) LevelReward {
	if level < 1 {
		return LevelReward{Level: level}
	}
	r := LevelReward{
		Level: level,
		Coins: level * e.rules.CoinMultiplier,
	}
	if entry, ok := e.rules.Table[level]; ok {
		r.AccessoryIDs = append([]string(nil), entry.Accessories...)
		r.ExtraPoints = entry.ExtraPoints
		r.ExtraStudyTimeMin = entry.ExtraStudyTimeMin
	}
	return r
}

// ApplyLevelUpRewards grants every reward owed between old.LastRewardedLevel
// and next.Level. It is idempotent: once a level has been rewarded, calling
// again with the same or a lower level returns next unchanged with an empty
// summary.
//
// Accessories are granted at most once. Items already owned, or granted by an
// earlier level in the same call, are skipped without affecting coins.
func (e *Engine) ApplyLevelUpRewards(old, next Profile) (Profile, Summary) {
	from := old.LastRewardedLevel
	if from < 0 {
		from = 0
	}
	to := next.Level
	if to <= from {
		return next, Summary{}
	}

	owned := next.Owned.Clone()
	var sum Summary
	for level := from + 1; level <= to; level++ {
		reward := e.RewardForLevel(level)
		sum.RewardedLevels = append(sum.RewardedLevels, level)
		sum.CoinsGranted += reward.Coins
		sum.ExtraPointsGranted += reward.ExtraPoints
		sum.ExtraStudyTimeMinGranted += reward.ExtraStudyTimeMin

		for _, id := range reward.AccessoryIDs {
			if owned.Has(id) {
				continue
			}
			owned[id] = struct{}{}
			sum.AccessoryIDsGranted = append(sum.AccessoryIDsGranted, id)
		}
	}

	updated := next
	updated.Coins = next.Coins + sum.CoinsGranted
	updated.Owned = owned
	updated.LastRewardedLevel = to
	return updated, sum
}

// NextLevelProgress reports how far points are through the current level:
// points earned within the level and points the level spans.
func (e *Engine) NextLevelProgress(points int) (earned, span int) {
	level := e.LevelForPoints(points)
	floor := e.PointsForLevel(level)
	ceil := e.PointsForLevel(level + 1)
	if points < floor {
		points = floor
	}
	return points - floor, ceil - floor
}
