package progression

import "math"

// DefaultPointsPerLevel is K in level = floor(sqrt(points / K)).
const DefaultPointsPerLevel = 20

// levelForPoints maps accumulated points to a level. Levels grow with the
// square root of points, so each level costs more than the last. The result
// is never below 1.
func levelForPoints(points, perLevel int) int {
	if points <= 0 {
		return 1
	}
	if perLevel <= 0 {
		perLevel = DefaultPointsPerLevel
	}
	level := isqrt(points / perLevel)
	if level < 1 {
		return 1
	}
	return level
}

// pointsForLevel is the minimum point total that reaches level.
func pointsForLevel(level, perLevel int) int {
	if level <= 1 {
		return 0
	}
	if perLevel <= 0 {
		perLevel = DefaultPointsPerLevel
	}
	return level * level * perLevel
}

// isqrt returns floor(sqrt(n)) for n >= 0, correcting float rounding.
func isqrt(n int) int {
	if n <= 0 {
		return 0
	}
	r := int(math.Sqrt(float64(n)))
	for r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}
