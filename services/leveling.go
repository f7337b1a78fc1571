package services

import "math"

// Experience curve constants. The requirement to clear level n is
// BaseExperience * n^LevelExponent, so early levels come quickly and the
// curve steepens from there.
const (
	BaseExperience = 100.0
	LevelExponent  = 1.5
)

// RequiredExperience returns the points needed to advance past the given
// level. Levels below one are treated as level one.
func RequiredExperience(level int) float64 {
	if level < 1 {
		level = 1
	}
	return BaseExperience * math.Pow(float64(level), LevelExponent)
}

// ApplyPoints folds a point delta into a level and in-level balance and
// returns the settled pair. Positive deltas can clear several levels in
// one call, negative deltas walk levels back down. The floor is level one
// with zero points, a deduction can never go below it.
func ApplyPoints(level int, points int, delta int) (int, int) {
	if level < 1 {
		level = 1
	}
	total := points + delta

	for float64(total) >= RequiredExperience(level) {
		total -= int(RequiredExperience(level))
		level++
	}

	for total < 0 {
		if level == 1 {
			total = 0
			break
		}
		level--
		total += int(RequiredExperience(level))
	}

	return level, total
}
