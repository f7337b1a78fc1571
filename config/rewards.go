package config

import (
	"petnotes/model"
	"petnotes/utils"
)

// RewardConfig controls how many experience points each task category is
// worth and which lifecycle transitions move points back out of a pet.
//
// The deduction knobs default to off: completed work keeps its reward even
// when the task is later deleted, reopened, or recategorized.
type RewardConfig struct {
	Points             map[model.TaskCategory]int
	DeductOnDelete     bool
	DeductOnUncomplete bool
	AdjustOnRecategory bool
}

func LoadRewardConfig() RewardConfig {
	return RewardConfig{
		Points: map[model.TaskCategory]int{
			model.CategoryEasy:   utils.GetEnvAsInt("REWARD_POINTS_EASY", 250),
			model.CategoryMedium: utils.GetEnvAsInt("REWARD_POINTS_MEDIUM", 500),
			model.CategoryHard:   utils.GetEnvAsInt("REWARD_POINTS_HARD", 1000),
		},
		DeductOnDelete:     utils.GetEnvAsBool("REWARD_DEDUCT_ON_DELETE", false),
		DeductOnUncomplete: utils.GetEnvAsBool("REWARD_DEDUCT_ON_UNCOMPLETE", false),
		AdjustOnRecategory: utils.GetEnvAsBool("REWARD_ADJUST_ON_RECATEGORY", false),
	}
}

// PointsFor returns the configured reward for a category. The second return
// is false for categories missing from the table.
func (c RewardConfig) PointsFor(category model.TaskCategory) (int, bool) {
	points, ok := c.Points[category]
	return points, ok
}
