package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"petnotes/model"
	"petnotes/repository"
	"petnotes/utils"
)

var ErrInvalidCategory = errors.New("unknown task category")

// Progress writes ride an optimistic version check, so a handful of
// retries absorbs concurrent completions against the same pet.
const maxProgressAttempts = 5

// DeriveAward looks up the configured reward for a category.
func DeriveAward(category model.TaskCategory, table map[model.TaskCategory]int) (int, error) {
	award, ok := table[category]
	if !ok {
		utils.TrackError("reward", "invalid_category")
		return 0, ErrInvalidCategory
	}
	return award, nil
}

// DispatchReward converts a category into its configured award and folds it
// into the pet. The input is never mutated, the settled copy comes back for
// the caller to persist. Unknown categories fail with ErrInvalidCategory.
func DispatchReward(pet *model.Pet, table map[model.TaskCategory]int, category model.TaskCategory) (*model.Pet, error) {
	award, err := DeriveAward(category, table)
	if err != nil {
		return nil, err
	}
	return DispatchDelta(pet, award), nil
}

// DispatchDelta folds a raw point delta into the pet and returns the settled
// copy. Negative deltas walk the pet back down the curve, bottoming out at
// level one with zero points.
func DispatchDelta(pet *model.Pet, delta int) *model.Pet {
	updated := *pet
	updated.Level, updated.Points = ApplyPoints(pet.Level, pet.Points, delta)
	return &updated
}

// RewardDispatcher moves experience points in and out of pets. All writes
// go through the pet store's version check and are retried on conflict, so
// two tasks completed at once both land.
type RewardDispatcher struct {
	Pets  repository.PetStore
	Cache *PetCache
}

// Award credits a completed task's points to the owner's pet. Owners
// without a pet simply earn nothing, that is not an error.
func (d *RewardDispatcher) Award(ctx context.Context, userID string, category model.TaskCategory, points int) error {
	committed, before, after, err := d.apply(ctx, userID, points)
	if err != nil || !committed {
		return err
	}

	utils.TrackReward(string(category))
	trackLevelShift(before, after)
	return nil
}

// Adjust folds a raw point delta into the owner's pet, used for deductions
// when completed work is deleted or reopened and for recategorization
// adjustments.
func (d *RewardDispatcher) Adjust(ctx context.Context, userID string, delta int) error {
	committed, before, after, err := d.apply(ctx, userID, delta)
	if err != nil || !committed {
		return err
	}

	trackLevelShift(before, after)
	return nil
}

func (d *RewardDispatcher) apply(ctx context.Context, userID string, delta int) (bool, int, int, error) {
	for attempt := 0; attempt < maxProgressAttempts; attempt++ {
		pet, err := d.Pets.FindPetByUser(ctx, userID)
		if errors.Is(err, repository.ErrNotFound) {
			log.Printf("user %s has no pet, dropping %+d points", userID, delta)
			return false, 0, 0, nil
		}
		if err != nil {
			return false, 0, 0, err
		}

		updated := DispatchDelta(pet, delta)

		err = d.Pets.UpdateProgress(ctx, pet.PetID, updated.Level, updated.Points, pet.Version)
		if errors.Is(err, repository.ErrConflict) {
			continue
		}
		if err != nil {
			return false, 0, 0, err
		}

		d.invalidate(pet.PetID)
		return true, pet.Level, updated.Level, nil
	}

	utils.TrackError("reward", "progress_retries_exhausted")
	return false, 0, 0, fmt.Errorf("pet progress update lost %d version races: %w", maxProgressAttempts, repository.ErrConflict)
}

func (d *RewardDispatcher) invalidate(petID string) {
	if d.Cache == nil {
		return
	}
	if err := d.Cache.InvalidatePet(petID); err != nil {
		log.Printf("failed to invalidate cached pet %s: %v", petID, err)
	}
}

func trackLevelShift(before, after int) {
	switch {
	case after > before:
		utils.TrackLevelChange("up", after-before)
	case after < before:
		utils.TrackLevelChange("down", before-after)
	}
}
