package usecase

import (
	"context"
	"fmt"

	"petnotes/model"
	"petnotes/repository"
)

// GatherStats assembles a point-in-time summary of the whole graph.
func GatherStats(ctx context.Context, stores repository.Stores) (*model.GraphStats, error) {
	stats := &model.GraphStats{}

	var err error
	if stats.EntityCounts.Users, err = stores.Users.CountUsers(ctx); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if stats.EntityCounts.Folders, err = stores.Folders.CountFolders(ctx); err != nil {
		return nil, fmt.Errorf("failed to count folders: %w", err)
	}
	if stats.EntityCounts.Notes, err = stores.Notes.CountNotes(ctx); err != nil {
		return nil, fmt.Errorf("failed to count notes: %w", err)
	}
	if stats.EntityCounts.Tasks, err = stores.Tasks.CountTasks(ctx); err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}
	if stats.EntityCounts.Pets, err = stores.Pets.CountPets(ctx); err != nil {
		return nil, fmt.Errorf("failed to count pets: %w", err)
	}

	if stats.TaskStats.Pending, err = stores.Tasks.CountTasksByStatus(ctx, model.TaskStatusPending); err != nil {
		return nil, fmt.Errorf("failed to count pending tasks: %w", err)
	}
	if stats.TaskStats.Completed, err = stores.Tasks.CountTasksByStatus(ctx, model.TaskStatusCompleted); err != nil {
		return nil, fmt.Errorf("failed to count completed tasks: %w", err)
	}
	if stats.TaskStats.Overdue, err = stores.Tasks.CountTasksByStatus(ctx, model.TaskStatusOverdue); err != nil {
		return nil, fmt.Errorf("failed to count overdue tasks: %w", err)
	}

	levelCounts, err := stores.Pets.LevelCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count pet levels: %w", err)
	}
	stats.PetStats.LevelCounts = levelCounts
	for level := range levelCounts {
		if level > stats.PetStats.MaxLevel {
			stats.PetStats.MaxLevel = level
		}
	}

	return stats, nil
}
