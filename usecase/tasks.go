package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"petnotes/config"
	"petnotes/dto"
	"petnotes/model"
	"petnotes/repository"
	"petnotes/services"
	"petnotes/utils"
)

var ErrAlreadyCompleted = errors.New("task is already completed")

type TaskService struct {
	Notes       repository.NoteStore
	Tasks       repository.TaskStore
	Rewards     config.RewardConfig
	Dispatcher  *services.RewardDispatcher
	Coordinator *Coordinator
}

func NewTaskService(stores repository.Stores, rewards config.RewardConfig, dispatcher *services.RewardDispatcher, coordinator *Coordinator) *TaskService {
	return &TaskService{
		Notes:       stores.Notes,
		Tasks:       stores.Tasks,
		Rewards:     rewards,
		Dispatcher:  dispatcher,
		Coordinator: coordinator,
	}
}

// CreateTask inserts a pending task under a note. Points come from the
// category table unless the request names an explicit value.
func (svc *TaskService) CreateTask(ctx context.Context, req *dto.CreateTaskRequest) (*model.Task, error) {
	if err := utils.Validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid task: %w", err)
	}

	note, err := svc.Notes.FindNote(ctx, req.NoteID)
	if err != nil {
		return nil, err
	}

	category := model.TaskCategory(req.Category)
	points, err := services.DeriveAward(category, svc.Rewards.Points)
	if err != nil {
		return nil, err
	}
	if req.Points != nil {
		points = *req.Points
	}

	task := &model.Task{
		TaskID:      utils.NewEntityID(),
		UserID:      note.UserID,
		NoteID:      note.NoteID,
		TaskName:    strings.TrimSpace(req.TaskName),
		Description: req.Description,
		Status:      model.TaskStatusPending,
		Category:    category,
		Points:      points,
	}
	if req.DueDate != nil {
		task.DueDate = *req.DueDate
	}

	if err := svc.Tasks.AddTask(ctx, task); err != nil {
		return nil, err
	}

	if err := svc.Notes.AttachTask(ctx, note.NoteID, task.TaskID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			if cleanupErr := svc.Tasks.DeleteTaskByID(ctx, task.TaskID); cleanupErr != nil {
				log.Printf("failed to clean up task %s after lost note: %v", task.TaskID, cleanupErr)
			}
		}
		return nil, err
	}

	return task, nil
}

func (svc *TaskService) GetTask(ctx context.Context, taskID string) (*model.Task, error) {
	return svc.Tasks.FindTask(ctx, taskID)
}

// ListTasks returns a note's tasks in creation order. The note must exist.
func (svc *TaskService) ListTasks(ctx context.Context, noteID string) ([]*model.Task, error) {
	if _, err := svc.Notes.FindNote(ctx, noteID); err != nil {
		return nil, err
	}
	return svc.Tasks.GetNoteTasks(ctx, noteID)
}

// UpdateTask applies the provided fields. Changing the category rederives
// the points from the table, so a point override is only honored while the
// category stays put. Status never moves through here.
func (svc *TaskService) UpdateTask(ctx context.Context, taskID string, req *dto.UpdateTaskRequest) (*model.Task, error) {
	if err := utils.Validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid task update: %w", err)
	}

	task, err := svc.Tasks.FindTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if req.TaskName != nil {
		name := strings.TrimSpace(*req.TaskName)
		if name == "" {
			return nil, errors.New("task name cannot be empty")
		}
		task.TaskName = name
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.DueDate != nil {
		task.DueDate = *req.DueDate
	}

	if req.Category != nil && model.TaskCategory(*req.Category) != task.Category {
		if req.Points != nil {
			return nil, errors.New("cannot override points while changing category")
		}

		newCategory := model.TaskCategory(*req.Category)
		newPoints, err := services.DeriveAward(newCategory, svc.Rewards.Points)
		if err != nil {
			return nil, err
		}

		// A completed task has already paid out. Reconciling the pet is a
		// policy decision, off by default.
		if task.Status == model.TaskStatusCompleted && svc.Rewards.AdjustOnRecategory {
			if err := svc.Dispatcher.Adjust(ctx, task.UserID, newPoints-task.Points); err != nil {
				return nil, err
			}
		}

		task.Category = newCategory
		task.Points = newPoints
	} else if req.Points != nil {
		task.Points = *req.Points
	}

	if err := svc.Tasks.UpdateTask(ctx, taskID, task); err != nil {
		return nil, err
	}

	return task, nil
}

// CompleteTask marks a task done and credits its points to the owner's
// pet. The status write commits before the reward, so a retried call sees
// ErrAlreadyCompleted and can never pay out twice.
func (svc *TaskService) CompleteTask(ctx context.Context, taskID string) (*model.Task, error) {
	task, err := svc.Tasks.FindTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status == model.TaskStatusCompleted {
		return nil, ErrAlreadyCompleted
	}

	task.Status = model.TaskStatusCompleted
	task.CompletedDate = time.Now()

	if err := svc.Tasks.UpdateTask(ctx, taskID, task); err != nil {
		return nil, err
	}

	if err := svc.Dispatcher.Award(ctx, task.UserID, task.Category, task.Points); err != nil {
		return nil, err
	}

	return task, nil
}

// UncompleteTask reopens a completed task. Whether the earlier reward is
// clawed back is a policy decision, off by default.
func (svc *TaskService) UncompleteTask(ctx context.Context, taskID string) (*model.Task, error) {
	task, err := svc.Tasks.FindTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status != model.TaskStatusCompleted {
		return nil, errors.New("task is not completed")
	}

	task.Status = model.TaskStatusPending
	task.CompletedDate = time.Time{}

	if err := svc.Tasks.UpdateTask(ctx, taskID, task); err != nil {
		return nil, err
	}

	if svc.Rewards.DeductOnUncomplete {
		if err := svc.Dispatcher.Adjust(ctx, task.UserID, -task.Points); err != nil {
			return nil, err
		}
	}

	return task, nil
}

// DeleteTask removes the task and drops it from its note's list. Deleting
// completed work only claws the reward back when the policy says so.
func (svc *TaskService) DeleteTask(ctx context.Context, taskID string) error {
	task, err := svc.Tasks.FindTask(ctx, taskID)
	if err != nil {
		return err
	}

	if err := svc.Coordinator.DeleteSubtree(ctx, model.KindTask, taskID); err != nil {
		return err
	}

	if task.Status == model.TaskStatusCompleted && svc.Rewards.DeductOnDelete {
		if err := svc.Dispatcher.Adjust(ctx, task.UserID, -task.Points); err != nil {
			return err
		}
	}

	return nil
}

// SweepOverdue flips every pending task whose due date has passed and
// reports how many moved.
func (svc *TaskService) SweepOverdue(ctx context.Context) (int64, error) {
	return svc.Tasks.MarkOverdue(ctx, time.Now())
}
