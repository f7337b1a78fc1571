package dto

import (
	"time"

	"petnotes/model"
)

type CreateTaskRequest struct {
	NoteID      string     `json:"note_id" validate:"required,uuid4"`
	TaskName    string     `json:"task_name" validate:"required,min=1,max=200"`
	Description string     `json:"description" validate:"max=2000"`
	Category    string     `json:"category" validate:"required,category"`
	Points      *int       `json:"points,omitempty" validate:"omitempty,gt=0"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// UpdateTaskRequest carries only the editable fields. Nil pointers leave
// the stored value alone, a pointer to the zero time clears the due date.
// Status is deliberately absent, it only moves through completion calls
// and the overdue sweep.
type UpdateTaskRequest struct {
	TaskName    *string    `json:"task_name,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	Category    *string    `json:"category,omitempty" validate:"omitempty,category"`
	Points      *int       `json:"points,omitempty" validate:"omitempty,gt=0"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

type TaskResponse struct {
	ID            string             `json:"id"`
	NoteID        string             `json:"note_id"`
	TaskName      string             `json:"task_name"`
	Description   string             `json:"description"`
	Status        model.TaskStatus   `json:"status"`
	Category      model.TaskCategory `json:"category"`
	Points        int                `json:"points"`
	DueDate       *time.Time         `json:"due_date,omitempty"`
	CompletedDate *time.Time         `json:"completed_date,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	TimeUntilDue  string             `json:"time_until_due,omitempty"` // Computed field
}

// Convert model.Task to TaskResponse
func ToTaskResponse(task *model.Task) TaskResponse {
	response := TaskResponse{
		ID:          task.TaskID,
		NoteID:      task.NoteID,
		TaskName:    task.TaskName,
		Description: task.Description,
		Status:      task.Status,
		Category:    task.Category,
		Points:      task.Points,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	// Handle nullable time fields
	if !task.DueDate.IsZero() {
		response.DueDate = &task.DueDate
		// Calculate time until due
		if task.Status != model.TaskStatusCompleted {
			if task.DueDate.Before(time.Now()) {
				response.TimeUntilDue = "Overdue"
			} else {
				response.TimeUntilDue = time.Until(task.DueDate).Round(time.Hour).String()
			}
		}
	}

	if !task.CompletedDate.IsZero() {
		response.CompletedDate = &task.CompletedDate
	}

	return response
}

// Convert slice of model.Task to slice of TaskResponse
func ToTaskResponses(tasks []*model.Task) []TaskResponse {
	responses := make([]TaskResponse, len(tasks))
	for i, task := range tasks {
		responses[i] = ToTaskResponse(task)
	}
	return responses
}
