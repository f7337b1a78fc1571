package model

import "time"

type TaskStatus string
type TaskCategory string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusOverdue   TaskStatus = "overdue"

	CategoryEasy   TaskCategory = "easy"
	CategoryMedium TaskCategory = "medium"
	CategoryHard   TaskCategory = "hard"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusCompleted, TaskStatusOverdue:
		return true
	}
	return false
}

func (c TaskCategory) Valid() bool {
	switch c {
	case CategoryEasy, CategoryMedium, CategoryHard:
		return true
	}
	return false
}

type Task struct {
	TaskID        string       `bson:"_id,omitempty" json:"id"`
	UserID        string       `bson:"user_id" json:"user_id"`
	NoteID        string       `bson:"note_id" json:"note_id"`
	TaskName      string       `bson:"task_name" json:"task_name"`
	Description   string       `bson:"description" json:"description"`
	Status        TaskStatus   `bson:"status" json:"status"`
	Category      TaskCategory `bson:"category" json:"category"`
	Points        int          `bson:"points" json:"points"`
	CreatedAt     time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time    `bson:"updated_at" json:"updated_at"`
	DueDate       time.Time    `bson:"due_date,omitempty" json:"due_date,omitempty"`
	CompletedDate time.Time    `bson:"completed_date,omitempty" json:"completed_date,omitempty"`
}
