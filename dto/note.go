package dto

import (
	"time"

	"petnotes/model"
)

type CreateNoteRequest struct {
	FolderID string `json:"folder_id" validate:"required,uuid4"`
	Title    string `json:"title" validate:"required,min=1,max=200"`
	Content  string `json:"content" validate:"max=50000"`
}

// UpdateNoteRequest carries only the editable fields. Nil pointers leave
// the stored value alone.
type UpdateNoteRequest struct {
	Title   *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Content *string `json:"content,omitempty" validate:"omitempty,max=50000"`
}

type NoteResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FolderID  string    `json:"folder_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	TaskCount int       `json:"task_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Convert model.Note to NoteResponse
func ToNoteResponse(note *model.Note) NoteResponse {
	return NoteResponse{
		ID:        note.NoteID,
		UserID:    note.UserID,
		FolderID:  note.FolderID,
		Title:     note.Title,
		Content:   note.Content,
		TaskCount: len(note.TaskIDs),
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}

// Convert slice of model.Note to slice of NoteResponse
func ToNoteResponses(notes []*model.Note) []NoteResponse {
	responses := make([]NoteResponse, len(notes))
	for i, note := range notes {
		responses[i] = ToNoteResponse(note)
	}
	return responses
}
