package dto

import (
	"time"

	"petnotes/model"
)

type CreateFolderRequest struct {
	UserID     string `json:"user_id" validate:"required,uuid4"`
	FolderName string `json:"folder_name" validate:"required,min=1,max=100"`
}

type UpdateFolderRequest struct {
	FolderName string `json:"folder_name" validate:"required,min=1,max=100"`
}

type FolderResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	FolderName string    `json:"folder_name"`
	NoteCount  int       `json:"note_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Convert model.Folder to FolderResponse
func ToFolderResponse(folder *model.Folder) FolderResponse {
	return FolderResponse{
		ID:         folder.FolderID,
		UserID:     folder.UserID,
		FolderName: folder.FolderName,
		NoteCount:  len(folder.NoteIDs),
		CreatedAt:  folder.CreatedAt,
		UpdatedAt:  folder.UpdatedAt,
	}
}

// Convert slice of model.Folder to slice of FolderResponse
func ToFolderResponses(folders []*model.Folder) []FolderResponse {
	responses := make([]FolderResponse, len(folders))
	for i, folder := range folders {
		responses[i] = ToFolderResponse(folder)
	}
	return responses
}
