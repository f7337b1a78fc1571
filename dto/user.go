package dto

import (
	"time"

	"petnotes/model"
)

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
}

type UserResponse struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
	FolderCount int       `json:"folder_count"`
	HasPet      bool      `json:"has_pet"`
}

// Convert model.User to UserResponse
func ToUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:          user.UserID,
		Username:    user.Username,
		Email:       user.Email,
		CreatedAt:   user.CreatedAt,
		FolderCount: len(user.FolderIDs),
		HasPet:      user.PetID != "",
	}
}
