package dto

import (
	"time"

	"petnotes/model"
	"petnotes/services"
)

type CreatePetRequest struct {
	UserID  string `json:"user_id" validate:"required,uuid4"`
	PetName string `json:"pet_name" validate:"required,min=1,max=50"`
}

type UpdatePetRequest struct {
	PetName string `json:"pet_name" validate:"required,min=1,max=50"`
}

type PetResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	PetName     string    `json:"pet_name"`
	Level       int       `json:"level"`
	Points      int       `json:"points"`
	NextLevelAt int       `json:"next_level_at"`          // Points that clear the current level
	Progress    float64   `json:"progress"`               // Computed field, 0..1 toward the next level
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Convert model.Pet to PetResponse
func ToPetResponse(pet *model.Pet) PetResponse {
	required := services.RequiredExperience(pet.Level)

	response := PetResponse{
		ID:          pet.PetID,
		UserID:      pet.UserID,
		PetName:     pet.PetName,
		Level:       pet.Level,
		Points:      pet.Points,
		NextLevelAt: int(required),
		CreatedAt:   pet.CreatedAt,
		UpdatedAt:   pet.UpdatedAt,
	}

	if required > 0 {
		response.Progress = float64(pet.Points) / required
	}

	return response
}
