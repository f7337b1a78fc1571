package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"petnotes/dto"
	"petnotes/model"
	"petnotes/repository"
	"petnotes/services"
	"petnotes/utils"
)

var ErrPetExists = errors.New("user already has a pet")

type PetService struct {
	Users       repository.UserStore
	Pets        repository.PetStore
	Cache       *services.PetCache
	Coordinator *Coordinator
}

func NewPetService(stores repository.Stores, cache *services.PetCache, coordinator *Coordinator) *PetService {
	return &PetService{
		Users:       stores.Users,
		Pets:        stores.Pets,
		Cache:       cache,
		Coordinator: coordinator,
	}
}

// CreatePet gives a user their pet. The slot is set-once, a second pet for
// the same owner returns ErrPetExists.
func (svc *PetService) CreatePet(ctx context.Context, req *dto.CreatePetRequest) (*model.Pet, error) {
	if err := utils.Validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid pet: %w", err)
	}

	user, err := svc.Users.FindUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if user.PetID != "" {
		return nil, ErrPetExists
	}

	pet := &model.Pet{
		PetID:   utils.NewEntityID(),
		UserID:  req.UserID,
		PetName: strings.TrimSpace(req.PetName),
		Level:   1,
		Points:  0,
		Version: 1,
	}

	if err := svc.Pets.AddPet(ctx, pet); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrPetExists
		}
		return nil, err
	}

	// Claim the owner's slot. Losing the claim means another create won
	// the race, so the fresh record has to go.
	if err := svc.Users.SetPet(ctx, req.UserID, pet.PetID); err != nil {
		if cleanupErr := svc.Pets.DeletePetByID(ctx, pet.PetID); cleanupErr != nil {
			log.Printf("failed to clean up pet %s after lost slot claim: %v", pet.PetID, cleanupErr)
		}
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrPetExists
		}
		return nil, err
	}

	return pet, nil
}

// GetPet reads through the cache when one is wired.
func (svc *PetService) GetPet(ctx context.Context, petID string) (*model.Pet, error) {
	if svc.Cache != nil {
		pet, err := svc.Cache.GetPet(petID)
		if err != nil {
			log.Printf("pet cache read failed for %s: %v", petID, err)
		} else if pet != nil {
			return pet, nil
		}
	}

	pet, err := svc.Pets.FindPet(ctx, petID)
	if err != nil {
		return nil, err
	}

	svc.prime(pet)
	return pet, nil
}

// GetUserPet resolves a user's pet by owner id.
func (svc *PetService) GetUserPet(ctx context.Context, userID string) (*model.Pet, error) {
	pet, err := svc.Pets.FindPetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	svc.prime(pet)
	return pet, nil
}

func (svc *PetService) RenamePet(ctx context.Context, petID string, req *dto.UpdatePetRequest) error {
	if err := utils.Validate.Struct(req); err != nil {
		return fmt.Errorf("invalid pet update: %w", err)
	}

	if err := svc.Pets.UpdatePetName(ctx, petID, strings.TrimSpace(req.PetName)); err != nil {
		return err
	}

	svc.invalidate(petID)
	return nil
}

// DeletePet removes the pet and frees its owner's slot.
func (svc *PetService) DeletePet(ctx context.Context, petID string) error {
	return svc.Coordinator.DeleteSubtree(ctx, model.KindPet, petID)
}

func (svc *PetService) prime(pet *model.Pet) {
	if svc.Cache == nil {
		return
	}
	if err := svc.Cache.SetPet(pet); err != nil {
		log.Printf("pet cache write failed for %s: %v", pet.PetID, err)
	}
}

func (svc *PetService) invalidate(petID string) {
	if svc.Cache == nil {
		return
	}
	if err := svc.Cache.InvalidatePet(petID); err != nil {
		log.Printf("pet cache invalidation failed for %s: %v", petID, err)
	}
}
