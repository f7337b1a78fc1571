package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"petnotes/dto"
	"petnotes/model"
	"petnotes/repository"
	"petnotes/utils"
)

type UserService struct {
	Users       repository.UserStore
	Coordinator *Coordinator
}

func NewUserService(stores repository.Stores, coordinator *Coordinator) *UserService {
	return &UserService{Users: stores.Users, Coordinator: coordinator}
}

// CreateUser registers a user with an empty folder list and no pet.
func (svc *UserService) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*model.User, error) {
	if err := utils.Validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid user: %w", err)
	}

	user := &model.User{
		UserID:    utils.NewEntityID(),
		Username:  strings.TrimSpace(req.Username),
		Email:     strings.TrimSpace(req.Email),
		CreatedAt: time.Now(),
		FolderIDs: []string{},
	}

	if err := svc.Users.AddUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (svc *UserService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	return svc.Users.FindUser(ctx, userID)
}

// DeleteUser removes the user along with every folder, note, task, and
// pet hanging off them.
func (svc *UserService) DeleteUser(ctx context.Context, userID string) error {
	return svc.Coordinator.DeleteSubtree(ctx, model.KindUser, userID)
}
