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
	"petnotes/utils"
)

type FolderService struct {
	Users       repository.UserStore
	Folders     repository.FolderStore
	Coordinator *Coordinator
}

func NewFolderService(stores repository.Stores, coordinator *Coordinator) *FolderService {
	return &FolderService{
		Users:       stores.Users,
		Folders:     stores.Folders,
		Coordinator: coordinator,
	}
}

// CreateFolder inserts the folder record and then attaches it to its
// owner's folder list.
func (svc *FolderService) CreateFolder(ctx context.Context, req *dto.CreateFolderRequest) (*model.Folder, error) {
	if err := utils.Validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid folder: %w", err)
	}

	// Creating under a missing owner must fail cleanly.
	if _, err := svc.Users.FindUser(ctx, req.UserID); err != nil {
		return nil, err
	}

	folder := &model.Folder{
		FolderID:   utils.NewEntityID(),
		UserID:     req.UserID,
		FolderName: strings.TrimSpace(req.FolderName),
		NoteIDs:    []string{},
	}

	if err := svc.Folders.AddFolder(ctx, folder); err != nil {
		return nil, err
	}

	// If the owner vanished between the check and the attach, remove the
	// fresh record rather than leave an orphan behind.
	if err := svc.Users.AttachFolder(ctx, req.UserID, folder.FolderID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			if cleanupErr := svc.Folders.DeleteFolderByID(ctx, folder.FolderID); cleanupErr != nil {
				log.Printf("failed to clean up folder %s after lost owner: %v", folder.FolderID, cleanupErr)
			}
		}
		return nil, err
	}

	return folder, nil
}

func (svc *FolderService) GetFolder(ctx context.Context, folderID string) (*model.Folder, error) {
	return svc.Folders.FindFolder(ctx, folderID)
}

// ListFolders returns a user's folders, newest first. The user must exist.
func (svc *FolderService) ListFolders(ctx context.Context, userID string) ([]*model.Folder, error) {
	if _, err := svc.Users.FindUser(ctx, userID); err != nil {
		return nil, err
	}
	return svc.Folders.GetUserFolders(ctx, userID)
}

func (svc *FolderService) RenameFolder(ctx context.Context, folderID string, req *dto.UpdateFolderRequest) error {
	if err := utils.Validate.Struct(req); err != nil {
		return fmt.Errorf("invalid folder update: %w", err)
	}
	return svc.Folders.UpdateFolderName(ctx, folderID, strings.TrimSpace(req.FolderName))
}

// DeleteFolder removes the folder, its notes, and their tasks, then drops
// the folder from its owner's list.
func (svc *FolderService) DeleteFolder(ctx context.Context, folderID string) error {
	return svc.Coordinator.DeleteSubtree(ctx, model.KindFolder, folderID)
}
