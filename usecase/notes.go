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

type NoteService struct {
	Folders     repository.FolderStore
	Notes       repository.NoteStore
	Coordinator *Coordinator
}

func NewNoteService(stores repository.Stores, coordinator *Coordinator) *NoteService {
	return &NoteService{
		Folders:     stores.Folders,
		Notes:       stores.Notes,
		Coordinator: coordinator,
	}
}

// CreateNote inserts a note into a folder. The note inherits its owner
// from the folder.
func (svc *NoteService) CreateNote(ctx context.Context, req *dto.CreateNoteRequest) (*model.Note, error) {
	if err := utils.Validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid note: %w", err)
	}

	folder, err := svc.Folders.FindFolder(ctx, req.FolderID)
	if err != nil {
		return nil, err
	}

	note := &model.Note{
		NoteID:   utils.NewEntityID(),
		UserID:   folder.UserID,
		FolderID: folder.FolderID,
		Title:    strings.TrimSpace(req.Title),
		Content:  req.Content,
		TaskIDs:  []string{},
	}

	if err := svc.Notes.AddNote(ctx, note); err != nil {
		return nil, err
	}

	if err := svc.Folders.AttachNote(ctx, folder.FolderID, note.NoteID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			if cleanupErr := svc.Notes.DeleteNoteByID(ctx, note.NoteID); cleanupErr != nil {
				log.Printf("failed to clean up note %s after lost folder: %v", note.NoteID, cleanupErr)
			}
		}
		return nil, err
	}

	return note, nil
}

func (svc *NoteService) GetNote(ctx context.Context, noteID string) (*model.Note, error) {
	return svc.Notes.FindNote(ctx, noteID)
}

// ListNotes returns a folder's notes, newest first. The folder must exist.
func (svc *NoteService) ListNotes(ctx context.Context, folderID string) ([]*model.Note, error) {
	if _, err := svc.Folders.FindFolder(ctx, folderID); err != nil {
		return nil, err
	}
	return svc.Notes.GetFolderNotes(ctx, folderID)
}

// UpdateNote applies the provided fields. Ownership never changes through
// an update.
func (svc *NoteService) UpdateNote(ctx context.Context, noteID string, req *dto.UpdateNoteRequest) (*model.Note, error) {
	if err := utils.Validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid note update: %w", err)
	}

	note, err := svc.Notes.FindNote(ctx, noteID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, errors.New("note title cannot be empty")
		}
		note.Title = title
	}
	if req.Content != nil {
		note.Content = *req.Content
	}

	if err := svc.Notes.UpdateNote(ctx, noteID, note); err != nil {
		return nil, err
	}

	return note, nil
}

// DeleteNote removes the note and its tasks, then drops the note from its
// folder's list.
func (svc *NoteService) DeleteNote(ctx context.Context, noteID string) error {
	return svc.Coordinator.DeleteSubtree(ctx, model.KindNote, noteID)
}
