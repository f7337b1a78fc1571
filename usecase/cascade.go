package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"petnotes/model"
	"petnotes/repository"
	"petnotes/services"
	"petnotes/utils"
)

// Coordinator tears down ownership subtrees. Children are always removed
// before their parent's record, and the parent's id list is only pulled
// after the record is gone, so a crash mid-cascade leaves nothing behind
// that a rerun cannot finish.
type Coordinator struct {
	Stores repository.Stores
	Cache  *services.PetCache
}

func NewCoordinator(stores repository.Stores, cache *services.PetCache) *Coordinator {
	return &Coordinator{Stores: stores, Cache: cache}
}

// DeleteSubtree removes the record with the given kind and id along with
// every descendant, then detaches the id from its parent's list. The root
// id must exist, repository.ErrNotFound comes back when it does not.
// Descendants that are already gone are treated as finished work.
func (c *Coordinator) DeleteSubtree(ctx context.Context, kind model.Kind, id string) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown entity kind %q", kind)
	}

	utils.TrackCascadeDelete(string(kind))

	switch kind {
	case model.KindUser:
		return c.deleteUser(ctx, id)
	case model.KindFolder:
		return c.deleteFolder(ctx, id, true)
	case model.KindNote:
		return c.deleteNote(ctx, id, true)
	case model.KindTask:
		return c.deleteTask(ctx, id, true)
	default:
		return c.deletePet(ctx, id, true)
	}
}

func (c *Coordinator) deleteUser(ctx context.Context, userID string) error {
	if _, err := c.Stores.Users.FindUser(ctx, userID); err != nil {
		return err
	}

	folders, err := c.Stores.Folders.GetUserFolders(ctx, userID)
	if err != nil {
		return err
	}
	for _, folder := range folders {
		if err := c.deleteFolder(ctx, folder.FolderID, false); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
	}

	// The pet goes down with its owner.
	pet, err := c.Stores.Pets.FindPetByUser(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if pet != nil {
		if err := c.deletePet(ctx, pet.PetID, false); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
	}

	if err := c.Stores.Users.DeleteUserByID(ctx, userID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	utils.TrackCascadeRecord("user")

	return nil
}

// detachOwner is false when the parent itself is being cascaded away, its
// id lists die with it.
func (c *Coordinator) deleteFolder(ctx context.Context, folderID string, detachOwner bool) error {
	folder, err := c.Stores.Folders.FindFolder(ctx, folderID)
	if err != nil {
		return err
	}

	notes, err := c.Stores.Notes.GetFolderNotes(ctx, folderID)
	if err != nil {
		return err
	}
	for _, note := range notes {
		if err := c.deleteNote(ctx, note.NoteID, false); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
	}

	if err := c.Stores.Folders.DeleteFolderByID(ctx, folderID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	utils.TrackCascadeRecord("folder")

	if detachOwner {
		if err := c.Stores.Users.DetachFolder(ctx, folder.UserID, folderID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				log.Printf("folder %s belonged to missing user %s", folderID, folder.UserID)
			} else {
				return err
			}
		}
	}

	return nil
}

func (c *Coordinator) deleteNote(ctx context.Context, noteID string, detachFolder bool) error {
	note, err := c.Stores.Notes.FindNote(ctx, noteID)
	if err != nil {
		return err
	}

	tasks, err := c.Stores.Tasks.GetNoteTasks(ctx, noteID)
	if err != nil {
		return err
	}
	for _, task := range tasks {
		if err := c.deleteTask(ctx, task.TaskID, false); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
	}

	if err := c.Stores.Notes.DeleteNoteByID(ctx, noteID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	utils.TrackCascadeRecord("note")

	if detachFolder {
		if err := c.Stores.Folders.DetachNote(ctx, note.FolderID, noteID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				log.Printf("note %s belonged to missing folder %s", noteID, note.FolderID)
			} else {
				return err
			}
		}
	}

	return nil
}

func (c *Coordinator) deleteTask(ctx context.Context, taskID string, detachNote bool) error {
	task, err := c.Stores.Tasks.FindTask(ctx, taskID)
	if err != nil {
		return err
	}

	if err := c.Stores.Tasks.DeleteTaskByID(ctx, taskID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	utils.TrackCascadeRecord("task")

	if detachNote {
		if err := c.Stores.Notes.DetachTask(ctx, task.NoteID, taskID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				log.Printf("task %s belonged to missing note %s", taskID, task.NoteID)
			} else {
				return err
			}
		}
	}

	return nil
}

func (c *Coordinator) deletePet(ctx context.Context, petID string, detachOwner bool) error {
	pet, err := c.Stores.Pets.FindPet(ctx, petID)
	if err != nil {
		return err
	}

	if err := c.Stores.Pets.DeletePetByID(ctx, petID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	utils.TrackCascadeRecord("pet")

	if c.Cache != nil {
		if err := c.Cache.InvalidatePet(petID); err != nil {
			log.Printf("failed to invalidate cached pet %s: %v", petID, err)
		}
	}

	if detachOwner {
		if err := c.Stores.Users.ClearPet(ctx, pet.UserID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				log.Printf("pet %s belonged to missing user %s", petID, pet.UserID)
			} else {
				return err
			}
		}
	}

	return nil
}
