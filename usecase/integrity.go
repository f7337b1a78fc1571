package usecase

import (
	"context"
	"errors"
	"fmt"

	"petnotes/model"
	"petnotes/repository"
	"petnotes/utils"
)

// Issue describes one broken edge in the ownership graph.
type Issue struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}

// Report sums up a verification pass.
type Report struct {
	Issues   []Issue `json:"issues"`
	Repaired int     `json:"repaired"`
}

func (r *Report) Clean() bool {
	return len(r.Issues) == 0
}

// IntegrityChecker walks the whole graph looking for edges the engine
// guarantees but a crash or bug may have broken: ids in ownership lists
// that point nowhere, records whose parent is gone, and records their
// parent's list forgot. Repairs reuse the cascade rules, an orphaned
// record is deleted with its subtree and a bad list entry is detached.
type IntegrityChecker struct {
	Stores      repository.Stores
	Coordinator *Coordinator
}

func NewIntegrityChecker(stores repository.Stores, coordinator *Coordinator) *IntegrityChecker {
	return &IntegrityChecker{Stores: stores, Coordinator: coordinator}
}

// Check reports issues without touching anything.
func (c *IntegrityChecker) Check(ctx context.Context) (*Report, error) {
	return c.scan(ctx, false)
}

// Repair reports issues and fixes each one as it is found.
func (c *IntegrityChecker) Repair(ctx context.Context) (*Report, error) {
	return c.scan(ctx, true)
}

func (c *IntegrityChecker) scan(ctx context.Context, repair bool) (*Report, error) {
	users, err := c.Stores.Users.GetAllUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan users: %w", err)
	}
	folders, err := c.Stores.Folders.GetAllFolders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan folders: %w", err)
	}
	notes, err := c.Stores.Notes.GetAllNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan notes: %w", err)
	}
	tasks, err := c.Stores.Tasks.GetAllTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan tasks: %w", err)
	}
	pets, err := c.Stores.Pets.GetAllPets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan pets: %w", err)
	}

	userByID := make(map[string]*model.User, len(users))
	for _, user := range users {
		userByID[user.UserID] = user
	}
	folderByID := make(map[string]*model.Folder, len(folders))
	for _, folder := range folders {
		folderByID[folder.FolderID] = folder
	}
	noteByID := make(map[string]*model.Note, len(notes))
	for _, note := range notes {
		noteByID[note.NoteID] = note
	}
	taskByID := make(map[string]*model.Task, len(tasks))
	for _, task := range tasks {
		taskByID[task.TaskID] = task
	}
	petByID := make(map[string]*model.Pet, len(pets))
	for _, pet := range pets {
		petByID[pet.PetID] = pet
	}

	report := &Report{}
	record := func(kind, detail string) {
		report.Issues = append(report.Issues, Issue{Kind: kind, Detail: detail})
		utils.IntegrityIssuesFound.WithLabelValues(kind).Inc()
	}
	repaired := func(action string) {
		report.Repaired++
		utils.IntegrityRepairsTotal.WithLabelValues(action).Inc()
	}
	// Repairs run against live stores while the scan walks a snapshot, so
	// a record can vanish between the two. That just means the work is
	// already done.
	tolerate := func(err error) error {
		if err == nil || errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	// Subtrees removed during this pass, so later stages skip their
	// stale snapshot entries.
	deletedFolders := make(map[string]bool)
	deletedNotes := make(map[string]bool)

	// User lists and pet slots.
	for _, user := range users {
		for _, folderID := range user.FolderIDs {
			folder, ok := folderByID[folderID]
			switch {
			case !ok:
				record("dangling_folder_ref", fmt.Sprintf("user %s lists missing folder %s", user.UserID, folderID))
			case folder.UserID != user.UserID:
				record("foreign_folder_ref", fmt.Sprintf("user %s lists folder %s owned by %s", user.UserID, folderID, folder.UserID))
			default:
				continue
			}
			if repair {
				if err := tolerate(c.Stores.Users.DetachFolder(ctx, user.UserID, folderID)); err != nil {
					return report, err
				}
				repaired("detach_folder")
			}
		}

		if user.PetID != "" {
			pet, ok := petByID[user.PetID]
			switch {
			case !ok:
				record("dangling_pet_ref", fmt.Sprintf("user %s points at missing pet %s", user.UserID, user.PetID))
			case pet.UserID != user.UserID:
				record("mismatched_pet_ref", fmt.Sprintf("user %s points at pet %s owned by %s", user.UserID, user.PetID, pet.UserID))
			default:
				continue
			}
			if repair {
				if err := tolerate(c.Stores.Users.ClearPet(ctx, user.UserID)); err != nil {
					return report, err
				}
				repaired("clear_pet")
			}
		}
	}

	// Folders: orphans, missing list entries, and their note lists.
	for _, folder := range folders {
		owner, ok := userByID[folder.UserID]
		if !ok {
			record("orphaned_folder", fmt.Sprintf("folder %s belongs to missing user %s", folder.FolderID, folder.UserID))
			if repair {
				if err := tolerate(c.Coordinator.DeleteSubtree(ctx, model.KindFolder, folder.FolderID)); err != nil {
					return report, err
				}
				repaired("delete_folder_subtree")
				deletedFolders[folder.FolderID] = true
			}
			continue
		}

		if !owner.OwnsFolder(folder.FolderID) {
			record("unlisted_folder", fmt.Sprintf("folder %s is missing from user %s's list", folder.FolderID, folder.UserID))
			if repair {
				if err := tolerate(c.Stores.Users.AttachFolder(ctx, folder.UserID, folder.FolderID)); err != nil {
					return report, err
				}
				repaired("attach_folder")
			}
		}

		for _, noteID := range folder.NoteIDs {
			note, ok := noteByID[noteID]
			switch {
			case !ok:
				record("dangling_note_ref", fmt.Sprintf("folder %s lists missing note %s", folder.FolderID, noteID))
			case note.FolderID != folder.FolderID:
				record("foreign_note_ref", fmt.Sprintf("folder %s lists note %s that belongs to folder %s", folder.FolderID, noteID, note.FolderID))
			default:
				continue
			}
			if repair {
				if err := tolerate(c.Stores.Folders.DetachNote(ctx, folder.FolderID, noteID)); err != nil {
					return report, err
				}
				repaired("detach_note")
			}
		}
	}

	// Notes: orphans, missing list entries, and their task lists.
	for _, note := range notes {
		if deletedNotes[note.NoteID] || deletedFolders[note.FolderID] {
			deletedNotes[note.NoteID] = true
			continue
		}

		folder, ok := folderByID[note.FolderID]
		if !ok {
			record("orphaned_note", fmt.Sprintf("note %s belongs to missing folder %s", note.NoteID, note.FolderID))
			if repair {
				if err := tolerate(c.Coordinator.DeleteSubtree(ctx, model.KindNote, note.NoteID)); err != nil {
					return report, err
				}
				repaired("delete_note_subtree")
				deletedNotes[note.NoteID] = true
			}
			continue
		}

		if !containsID(folder.NoteIDs, note.NoteID) {
			record("unlisted_note", fmt.Sprintf("note %s is missing from folder %s's list", note.NoteID, note.FolderID))
			if repair {
				if err := tolerate(c.Stores.Folders.AttachNote(ctx, note.FolderID, note.NoteID)); err != nil {
					return report, err
				}
				repaired("attach_note")
			}
		}

		for _, taskID := range note.TaskIDs {
			task, ok := taskByID[taskID]
			switch {
			case !ok:
				record("dangling_task_ref", fmt.Sprintf("note %s lists missing task %s", note.NoteID, taskID))
			case task.NoteID != note.NoteID:
				record("foreign_task_ref", fmt.Sprintf("note %s lists task %s that belongs to note %s", note.NoteID, taskID, task.NoteID))
			default:
				continue
			}
			if repair {
				if err := tolerate(c.Stores.Notes.DetachTask(ctx, note.NoteID, taskID)); err != nil {
					return report, err
				}
				repaired("detach_task")
			}
		}
	}

	// Tasks: orphans and missing list entries.
	for _, task := range tasks {
		if deletedNotes[task.NoteID] {
			continue
		}

		note, ok := noteByID[task.NoteID]
		if ok && deletedFolders[note.FolderID] {
			continue
		}
		if !ok {
			record("orphaned_task", fmt.Sprintf("task %s belongs to missing note %s", task.TaskID, task.NoteID))
			if repair {
				if err := tolerate(c.Coordinator.DeleteSubtree(ctx, model.KindTask, task.TaskID)); err != nil {
					return report, err
				}
				repaired("delete_task")
			}
			continue
		}

		if !containsID(note.TaskIDs, task.TaskID) {
			record("unlisted_task", fmt.Sprintf("task %s is missing from note %s's list", task.TaskID, task.NoteID))
			if repair {
				if err := tolerate(c.Stores.Notes.AttachTask(ctx, task.NoteID, task.TaskID)); err != nil {
					return report, err
				}
				repaired("attach_task")
			}
		}
	}

	// Pets: orphans and owners that lost the back link.
	for _, pet := range pets {
		owner, ok := userByID[pet.UserID]
		if !ok {
			record("orphaned_pet", fmt.Sprintf("pet %s belongs to missing user %s", pet.PetID, pet.UserID))
			if repair {
				if err := tolerate(c.Coordinator.DeleteSubtree(ctx, model.KindPet, pet.PetID)); err != nil {
					return report, err
				}
				repaired("delete_pet")
			}
			continue
		}

		if owner.PetID == "" {
			record("unlinked_pet", fmt.Sprintf("pet %s is not referenced by its owner %s", pet.PetID, pet.UserID))
			if repair {
				if err := tolerate(c.Stores.Users.SetPet(ctx, pet.UserID, pet.PetID)); err != nil {
					if errors.Is(err, repository.ErrConflict) {
						continue
					}
					return report, err
				}
				repaired("set_pet")
			}
		}
	}

	return report, nil
}

func containsID(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}
