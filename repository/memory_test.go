package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"petnotes/model"
)

func TestMemoryUserStore(t *testing.T) {
	ctx := context.Background()
	stores := NewMemoryStores()

	userID := uuid.New().String()
	user := &model.User{
		UserID:   userID,
		Username: "ada",
		Email:    "ada@example.com",
	}

	t.Run("AddAndFind", func(t *testing.T) {
		if err := stores.AddUser(ctx, user); err != nil {
			t.Fatal("add user failed", err)
		}

		found, err := stores.FindUser(ctx, userID)
		if err != nil {
			t.Fatal("find user failed", err)
		}
		if found.Username != "ada" {
			t.Fatalf("got username %q, want ada", found.Username)
		}
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		dup := &model.User{
			UserID:   uuid.New().String(),
			Username: "ada",
			Email:    "other@example.com",
		}
		if err := stores.AddUser(ctx, dup); !errors.Is(err, ErrConflict) {
			t.Fatalf("got %v, want ErrConflict", err)
		}
	})

	t.Run("FindMissing", func(t *testing.T) {
		if _, err := stores.FindUser(ctx, "no-such-user"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("got %v, want ErrNotFound", err)
		}
	})

	t.Run("AttachDetachFolder", func(t *testing.T) {
		folderID := uuid.New().String()

		if err := stores.AttachFolder(ctx, userID, folderID); err != nil {
			t.Fatal("attach folder failed", err)
		}
		// Attaching twice must not duplicate the entry.
		if err := stores.AttachFolder(ctx, userID, folderID); err != nil {
			t.Fatal("repeat attach failed", err)
		}

		found, err := stores.FindUser(ctx, userID)
		if err != nil {
			t.Fatal("find user failed", err)
		}
		if len(found.FolderIDs) != 1 {
			t.Fatalf("got %d folder ids, want 1", len(found.FolderIDs))
		}

		if err := stores.DetachFolder(ctx, userID, folderID); err != nil {
			t.Fatal("detach folder failed", err)
		}
		// Detaching an id that is already gone stays quiet.
		if err := stores.DetachFolder(ctx, userID, folderID); err != nil {
			t.Fatal("repeat detach failed", err)
		}

		found, err = stores.FindUser(ctx, userID)
		if err != nil {
			t.Fatal("find user failed", err)
		}
		if len(found.FolderIDs) != 0 {
			t.Fatalf("got %d folder ids, want 0", len(found.FolderIDs))
		}
	})

	t.Run("SetPetOnce", func(t *testing.T) {
		petID := uuid.New().String()

		if err := stores.SetPet(ctx, userID, petID); err != nil {
			t.Fatal("set pet failed", err)
		}
		// Same pet again is fine.
		if err := stores.SetPet(ctx, userID, petID); err != nil {
			t.Fatal("repeat set pet failed", err)
		}
		// A different pet loses the slot.
		if err := stores.SetPet(ctx, userID, uuid.New().String()); !errors.Is(err, ErrConflict) {
			t.Fatalf("got %v, want ErrConflict", err)
		}

		if err := stores.ClearPet(ctx, userID); err != nil {
			t.Fatal("clear pet failed", err)
		}
		if err := stores.SetPet(ctx, userID, uuid.New().String()); err != nil {
			t.Fatal("set pet after clear failed", err)
		}
	})

	t.Run("CloneIsolation", func(t *testing.T) {
		found, err := stores.FindUser(ctx, userID)
		if err != nil {
			t.Fatal("find user failed", err)
		}
		found.Username = "mutated"
		found.FolderIDs = append(found.FolderIDs, "rogue")

		again, err := stores.FindUser(ctx, userID)
		if err != nil {
			t.Fatal("find user failed", err)
		}
		if again.Username != "ada" {
			t.Fatal("stored record was mutated through a returned copy")
		}
		for _, id := range again.FolderIDs {
			if id == "rogue" {
				t.Fatal("stored folder list was mutated through a returned copy")
			}
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := stores.DeleteUserByID(ctx, userID); err != nil {
			t.Fatal("delete user failed", err)
		}
		if err := stores.DeleteUserByID(ctx, userID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("got %v, want ErrNotFound", err)
		}
	})
}

func TestMemoryFolderStore(t *testing.T) {
	ctx := context.Background()
	stores := NewMemoryStores()
	userID := uuid.New().String()

	first := &model.Folder{FolderID: uuid.New().String(), UserID: userID, FolderName: "first"}
	second := &model.Folder{FolderID: uuid.New().String(), UserID: userID, FolderName: "second"}

	if err := stores.AddFolder(ctx, first); err != nil {
		t.Fatal("add folder failed", err)
	}
	time.Sleep(time.Millisecond)
	if err := stores.AddFolder(ctx, second); err != nil {
		t.Fatal("add folder failed", err)
	}

	t.Run("NewestFirst", func(t *testing.T) {
		folders, err := stores.GetUserFolders(ctx, userID)
		if err != nil {
			t.Fatal("get user folders failed", err)
		}
		if len(folders) != 2 {
			t.Fatalf("got %d folders, want 2", len(folders))
		}
		if folders[0].FolderName != "second" {
			t.Fatalf("got %q first, want second", folders[0].FolderName)
		}
	})

	t.Run("AttachDetachNote", func(t *testing.T) {
		noteID := uuid.New().String()

		if err := stores.AttachNote(ctx, first.FolderID, noteID); err != nil {
			t.Fatal("attach note failed", err)
		}
		if err := stores.AttachNote(ctx, first.FolderID, noteID); err != nil {
			t.Fatal("repeat attach failed", err)
		}

		folder, err := stores.FindFolder(ctx, first.FolderID)
		if err != nil {
			t.Fatal("find folder failed", err)
		}
		if len(folder.NoteIDs) != 1 {
			t.Fatalf("got %d note ids, want 1", len(folder.NoteIDs))
		}

		if err := stores.DetachNote(ctx, first.FolderID, noteID); err != nil {
			t.Fatal("detach note failed", err)
		}
		folder, err = stores.FindFolder(ctx, first.FolderID)
		if err != nil {
			t.Fatal("find folder failed", err)
		}
		if len(folder.NoteIDs) != 0 {
			t.Fatalf("got %d note ids, want 0", len(folder.NoteIDs))
		}
	})

	t.Run("AttachToMissingFolder", func(t *testing.T) {
		if err := stores.AttachNote(ctx, "no-such-folder", uuid.New().String()); !errors.Is(err, ErrNotFound) {
			t.Fatalf("got %v, want ErrNotFound", err)
		}
	})
}

func TestMemoryTaskStore(t *testing.T) {
	ctx := context.Background()
	stores := NewMemoryStores()
	userID := uuid.New().String()
	noteID := uuid.New().String()

	addTask := func(t *testing.T, status model.TaskStatus, due time.Time) string {
		t.Helper()
		task := &model.Task{
			TaskID:   uuid.New().String(),
			UserID:   userID,
			NoteID:   noteID,
			TaskName: "chore",
			Status:   status,
			Category: model.CategoryEasy,
			Points:   250,
			DueDate:  due,
		}
		if err := stores.AddTask(ctx, task); err != nil {
			t.Fatal("add task failed", err)
		}
		return task.TaskID
	}

	now := time.Now()
	pastDue := addTask(t, model.TaskStatusPending, now.Add(-time.Hour))
	futureDue := addTask(t, model.TaskStatusPending, now.Add(time.Hour))
	noDue := addTask(t, model.TaskStatusPending, time.Time{})
	alreadyDone := addTask(t, model.TaskStatusCompleted, now.Add(-2*time.Hour))

	t.Run("MarkOverdue", func(t *testing.T) {
		flipped, err := stores.MarkOverdue(ctx, now)
		if err != nil {
			t.Fatal("mark overdue failed", err)
		}
		if flipped != 1 {
			t.Fatalf("flipped %d tasks, want 1", flipped)
		}

		for id, want := range map[string]model.TaskStatus{
			pastDue:     model.TaskStatusOverdue,
			futureDue:   model.TaskStatusPending,
			noDue:       model.TaskStatusPending,
			alreadyDone: model.TaskStatusCompleted,
		} {
			task, err := stores.FindTask(ctx, id)
			if err != nil {
				t.Fatal("find task failed", err)
			}
			if task.Status != want {
				t.Fatalf("task %s has status %s, want %s", id, task.Status, want)
			}
		}
	})

	t.Run("CountByStatus", func(t *testing.T) {
		count, err := stores.CountTasksByStatus(ctx, model.TaskStatusPending)
		if err != nil {
			t.Fatal("count failed", err)
		}
		if count != 2 {
			t.Fatalf("got %d pending, want 2", count)
		}
	})

	t.Run("UpdateClearsDueDate", func(t *testing.T) {
		task, err := stores.FindTask(ctx, futureDue)
		if err != nil {
			t.Fatal("find task failed", err)
		}
		task.DueDate = time.Time{}
		if err := stores.UpdateTask(ctx, futureDue, task); err != nil {
			t.Fatal("update task failed", err)
		}

		updated, err := stores.FindTask(ctx, futureDue)
		if err != nil {
			t.Fatal("find task failed", err)
		}
		if !updated.DueDate.IsZero() {
			t.Fatal("due date survived a clearing update")
		}
	})
}

func TestMemoryPetStore(t *testing.T) {
	ctx := context.Background()
	stores := NewMemoryStores()
	userID := uuid.New().String()
	petID := uuid.New().String()

	t.Run("OnePetPerUser", func(t *testing.T) {
		if err := stores.AddPet(ctx, &model.Pet{PetID: petID, UserID: userID, PetName: "Scout"}); err != nil {
			t.Fatal("add pet failed", err)
		}
		err := stores.AddPet(ctx, &model.Pet{PetID: uuid.New().String(), UserID: userID, PetName: "Rival"})
		if !errors.Is(err, ErrConflict) {
			t.Fatalf("got %v, want ErrConflict", err)
		}
	})

	t.Run("DefaultsApplied", func(t *testing.T) {
		pet, err := stores.FindPet(ctx, petID)
		if err != nil {
			t.Fatal("find pet failed", err)
		}
		if pet.Level != 1 {
			t.Fatalf("got level %d, want 1", pet.Level)
		}
		if pet.Version != 1 {
			t.Fatalf("got version %d, want 1", pet.Version)
		}
	})

	t.Run("ProgressVersionCheck", func(t *testing.T) {
		pet, err := stores.FindPet(ctx, petID)
		if err != nil {
			t.Fatal("find pet failed", err)
		}

		if err := stores.UpdateProgress(ctx, petID, 2, 30, pet.Version); err != nil {
			t.Fatal("update progress failed", err)
		}
		// The old version must now lose.
		if err := stores.UpdateProgress(ctx, petID, 3, 0, pet.Version); !errors.Is(err, ErrConflict) {
			t.Fatalf("got %v, want ErrConflict", err)
		}

		updated, err := stores.FindPet(ctx, petID)
		if err != nil {
			t.Fatal("find pet failed", err)
		}
		if updated.Level != 2 || updated.Points != 30 {
			t.Fatalf("got level %d points %d, want 2 and 30", updated.Level, updated.Points)
		}
		if updated.Version != pet.Version+1 {
			t.Fatalf("got version %d, want %d", updated.Version, pet.Version+1)
		}
	})

	t.Run("ProgressOnMissingPet", func(t *testing.T) {
		err := stores.UpdateProgress(ctx, "no-such-pet", 1, 0, 1)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("got %v, want ErrNotFound", err)
		}
	})

	t.Run("FindByUser", func(t *testing.T) {
		pet, err := stores.FindPetByUser(ctx, userID)
		if err != nil {
			t.Fatal("find pet by user failed", err)
		}
		if pet.PetID != petID {
			t.Fatalf("got pet %s, want %s", pet.PetID, petID)
		}
	})

	t.Run("LevelCounts", func(t *testing.T) {
		counts, err := stores.LevelCounts(ctx)
		if err != nil {
			t.Fatal("level counts failed", err)
		}
		if counts[2] != 1 {
			t.Fatalf("got %d pets at level 2, want 1", counts[2])
		}
	})
}
