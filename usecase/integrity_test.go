package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"petnotes/model"
)

func TestCheckHealthyGraph(t *testing.T) {
	env := newTestEnv(t)

	user := env.seedUser(t, "casey")
	env.seedPet(t, user.UserID, "Biscuit")
	folder := env.seedFolder(t, user.UserID, "work")
	note := env.seedNote(t, folder.FolderID, "list")
	env.seedTask(t, note.NoteID, "chore")

	report, err := env.checker.Check(context.Background())
	if err != nil {
		t.Fatalf("Failed to check graph: %v", err)
	}
	if !report.Clean() {
		t.Errorf("Expected a clean graph, found %d issues: %+v", len(report.Issues), report.Issues)
	}
	if report.Repaired != 0 {
		t.Errorf("Expected Check to repair nothing, got %d", report.Repaired)
	}
}

// Each case injects exactly one corruption through raw store writes, the
// paths the services never take.
func TestCheckFindsEachCorruption(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		kind string
		seed func(t *testing.T, env *testEnv)
	}{
		{
			name: "user lists a missing folder",
			kind: "dangling_folder_ref",
			seed: func(t *testing.T, env *testEnv) {
				user := env.seedUser(t, "casey")
				if err := env.stores.Users.AttachFolder(ctx, user.UserID, uuid.New().String()); err != nil {
					t.Fatalf("Failed to attach: %v", err)
				}
			},
		},
		{
			name: "user lists another user's folder",
			kind: "foreign_folder_ref",
			seed: func(t *testing.T, env *testEnv) {
				owner := env.seedUser(t, "casey")
				folder := env.seedFolder(t, owner.UserID, "work")
				thief := env.seedUser(t, "drew")
				if err := env.stores.Users.AttachFolder(ctx, thief.UserID, folder.FolderID); err != nil {
					t.Fatalf("Failed to attach: %v", err)
				}
			},
		},
		{
			name: "folder not in its owner's list",
			kind: "unlisted_folder",
			seed: func(t *testing.T, env *testEnv) {
				user := env.seedUser(t, "casey")
				stray := &model.Folder{FolderID: uuid.New().String(), UserID: user.UserID, FolderName: "stray"}
				if err := env.stores.Folders.AddFolder(ctx, stray); err != nil {
					t.Fatalf("Failed to add folder: %v", err)
				}
			},
		},
		{
			name: "folder without an owner",
			kind: "orphaned_folder",
			seed: func(t *testing.T, env *testEnv) {
				orphan := &model.Folder{FolderID: uuid.New().String(), UserID: uuid.New().String(), FolderName: "orphan"}
				if err := env.stores.Folders.AddFolder(ctx, orphan); err != nil {
					t.Fatalf("Failed to add folder: %v", err)
				}
			},
		},
		{
			name: "folder lists a missing note",
			kind: "dangling_note_ref",
			seed: func(t *testing.T, env *testEnv) {
				user := env.seedUser(t, "casey")
				folder := env.seedFolder(t, user.UserID, "work")
				if err := env.stores.Folders.AttachNote(ctx, folder.FolderID, uuid.New().String()); err != nil {
					t.Fatalf("Failed to attach: %v", err)
				}
			},
		},
		{
			name: "folder lists another folder's note",
			kind: "foreign_note_ref",
			seed: func(t *testing.T, env *testEnv) {
				user := env.seedUser(t, "casey")
				home := env.seedFolder(t, user.UserID, "home")
				away := env.seedFolder(t, user.UserID, "away")
				note := env.seedNote(t, home.FolderID, "note")
				if err := env.stores.Folders.AttachNote(ctx, away.FolderID, note.NoteID); err != nil {
					t.Fatalf("Failed to attach: %v", err)
				}
			},
		},
		{
			name: "note not in its folder's list",
			kind: "unlisted_note",
			seed: func(t *testing.T, env *testEnv) {
				user := env.seedUser(t, "casey")
				folder := env.seedFolder(t, user.UserID, "work")
				stray := &model.Note{NoteID: uuid.New().String(), UserID: user.UserID, FolderID: folder.FolderID, Title: "stray"}
				if err := env.stores.Notes.AddNote(ctx, stray); err != nil {
					t.Fatalf("Failed to add note: %v", err)
				}
			},
		},
		{
			name: "note without a folder",
			kind: "orphaned_note",
			seed: func(t *testing.T, env *testEnv) {
				user := env.seedUser(t, "casey")
				orphan := &model.Note{NoteID: uuid.New().String(), UserID: user.UserID, FolderID: uuid.New().String(), Title: "orphan"}
				if err := env.stores.Notes.AddNote(ctx, orphan); err != nil {
					t.Fatalf("Failed to add note: %v", err)
				}
			},
		},
		{
			name: "note lists a missing task",
			kind: "dangling_task_ref",
			seed: func(t *testing.T, env *testEnv) {
				user := env.seedUser(t, "casey")
				folder := env.seedFolder(t, user.UserID, "work")
				note := env.seedNote(t, folder.FolderID, "list")
				if err := env.stores.Notes.AttachTask(ctx, note.NoteID, uuid.New().String()); err != nil {
					t.Fatalf("Failed to attach: %v", err)
				}
			},
		},
		{
			name: "note lists another note's task",
			kind: "foreign_task_ref",
			seed: func(t *testing.T, env *testEnv) {
				user := env.seedUser(t, "casey")
				folder := env.seedFolder(t, user.UserID, "work")
				home := env.seedNote(t, folder.FolderID, "home")
				away := env.seedNote(t, folder.FolderID, "away")
				task := env.seedTask(t, home.NoteID, "task")
				if err := env.stores.Notes.AttachTask(ctx, away.NoteID, task.TaskID); err != nil {
					t.Fatalf("Failed to attach: %v", err)
				}
			},
		},
		{
			name: "task not in its note's list",
			kind: "unlisted_task",
			seed: func(t *testing.T, env *testEnv) {
				user := env.seedUser(t, "casey")
				folder := env.seedFolder(t, user.UserID, "work")
				note := env.seedNote(t, folder.FolderID, "list")
				stray := &model.Task{
					TaskID: uuid.New().String(), UserID: user.UserID, NoteID: note.NoteID,
					TaskName: "stray", Status: model.TaskStatusPending, Category: model.CategoryEasy, Points: 250,
				}
				if err := env.stores.Tasks.AddTask(ctx, stray); err != nil {
					t.Fatalf("Failed to add task: %v", err)
				}
			},
		},
		{
			name: "task without a note",
			kind: "orphaned_task",
			seed: func(t *testing.T, env *testEnv) {
				user := env.seedUser(t, "casey")
				orphan := &model.Task{
					TaskID: uuid.New().String(), UserID: user.UserID, NoteID: uuid.New().String(),
					TaskName: "orphan", Status: model.TaskStatusPending, Category: model.CategoryEasy, Points: 250,
				}
				if err := env.stores.Tasks.AddTask(ctx, orphan); err != nil {
					t.Fatalf("Failed to add task: %v", err)
				}
			},
		},
		{
			name: "user points at a missing pet",
			kind: "dangling_pet_ref",
			seed: func(t *testing.T, env *testEnv) {
				user := env.seedUser(t, "casey")
				if err := env.stores.Users.SetPet(ctx, user.UserID, uuid.New().String()); err != nil {
					t.Fatalf("Failed to set pet: %v", err)
				}
			},
		},
		{
			name: "user points at another user's pet",
			kind: "mismatched_pet_ref",
			seed: func(t *testing.T, env *testEnv) {
				owner := env.seedUser(t, "casey")
				pet := env.seedPet(t, owner.UserID, "Biscuit")
				thief := env.seedUser(t, "drew")
				if err := env.stores.Users.SetPet(ctx, thief.UserID, pet.PetID); err != nil {
					t.Fatalf("Failed to set pet: %v", err)
				}
			},
		},
		{
			name: "pet missing from its owner's slot",
			kind: "unlinked_pet",
			seed: func(t *testing.T, env *testEnv) {
				user := env.seedUser(t, "casey")
				stray := &model.Pet{PetID: uuid.New().String(), UserID: user.UserID, PetName: "Stray", Level: 1, Version: 1}
				if err := env.stores.Pets.AddPet(ctx, stray); err != nil {
					t.Fatalf("Failed to add pet: %v", err)
				}
			},
		},
		{
			name: "pet without an owner",
			kind: "orphaned_pet",
			seed: func(t *testing.T, env *testEnv) {
				orphan := &model.Pet{PetID: uuid.New().String(), UserID: uuid.New().String(), PetName: "Orphan", Level: 1, Version: 1}
				if err := env.stores.Pets.AddPet(ctx, orphan); err != nil {
					t.Fatalf("Failed to add pet: %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			tt.seed(t, env)

			report, err := env.checker.Check(ctx)
			if err != nil {
				t.Fatalf("Failed to check graph: %v", err)
			}
			if len(report.Issues) != 1 {
				t.Fatalf("Expected exactly one issue, got %d: %+v", len(report.Issues), report.Issues)
			}
			if report.Issues[0].Kind != tt.kind {
				t.Errorf("Expected issue kind %s, got %s", tt.kind, report.Issues[0].Kind)
			}

			repaired, err := env.checker.Repair(ctx)
			if err != nil {
				t.Fatalf("Failed to repair graph: %v", err)
			}
			if repaired.Repaired == 0 {
				t.Error("Expected at least one repair")
			}

			clean, err := env.checker.Check(ctx)
			if err != nil {
				t.Fatalf("Failed to recheck graph: %v", err)
			}
			if !clean.Clean() {
				t.Errorf("Expected a clean graph after repair, found: %+v", clean.Issues)
			}
		})
	}
}

func TestRepairDeletesOrphanSubtree(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// A whole subtree whose root user vanished: the folder is orphaned and
	// its note and task are internally consistent. Repair must take all
	// three down through the cascade, not just the folder record.
	missingUser := uuid.New().String()
	folder := &model.Folder{FolderID: uuid.New().String(), UserID: missingUser, FolderName: "lost"}
	if err := env.stores.Folders.AddFolder(ctx, folder); err != nil {
		t.Fatalf("Failed to add folder: %v", err)
	}
	note := &model.Note{NoteID: uuid.New().String(), UserID: missingUser, FolderID: folder.FolderID, Title: "lost"}
	if err := env.stores.Notes.AddNote(ctx, note); err != nil {
		t.Fatalf("Failed to add note: %v", err)
	}
	if err := env.stores.Folders.AttachNote(ctx, folder.FolderID, note.NoteID); err != nil {
		t.Fatalf("Failed to attach note: %v", err)
	}
	task := &model.Task{
		TaskID: uuid.New().String(), UserID: missingUser, NoteID: note.NoteID,
		TaskName: "lost", Status: model.TaskStatusPending, Category: model.CategoryEasy, Points: 250,
	}
	if err := env.stores.Tasks.AddTask(ctx, task); err != nil {
		t.Fatalf("Failed to add task: %v", err)
	}
	if err := env.stores.Notes.AttachTask(ctx, note.NoteID, task.TaskID); err != nil {
		t.Fatalf("Failed to attach task: %v", err)
	}

	report, err := env.checker.Check(ctx)
	if err != nil {
		t.Fatalf("Failed to check graph: %v", err)
	}
	if len(report.Issues) != 1 || report.Issues[0].Kind != "orphaned_folder" {
		t.Fatalf("Expected a single orphaned_folder issue, got %+v", report.Issues)
	}

	if _, err := env.checker.Repair(ctx); err != nil {
		t.Fatalf("Failed to repair graph: %v", err)
	}

	_, folders, notes, tasks, _ := env.counts(t)
	if folders != 0 || notes != 0 || tasks != 0 {
		t.Errorf("Expected the orphan subtree to be fully removed, got folders=%d notes=%d tasks=%d",
			folders, notes, tasks)
	}
}

func TestRepairMixedCorruptions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// A healthy graph that must survive the repair untouched.
	keeper := env.seedUser(t, "casey")
	env.seedPet(t, keeper.UserID, "Biscuit")
	keeperFolder := env.seedFolder(t, keeper.UserID, "work")
	keeperNote := env.seedNote(t, keeperFolder.FolderID, "list")
	keeperTask := env.seedTask(t, keeperNote.NoteID, "chore")

	// Three unrelated corruptions.
	victim := env.seedUser(t, "drew")
	if err := env.stores.Users.AttachFolder(ctx, victim.UserID, uuid.New().String()); err != nil {
		t.Fatalf("Failed to attach: %v", err)
	}
	stray := &model.Note{NoteID: uuid.New().String(), UserID: keeper.UserID, FolderID: keeperFolder.FolderID, Title: "stray"}
	if err := env.stores.Notes.AddNote(ctx, stray); err != nil {
		t.Fatalf("Failed to add note: %v", err)
	}
	orphanPet := &model.Pet{PetID: uuid.New().String(), UserID: uuid.New().String(), PetName: "Orphan", Level: 1, Version: 1}
	if err := env.stores.Pets.AddPet(ctx, orphanPet); err != nil {
		t.Fatalf("Failed to add pet: %v", err)
	}

	report, err := env.checker.Repair(ctx)
	if err != nil {
		t.Fatalf("Failed to repair graph: %v", err)
	}
	if len(report.Issues) != 3 {
		t.Errorf("Expected 3 issues, got %d: %+v", len(report.Issues), report.Issues)
	}
	if report.Repaired != 3 {
		t.Errorf("Expected 3 repairs, got %d", report.Repaired)
	}

	clean, err := env.checker.Check(ctx)
	if err != nil {
		t.Fatalf("Failed to recheck graph: %v", err)
	}
	if !clean.Clean() {
		t.Errorf("Expected a clean graph after repair, found: %+v", clean.Issues)
	}

	// The healthy graph is intact, including the adopted stray note.
	if _, err := env.stores.Tasks.FindTask(ctx, keeperTask.TaskID); err != nil {
		t.Errorf("Expected keeper task to survive, got %v", err)
	}
	freshFolder, err := env.stores.Folders.FindFolder(ctx, keeperFolder.FolderID)
	if err != nil {
		t.Fatalf("Failed to reload folder: %v", err)
	}
	if len(freshFolder.NoteIDs) != 2 {
		t.Errorf("Expected folder to list the original and adopted notes, got %v", freshFolder.NoteIDs)
	}
	if _, err := env.stores.Pets.FindPet(ctx, orphanPet.PetID); err == nil {
		t.Error("Expected orphan pet to be removed")
	}
}
