package repository

import (
	"context"
	"errors"
	"time"

	"petnotes/model"
)

var (
	// ErrNotFound is returned when the record a call targets does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a conditional write loses, either a
	// version check or a set-once field that already holds another value.
	ErrConflict = errors.New("conflicting write")
)

// UserStore persists users and the ownership lists hanging off them.
// Every call is atomic for the single record it touches.
type UserStore interface {
	AddUser(ctx context.Context, user *model.User) error
	FindUser(ctx context.Context, userID string) (*model.User, error)
	DeleteUserByID(ctx context.Context, userID string) error
	AttachFolder(ctx context.Context, userID string, folderID string) error
	DetachFolder(ctx context.Context, userID string, folderID string) error
	SetPet(ctx context.Context, userID string, petID string) error
	ClearPet(ctx context.Context, userID string) error
	GetAllUsers(ctx context.Context) ([]*model.User, error)
	CountUsers(ctx context.Context) (int64, error)
}

type FolderStore interface {
	AddFolder(ctx context.Context, folder *model.Folder) error
	FindFolder(ctx context.Context, folderID string) (*model.Folder, error)
	UpdateFolderName(ctx context.Context, folderID string, name string) error
	DeleteFolderByID(ctx context.Context, folderID string) error
	GetUserFolders(ctx context.Context, userID string) ([]*model.Folder, error)
	AttachNote(ctx context.Context, folderID string, noteID string) error
	DetachNote(ctx context.Context, folderID string, noteID string) error
	GetAllFolders(ctx context.Context) ([]*model.Folder, error)
	CountFolders(ctx context.Context) (int64, error)
}

type NoteStore interface {
	AddNote(ctx context.Context, note *model.Note) error
	FindNote(ctx context.Context, noteID string) (*model.Note, error)
	UpdateNote(ctx context.Context, noteID string, updates *model.Note) error
	DeleteNoteByID(ctx context.Context, noteID string) error
	GetFolderNotes(ctx context.Context, folderID string) ([]*model.Note, error)
	GetUserNotes(ctx context.Context, userID string) ([]*model.Note, error)
	AttachTask(ctx context.Context, noteID string, taskID string) error
	DetachTask(ctx context.Context, noteID string, taskID string) error
	GetAllNotes(ctx context.Context) ([]*model.Note, error)
	CountNotes(ctx context.Context) (int64, error)
}

type TaskStore interface {
	AddTask(ctx context.Context, task *model.Task) error
	FindTask(ctx context.Context, taskID string) (*model.Task, error)
	UpdateTask(ctx context.Context, taskID string, updates *model.Task) error
	DeleteTaskByID(ctx context.Context, taskID string) error
	GetNoteTasks(ctx context.Context, noteID string) ([]*model.Task, error)
	GetUserTasks(ctx context.Context, userID string) ([]*model.Task, error)
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
	GetAllTasks(ctx context.Context) ([]*model.Task, error)
	CountTasks(ctx context.Context) (int64, error)
	CountTasksByStatus(ctx context.Context, status model.TaskStatus) (int64, error)
}

// PetStore persists pets. UpdateProgress is a compare-and-swap on the
// record version so concurrent rewards never overwrite each other.
type PetStore interface {
	AddPet(ctx context.Context, pet *model.Pet) error
	FindPet(ctx context.Context, petID string) (*model.Pet, error)
	FindPetByUser(ctx context.Context, userID string) (*model.Pet, error)
	UpdatePetName(ctx context.Context, petID string, name string) error
	UpdateProgress(ctx context.Context, petID string, level int, points int, expectedVersion int64) error
	DeletePetByID(ctx context.Context, petID string) error
	GetAllPets(ctx context.Context) ([]*model.Pet, error)
	CountPets(ctx context.Context) (int64, error)
	LevelCounts(ctx context.Context) (map[int]int64, error)
}

// Stores bundles one store per entity so the coordinator and services can
// be wired against any backend.
type Stores struct {
	Users   UserStore
	Folders FolderStore
	Notes   NoteStore
	Tasks   TaskStore
	Pets    PetStore
}
