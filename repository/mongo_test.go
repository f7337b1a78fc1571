package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"petnotes/model"
	"petnotes/utils"
)

func newMongoTestClient(t *testing.T) *mongo.Client {
	t.Helper()

	uri := utils.GetEnvAsString("MONGO_URI", "mongodb://localhost:27017")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Skip("mongodb not reachable:", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		t.Skip("mongodb not reachable:", err)
	}

	return client
}

func TestMongoGraphOperations(t *testing.T) {
	client := newMongoTestClient(t)
	defer client.Disconnect(context.Background())

	ctx := context.Background()
	db := client.Database("petnotes_test")

	// Start from a clean slate so the unique indexes behave.
	if err := db.Drop(ctx); err != nil {
		t.Fatal("drop test database failed", err)
	}
	if err := SetupIndexes(db); err != nil {
		t.Fatal("setup indexes failed", err)
	}
	defer db.Drop(context.Background())

	userRepo := &UserRepo{MongoCollection: db.Collection("users")}
	folderRepo := &FolderRepo{MongoCollection: db.Collection("folders")}
	taskRepo := &TaskRepo{MongoCollection: db.Collection("tasks")}
	petRepo := &PetRepo{MongoCollection: db.Collection("pets")}

	userID := uuid.New().String()

	t.Run("UserLifecycle", func(t *testing.T) {
		user := &model.User{
			UserID:    userID,
			Username:  "grace",
			Email:     "grace@example.com",
			CreatedAt: time.Now(),
		}
		if err := userRepo.AddUser(ctx, user); err != nil {
			t.Fatal("add user failed", err)
		}

		dup := &model.User{
			UserID:    uuid.New().String(),
			Username:  "grace",
			Email:     "elsewhere@example.com",
			CreatedAt: time.Now(),
		}
		if err := userRepo.AddUser(ctx, dup); !errors.Is(err, ErrConflict) {
			t.Fatalf("got %v, want ErrConflict", err)
		}

		found, err := userRepo.FindUser(ctx, userID)
		if err != nil {
			t.Fatal("find user failed", err)
		}
		if found.Email != "grace@example.com" {
			t.Fatalf("got email %q", found.Email)
		}
	})

	t.Run("FolderAttachDetach", func(t *testing.T) {
		folder := &model.Folder{
			FolderID:   uuid.New().String(),
			UserID:     userID,
			FolderName: "inbox",
		}
		if err := folderRepo.AddFolder(ctx, folder); err != nil {
			t.Fatal("add folder failed", err)
		}

		if err := userRepo.AttachFolder(ctx, userID, folder.FolderID); err != nil {
			t.Fatal("attach folder failed", err)
		}
		if err := userRepo.AttachFolder(ctx, userID, folder.FolderID); err != nil {
			t.Fatal("repeat attach failed", err)
		}

		found, err := userRepo.FindUser(ctx, userID)
		if err != nil {
			t.Fatal("find user failed", err)
		}
		if len(found.FolderIDs) != 1 {
			t.Fatalf("got %d folder ids, want 1", len(found.FolderIDs))
		}

		noteID := uuid.New().String()
		if err := folderRepo.AttachNote(ctx, folder.FolderID, noteID); err != nil {
			t.Fatal("attach note failed", err)
		}
		if err := folderRepo.DetachNote(ctx, folder.FolderID, noteID); err != nil {
			t.Fatal("detach note failed", err)
		}

		got, err := folderRepo.FindFolder(ctx, folder.FolderID)
		if err != nil {
			t.Fatal("find folder failed", err)
		}
		if len(got.NoteIDs) != 0 {
			t.Fatalf("got %d note ids, want 0", len(got.NoteIDs))
		}
	})

	t.Run("OverdueSweep", func(t *testing.T) {
		noteID := uuid.New().String()
		now := time.Now()

		pastDue := &model.Task{
			TaskID:   uuid.New().String(),
			UserID:   userID,
			NoteID:   noteID,
			TaskName: "late",
			Status:   model.TaskStatusPending,
			Category: model.CategoryEasy,
			Points:   250,
			DueDate:  now.Add(-time.Hour),
		}
		noDue := &model.Task{
			TaskID:   uuid.New().String(),
			UserID:   userID,
			NoteID:   noteID,
			TaskName: "open ended",
			Status:   model.TaskStatusPending,
			Category: model.CategoryEasy,
			Points:   250,
		}
		for _, task := range []*model.Task{pastDue, noDue} {
			if err := taskRepo.AddTask(ctx, task); err != nil {
				t.Fatal("add task failed", err)
			}
		}

		flipped, err := taskRepo.MarkOverdue(ctx, time.Now())
		if err != nil {
			t.Fatal("mark overdue failed", err)
		}
		if flipped != 1 {
			t.Fatalf("flipped %d tasks, want 1", flipped)
		}

		got, err := taskRepo.FindTask(ctx, noDue.TaskID)
		if err != nil {
			t.Fatal("find task failed", err)
		}
		if got.Status != model.TaskStatusPending {
			t.Fatalf("task without due date flipped to %s", got.Status)
		}
	})

	t.Run("PetProgressVersioning", func(t *testing.T) {
		pet := &model.Pet{
			PetID:   uuid.New().String(),
			UserID:  userID,
			PetName: "Scout",
		}
		if err := petRepo.AddPet(ctx, pet); err != nil {
			t.Fatal("add pet failed", err)
		}

		rival := &model.Pet{
			PetID:   uuid.New().String(),
			UserID:  userID,
			PetName: "Rival",
		}
		if err := petRepo.AddPet(ctx, rival); !errors.Is(err, ErrConflict) {
			t.Fatalf("got %v, want ErrConflict", err)
		}

		stored, err := petRepo.FindPet(ctx, pet.PetID)
		if err != nil {
			t.Fatal("find pet failed", err)
		}

		if err := petRepo.UpdateProgress(ctx, pet.PetID, 2, 30, stored.Version); err != nil {
			t.Fatal("update progress failed", err)
		}
		if err := petRepo.UpdateProgress(ctx, pet.PetID, 9, 0, stored.Version); !errors.Is(err, ErrConflict) {
			t.Fatalf("got %v, want ErrConflict", err)
		}

		updated, err := petRepo.FindPet(ctx, pet.PetID)
		if err != nil {
			t.Fatal("find pet failed", err)
		}
		if updated.Level != 2 || updated.Points != 30 {
			t.Fatalf("got level %d points %d, want 2 and 30", updated.Level, updated.Points)
		}
		if updated.Version != stored.Version+1 {
			t.Fatalf("got version %d, want %d", updated.Version, stored.Version+1)
		}
	})
}
