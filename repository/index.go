package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"petnotes/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func SetupIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	usersCollection := db.Collection(utils.GetEnvAsString("USERS_COLLECTION", "users"))
	foldersCollection := db.Collection(utils.GetEnvAsString("FOLDERS_COLLECTION", "folders"))
	notesCollection := db.Collection(utils.GetEnvAsString("NOTES_COLLECTION", "notes"))
	tasksCollection := db.Collection(utils.GetEnvAsString("TASKS_COLLECTION", "tasks"))
	petsCollection := db.Collection(utils.GetEnvAsString("PETS_COLLECTION", "pets"))

	userIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "username", Value: 1}},
			Options: options.Index().
				SetName("unique_username").
				SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().
				SetName("unique_email").
				SetUnique(true),
		},
	}

	folderIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().
				SetName("user_folders_date").
				SetUnique(false),
		},
	}

	noteIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().
				SetName("user_notes_date").
				SetUnique(false),
		},
		{
			Keys: bson.D{{Key: "folder_id", Value: 1}},
			Options: options.Index().
				SetName("folder_id_index"),
		},
	}

	taskIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().
				SetName("user_tasks_date").
				SetUnique(false),
		},
		{
			Keys: bson.D{{Key: "note_id", Value: 1}},
			Options: options.Index().
				SetName("note_id_index"),
		},
		// Serves the overdue sweep filter.
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "due_date", Value: 1},
			},
			Options: options.Index().
				SetName("status_due_date"),
		},
	}

	petIndexes := []mongo.IndexModel{
		// One pet per user, enforced at the storage layer.
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().
				SetName("unique_pet_owner").
				SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "level", Value: 1}},
			Options: options.Index().
				SetName("pet_level_index"),
		},
	}

	if _, err := usersCollection.Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("failed to create users indexes: %w", err)
	}
	if _, err := foldersCollection.Indexes().CreateMany(ctx, folderIndexes); err != nil {
		return fmt.Errorf("failed to create folders indexes: %w", err)
	}
	if _, err := notesCollection.Indexes().CreateMany(ctx, noteIndexes); err != nil {
		return fmt.Errorf("failed to create notes indexes: %w", err)
	}
	if _, err := tasksCollection.Indexes().CreateMany(ctx, taskIndexes); err != nil {
		return fmt.Errorf("failed to create tasks indexes: %w", err)
	}
	if _, err := petsCollection.Indexes().CreateMany(ctx, petIndexes); err != nil {
		return fmt.Errorf("failed to create pets indexes: %w", err)
	}

	log.Println("Successfully created all indexes")
	return nil
}
