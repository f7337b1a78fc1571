package repository

import (
	"context"
	"errors"
	"time"

	"petnotes/model"
	"petnotes/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ NoteStore = (*NoteRepo)(nil)

type NoteRepo struct {
	MongoCollection *mongo.Collection
}

func GetNoteRepo(client *mongo.Client) *NoteRepo {
	dbName := utils.GetEnvAsString("MONGO_DB", "petnotes")
	collectionName := utils.GetEnvAsString("NOTES_COLLECTION", "notes")
	return &NoteRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func (r *NoteRepo) AddNote(ctx context.Context, note *model.Note) error {
	timer := utils.TrackDBOperation("insert", "notes")
	defer timer.ObserveDuration()
	utils.CountSave()

	if note.UserID == "" {
		utils.TrackError("database", "missing_user_id")
		return errors.New("user ID is required")
	}
	if note.FolderID == "" {
		utils.TrackError("database", "missing_folder_id")
		return errors.New("folder ID is required")
	}

	note.CreatedAt = time.Now()
	note.UpdatedAt = time.Now()

	_, err := r.MongoCollection.InsertOne(ctx, note)
	if err != nil {
		utils.TrackError("database", "note_creation_failed")
		return err
	}

	return nil
}

func (r *NoteRepo) FindNote(ctx context.Context, noteID string) (*model.Note, error) {
	timer := utils.TrackDBOperation("find", "notes")
	defer timer.ObserveDuration()
	utils.CountFind()

	var note model.Note
	err := r.MongoCollection.FindOne(ctx, bson.M{"_id": noteID}).Decode(&note)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		utils.TrackError("database", "note_lookup_error")
		return nil, err
	}
	return &note, nil
}

// UpdateNote rewrites the editable fields of a note. Ownership and task
// membership are managed through the attach and detach calls instead.
func (r *NoteRepo) UpdateNote(ctx context.Context, noteID string, updates *model.Note) error {
	timer := utils.TrackDBOperation("update", "notes")
	defer timer.ObserveDuration()
	utils.CountSave()

	filter := bson.M{"_id": noteID}
	update := bson.M{
		"$set": bson.M{
			"title":      updates.Title,
			"content":    updates.Content,
			"updated_at": time.Now(),
		},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "note_update_failed")
		return err
	}

	if result.MatchedCount == 0 {
		utils.TrackError("database", "note_not_found")
		return ErrNotFound
	}

	return nil
}

func (r *NoteRepo) DeleteNoteByID(ctx context.Context, noteID string) error {
	timer := utils.TrackDBOperation("delete", "notes")
	defer timer.ObserveDuration()
	utils.CountDelete()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{"_id": noteID})
	if err != nil {
		utils.TrackError("database", "note_deletion_failed")
		return err
	}

	if result.DeletedCount == 0 {
		utils.TrackError("database", "note_not_found")
		return ErrNotFound
	}

	return nil
}

// GetFolderNotes retrieves all notes in a folder, newest first.
func (r *NoteRepo) GetFolderNotes(ctx context.Context, folderID string) ([]*model.Note, error) {
	timer := utils.TrackDBOperation("find", "notes")
	defer timer.ObserveDuration()
	utils.CountFind()

	var notes []*model.Note
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.MongoCollection.Find(ctx, bson.M{"folder_id": folderID}, opts)
	if err != nil {
		utils.TrackError("database", "note_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &notes); err != nil {
		utils.TrackError("database", "note_decode_failed")
		return nil, err
	}
	return notes, nil
}

// GetUserNotes retrieves all notes for a user across folders, newest first.
func (r *NoteRepo) GetUserNotes(ctx context.Context, userID string) ([]*model.Note, error) {
	timer := utils.TrackDBOperation("find", "notes")
	defer timer.ObserveDuration()
	utils.CountFind()

	var notes []*model.Note
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.MongoCollection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		utils.TrackError("database", "note_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &notes); err != nil {
		utils.TrackError("database", "note_decode_failed")
		return nil, err
	}
	return notes, nil
}

// AttachTask records task membership. Adding the same task twice is a
// no-op, the list stays duplicate free.
func (r *NoteRepo) AttachTask(ctx context.Context, noteID string, taskID string) error {
	timer := utils.TrackDBOperation("update", "notes")
	defer timer.ObserveDuration()
	utils.CountPush()

	filter := bson.M{"_id": noteID}
	update := bson.M{"$addToSet": bson.M{"task_ids": taskID}}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "task_attach_failed")
		return err
	}

	if result.MatchedCount == 0 {
		utils.TrackError("database", "note_not_found")
		return ErrNotFound
	}

	return nil
}

// DetachTask drops task membership. Pulling an id that is not in the list
// is a no-op.
func (r *NoteRepo) DetachTask(ctx context.Context, noteID string, taskID string) error {
	timer := utils.TrackDBOperation("update", "notes")
	defer timer.ObserveDuration()
	utils.CountPull()

	filter := bson.M{"_id": noteID}
	update := bson.M{"$pull": bson.M{"task_ids": taskID}}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "task_detach_failed")
		return err
	}

	if result.MatchedCount == 0 {
		utils.TrackError("database", "note_not_found")
		return ErrNotFound
	}

	return nil
}

func (r *NoteRepo) GetAllNotes(ctx context.Context) ([]*model.Note, error) {
	timer := utils.TrackDBOperation("find", "notes")
	defer timer.ObserveDuration()
	utils.CountFind()

	var notes []*model.Note
	cursor, err := r.MongoCollection.Find(ctx, bson.M{})
	if err != nil {
		utils.TrackError("database", "note_scan_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &notes); err != nil {
		utils.TrackError("database", "note_decode_failed")
		return nil, err
	}
	return notes, nil
}

func (r *NoteRepo) CountNotes(ctx context.Context) (int64, error) {
	return r.MongoCollection.CountDocuments(ctx, bson.M{})
}
