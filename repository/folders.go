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

var _ FolderStore = (*FolderRepo)(nil)

type FolderRepo struct {
	MongoCollection *mongo.Collection
}

func GetFolderRepo(client *mongo.Client) *FolderRepo {
	dbName := utils.GetEnvAsString("MONGO_DB", "petnotes")
	collectionName := utils.GetEnvAsString("FOLDERS_COLLECTION", "folders")
	return &FolderRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func (r *FolderRepo) AddFolder(ctx context.Context, folder *model.Folder) error {
	timer := utils.TrackDBOperation("insert", "folders")
	defer timer.ObserveDuration()
	utils.CountSave()

	if folder.UserID == "" {
		utils.TrackError("database", "missing_user_id")
		return errors.New("user ID is required")
	}

	folder.CreatedAt = time.Now()
	folder.UpdatedAt = time.Now()

	_, err := r.MongoCollection.InsertOne(ctx, folder)
	if err != nil {
		utils.TrackError("database", "folder_creation_failed")
		return err
	}

	return nil
}

func (r *FolderRepo) FindFolder(ctx context.Context, folderID string) (*model.Folder, error) {
	timer := utils.TrackDBOperation("find", "folders")
	defer timer.ObserveDuration()
	utils.CountFind()

	var folder model.Folder
	err := r.MongoCollection.FindOne(ctx, bson.M{"_id": folderID}).Decode(&folder)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		utils.TrackError("database", "folder_lookup_error")
		return nil, err
	}
	return &folder, nil
}

func (r *FolderRepo) UpdateFolderName(ctx context.Context, folderID string, name string) error {
	timer := utils.TrackDBOperation("update", "folders")
	defer timer.ObserveDuration()
	utils.CountSave()

	filter := bson.M{"_id": folderID}
	update := bson.M{
		"$set": bson.M{
			"folder_name": name,
			"updated_at":  time.Now(),
		},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "folder_update_failed")
		return err
	}

	if result.MatchedCount == 0 {
		utils.TrackError("database", "folder_not_found")
		return ErrNotFound
	}

	return nil
}

func (r *FolderRepo) DeleteFolderByID(ctx context.Context, folderID string) error {
	timer := utils.TrackDBOperation("delete", "folders")
	defer timer.ObserveDuration()
	utils.CountDelete()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{"_id": folderID})
	if err != nil {
		utils.TrackError("database", "folder_deletion_failed")
		return err
	}

	if result.DeletedCount == 0 {
		utils.TrackError("database", "folder_not_found")
		return ErrNotFound
	}

	return nil
}

// GetUserFolders retrieves all folders owned by a user, newest first.
func (r *FolderRepo) GetUserFolders(ctx context.Context, userID string) ([]*model.Folder, error) {
	timer := utils.TrackDBOperation("find", "folders")
	defer timer.ObserveDuration()
	utils.CountFind()

	var folders []*model.Folder
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.MongoCollection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		utils.TrackError("database", "folder_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &folders); err != nil {
		utils.TrackError("database", "folder_decode_failed")
		return nil, err
	}
	return folders, nil
}

// AttachNote records note membership. Adding the same note twice is a
// no-op, the list stays duplicate free.
func (r *FolderRepo) AttachNote(ctx context.Context, folderID string, noteID string) error {
	timer := utils.TrackDBOperation("update", "folders")
	defer timer.ObserveDuration()
	utils.CountPush()

	filter := bson.M{"_id": folderID}
	update := bson.M{"$addToSet": bson.M{"note_ids": noteID}}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "note_attach_failed")
		return err
	}

	if result.MatchedCount == 0 {
		utils.TrackError("database", "folder_not_found")
		return ErrNotFound
	}

	return nil
}

// DetachNote drops note membership. Pulling an id that is not in the list
// is a no-op.
func (r *FolderRepo) DetachNote(ctx context.Context, folderID string, noteID string) error {
	timer := utils.TrackDBOperation("update", "folders")
	defer timer.ObserveDuration()
	utils.CountPull()

	filter := bson.M{"_id": folderID}
	update := bson.M{"$pull": bson.M{"note_ids": noteID}}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "note_detach_failed")
		return err
	}

	if result.MatchedCount == 0 {
		utils.TrackError("database", "folder_not_found")
		return ErrNotFound
	}

	return nil
}

func (r *FolderRepo) GetAllFolders(ctx context.Context) ([]*model.Folder, error) {
	timer := utils.TrackDBOperation("find", "folders")
	defer timer.ObserveDuration()
	utils.CountFind()

	var folders []*model.Folder
	cursor, err := r.MongoCollection.Find(ctx, bson.M{})
	if err != nil {
		utils.TrackError("database", "folder_scan_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &folders); err != nil {
		utils.TrackError("database", "folder_decode_failed")
		return nil, err
	}
	return folders, nil
}

func (r *FolderRepo) CountFolders(ctx context.Context) (int64, error) {
	return r.MongoCollection.CountDocuments(ctx, bson.M{})
}
