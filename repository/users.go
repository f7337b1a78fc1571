package repository

import (
	"context"
	"errors"

	"petnotes/model"
	"petnotes/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var _ UserStore = (*UserRepo)(nil)

type UserRepo struct {
	MongoCollection *mongo.Collection
}

func GetUserRepo(client *mongo.Client) *UserRepo {
	dbName := utils.GetEnvAsString("MONGO_DB", "petnotes")
	collectionName := utils.GetEnvAsString("USERS_COLLECTION", "users")
	return &UserRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func (r *UserRepo) AddUser(ctx context.Context, user *model.User) error {
	timer := utils.TrackDBOperation("insert", "users")
	defer timer.ObserveDuration()

	if user.Username == "" || user.Email == "" {
		utils.TrackError("database", "invalid_user_data")
		return errors.New("username and email required")
	}

	_, err := r.MongoCollection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.TrackError("database", "duplicate_user")
			return ErrConflict
		}
		utils.TrackError("database", "user_creation_failed")
		return err
	}

	utils.CountSave()
	return nil
}

func (r *UserRepo) FindUser(ctx context.Context, userID string) (*model.User, error) {
	timer := utils.TrackDBOperation("find", "users")
	defer timer.ObserveDuration()
	utils.CountFind()

	var user model.User
	err := r.MongoCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		utils.TrackError("database", "user_lookup_error")
		return nil, err
	}

	return &user, nil
}

func (r *UserRepo) DeleteUserByID(ctx context.Context, userID string) error {
	timer := utils.TrackDBOperation("delete", "users")
	defer timer.ObserveDuration()
	utils.CountDelete()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		utils.TrackError("database", "user_deletion_failed")
		return err
	}

	if result.DeletedCount == 0 {
		utils.TrackError("database", "user_not_found")
		return ErrNotFound
	}

	return nil
}

// AttachFolder records folder ownership. Adding the same folder twice is a
// no-op, the list stays duplicate free.
func (r *UserRepo) AttachFolder(ctx context.Context, userID string, folderID string) error {
	timer := utils.TrackDBOperation("update", "users")
	defer timer.ObserveDuration()
	utils.CountPush()

	filter := bson.M{"_id": userID}
	update := bson.M{"$addToSet": bson.M{"folder_ids": folderID}}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "folder_attach_failed")
		return err
	}

	if result.MatchedCount == 0 {
		utils.TrackError("database", "user_not_found")
		return ErrNotFound
	}

	return nil
}

// DetachFolder drops folder ownership. Pulling an id that is not in the
// list is a no-op.
func (r *UserRepo) DetachFolder(ctx context.Context, userID string, folderID string) error {
	timer := utils.TrackDBOperation("update", "users")
	defer timer.ObserveDuration()
	utils.CountPull()

	filter := bson.M{"_id": userID}
	update := bson.M{"$pull": bson.M{"folder_ids": folderID}}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "folder_detach_failed")
		return err
	}

	if result.MatchedCount == 0 {
		utils.TrackError("database", "user_not_found")
		return ErrNotFound
	}

	return nil
}

// SetPet claims the single pet slot. Setting the same pet again succeeds,
// a different pet in the slot returns ErrConflict.
func (r *UserRepo) SetPet(ctx context.Context, userID string, petID string) error {
	timer := utils.TrackDBOperation("update", "users")
	defer timer.ObserveDuration()
	utils.CountSave()

	filter := bson.M{
		"_id": userID,
		"$or": []bson.M{
			{"pet_id": ""},
			{"pet_id": petID},
			{"pet_id": bson.M{"$exists": false}},
		},
	}
	update := bson.M{"$set": bson.M{"pet_id": petID}}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "pet_link_failed")
		return err
	}

	if result.MatchedCount == 0 {
		// Either the user is gone or the slot already holds another pet.
		err := r.MongoCollection.FindOne(ctx, bson.M{"_id": userID}).Err()
		if err == mongo.ErrNoDocuments {
			utils.TrackError("database", "user_not_found")
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		utils.TrackError("database", "pet_slot_taken")
		return ErrConflict
	}

	return nil
}

func (r *UserRepo) ClearPet(ctx context.Context, userID string) error {
	timer := utils.TrackDBOperation("update", "users")
	defer timer.ObserveDuration()
	utils.CountSave()

	filter := bson.M{"_id": userID}
	update := bson.M{"$set": bson.M{"pet_id": ""}}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "pet_unlink_failed")
		return err
	}

	if result.MatchedCount == 0 {
		utils.TrackError("database", "user_not_found")
		return ErrNotFound
	}

	return nil
}

func (r *UserRepo) GetAllUsers(ctx context.Context) ([]*model.User, error) {
	timer := utils.TrackDBOperation("find", "users")
	defer timer.ObserveDuration()
	utils.CountFind()

	var users []*model.User
	cursor, err := r.MongoCollection.Find(ctx, bson.M{})
	if err != nil {
		utils.TrackError("database", "user_scan_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &users); err != nil {
		utils.TrackError("database", "user_decode_failed")
		return nil, err
	}
	return users, nil
}

func (r *UserRepo) CountUsers(ctx context.Context) (int64, error) {
	return r.MongoCollection.CountDocuments(ctx, bson.M{})
}
