package repository

import (
	"context"
	"errors"
	"time"

	"petnotes/model"
	"petnotes/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var _ PetStore = (*PetRepo)(nil)

type PetRepo struct {
	MongoCollection *mongo.Collection
}

func GetPetRepo(client *mongo.Client) *PetRepo {
	dbName := utils.GetEnvAsString("MONGO_DB", "petnotes")
	collectionName := utils.GetEnvAsString("PETS_COLLECTION", "pets")
	return &PetRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func (r *PetRepo) AddPet(ctx context.Context, pet *model.Pet) error {
	timer := utils.TrackDBOperation("insert", "pets")
	defer timer.ObserveDuration()
	utils.CountSave()

	if pet.UserID == "" {
		utils.TrackError("database", "missing_user_id")
		return errors.New("user ID is required")
	}

	if pet.Level < 1 {
		pet.Level = 1
	}
	if pet.Version < 1 {
		pet.Version = 1
	}
	pet.CreatedAt = time.Now()
	pet.UpdatedAt = time.Now()

	_, err := r.MongoCollection.InsertOne(ctx, pet)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.TrackError("database", "duplicate_pet")
			return ErrConflict
		}
		utils.TrackError("database", "pet_creation_failed")
		return err
	}

	return nil
}

func (r *PetRepo) FindPet(ctx context.Context, petID string) (*model.Pet, error) {
	timer := utils.TrackDBOperation("find", "pets")
	defer timer.ObserveDuration()
	utils.CountFind()

	var pet model.Pet
	err := r.MongoCollection.FindOne(ctx, bson.M{"_id": petID}).Decode(&pet)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		utils.TrackError("database", "pet_lookup_error")
		return nil, err
	}
	return &pet, nil
}

func (r *PetRepo) FindPetByUser(ctx context.Context, userID string) (*model.Pet, error) {
	timer := utils.TrackDBOperation("find", "pets")
	defer timer.ObserveDuration()
	utils.CountFind()

	var pet model.Pet
	err := r.MongoCollection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&pet)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		utils.TrackError("database", "pet_lookup_error")
		return nil, err
	}
	return &pet, nil
}

func (r *PetRepo) UpdatePetName(ctx context.Context, petID string, name string) error {
	timer := utils.TrackDBOperation("update", "pets")
	defer timer.ObserveDuration()
	utils.CountSave()

	filter := bson.M{"_id": petID}
	update := bson.M{
		"$set": bson.M{
			"pet_name":   name,
			"updated_at": time.Now(),
		},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "pet_update_failed")
		return err
	}

	if result.MatchedCount == 0 {
		utils.TrackError("database", "pet_not_found")
		return ErrNotFound
	}

	return nil
}

// UpdateProgress writes a new level and point balance, guarded by the
// record version. A stale version returns ErrConflict so the caller can
// re-read and retry.
func (r *PetRepo) UpdateProgress(ctx context.Context, petID string, level int, points int, expectedVersion int64) error {
	timer := utils.TrackDBOperation("update", "pets")
	defer timer.ObserveDuration()
	utils.CountSave()

	filter := bson.M{"_id": petID, "version": expectedVersion}
	update := bson.M{
		"$set": bson.M{
			"level":      level,
			"points":     points,
			"updated_at": time.Now(),
		},
		"$inc": bson.M{"version": 1},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "pet_progress_failed")
		return err
	}

	if result.MatchedCount == 0 {
		// Distinguish a missing pet from a lost version race.
		err := r.MongoCollection.FindOne(ctx, bson.M{"_id": petID}).Err()
		if err == mongo.ErrNoDocuments {
			utils.TrackError("database", "pet_not_found")
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		utils.TrackError("database", "pet_version_stale")
		return ErrConflict
	}

	return nil
}

func (r *PetRepo) DeletePetByID(ctx context.Context, petID string) error {
	timer := utils.TrackDBOperation("delete", "pets")
	defer timer.ObserveDuration()
	utils.CountDelete()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{"_id": petID})
	if err != nil {
		utils.TrackError("database", "pet_deletion_failed")
		return err
	}

	if result.DeletedCount == 0 {
		utils.TrackError("database", "pet_not_found")
		return ErrNotFound
	}

	return nil
}

func (r *PetRepo) GetAllPets(ctx context.Context) ([]*model.Pet, error) {
	timer := utils.TrackDBOperation("find", "pets")
	defer timer.ObserveDuration()
	utils.CountFind()

	var pets []*model.Pet
	cursor, err := r.MongoCollection.Find(ctx, bson.M{})
	if err != nil {
		utils.TrackError("database", "pet_scan_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &pets); err != nil {
		utils.TrackError("database", "pet_decode_failed")
		return nil, err
	}
	return pets, nil
}

func (r *PetRepo) CountPets(ctx context.Context) (int64, error) {
	return r.MongoCollection.CountDocuments(ctx, bson.M{})
}

// LevelCounts groups the pet population by level for the stats command.
func (r *PetRepo) LevelCounts(ctx context.Context) (map[int]int64, error) {
	timer := utils.TrackDBOperation("aggregate", "pets")
	defer timer.ObserveDuration()
	utils.CountFind()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$level",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.MongoCollection.Aggregate(ctx, pipeline)
	if err != nil {
		utils.TrackError("database", "pet_level_counts_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Level int   `bson:"_id"`
		Count int64 `bson:"count"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		utils.TrackError("database", "pet_decode_failed")
		return nil, err
	}

	counts := make(map[int]int64, len(rows))
	for _, row := range rows {
		counts[row.Level] = row.Count
	}
	return counts, nil
}
