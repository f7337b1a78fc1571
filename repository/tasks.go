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

var _ TaskStore = (*TaskRepo)(nil)

type TaskRepo struct {
	MongoCollection *mongo.Collection
}

func GetTaskRepo(client *mongo.Client) *TaskRepo {
	dbName := utils.GetEnvAsString("MONGO_DB", "petnotes")
	collectionName := utils.GetEnvAsString("TASKS_COLLECTION", "tasks")
	return &TaskRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func (r *TaskRepo) AddTask(ctx context.Context, task *model.Task) error {
	timer := utils.TrackDBOperation("insert", "tasks")
	defer timer.ObserveDuration()
	utils.CountSave()

	if task.UserID == "" {
		utils.TrackError("database", "missing_user_id")
		return errors.New("user ID is required")
	}
	if task.NoteID == "" {
		utils.TrackError("database", "missing_note_id")
		return errors.New("note ID is required")
	}

	task.CreatedAt = time.Now()
	task.UpdatedAt = time.Now()

	_, err := r.MongoCollection.InsertOne(ctx, task)
	if err != nil {
		utils.TrackError("database", "task_creation_failed")
		return err
	}

	return nil
}

func (r *TaskRepo) FindTask(ctx context.Context, taskID string) (*model.Task, error) {
	timer := utils.TrackDBOperation("find", "tasks")
	defer timer.ObserveDuration()
	utils.CountFind()

	var task model.Task
	err := r.MongoCollection.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		utils.TrackError("database", "task_lookup_error")
		return nil, err
	}
	return &task, nil
}

// UpdateTask rewrites the mutable fields of a task from the given snapshot.
// Zero dates clear the stored field so an unset due date never reads back
// as the year one.
func (r *TaskRepo) UpdateTask(ctx context.Context, taskID string, updates *model.Task) error {
	timer := utils.TrackDBOperation("update", "tasks")
	defer timer.ObserveDuration()
	utils.CountSave()

	set := bson.M{
		"task_name":   updates.TaskName,
		"description": updates.Description,
		"status":      updates.Status,
		"category":    updates.Category,
		"points":      updates.Points,
		"updated_at":  time.Now(),
	}
	unset := bson.M{}

	if updates.DueDate.IsZero() {
		unset["due_date"] = ""
	} else {
		set["due_date"] = updates.DueDate
	}
	if updates.CompletedDate.IsZero() {
		unset["completed_date"] = ""
	} else {
		set["completed_date"] = updates.CompletedDate
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	result, err := r.MongoCollection.UpdateOne(ctx, bson.M{"_id": taskID}, update)
	if err != nil {
		utils.TrackError("database", "task_update_failed")
		return err
	}

	if result.MatchedCount == 0 {
		utils.TrackError("database", "task_not_found")
		return ErrNotFound
	}

	return nil
}

func (r *TaskRepo) DeleteTaskByID(ctx context.Context, taskID string) error {
	timer := utils.TrackDBOperation("delete", "tasks")
	defer timer.ObserveDuration()
	utils.CountDelete()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{"_id": taskID})
	if err != nil {
		utils.TrackError("database", "task_deletion_failed")
		return err
	}

	if result.DeletedCount == 0 {
		utils.TrackError("database", "task_not_found")
		return ErrNotFound
	}

	return nil
}

// GetNoteTasks retrieves all tasks on a note in creation order.
func (r *TaskRepo) GetNoteTasks(ctx context.Context, noteID string) ([]*model.Task, error) {
	timer := utils.TrackDBOperation("find", "tasks")
	defer timer.ObserveDuration()
	utils.CountFind()

	var tasks []*model.Task
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.MongoCollection.Find(ctx, bson.M{"note_id": noteID}, opts)
	if err != nil {
		utils.TrackError("database", "task_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &tasks); err != nil {
		utils.TrackError("database", "task_decode_failed")
		return nil, err
	}
	return tasks, nil
}

// GetUserTasks retrieves all tasks for a user across notes.
func (r *TaskRepo) GetUserTasks(ctx context.Context, userID string) ([]*model.Task, error) {
	timer := utils.TrackDBOperation("find", "tasks")
	defer timer.ObserveDuration()
	utils.CountFind()

	var tasks []*model.Task
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.MongoCollection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		utils.TrackError("database", "task_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &tasks); err != nil {
		utils.TrackError("database", "task_decode_failed")
		return nil, err
	}
	return tasks, nil
}

// MarkOverdue flips every pending task whose due date has passed to the
// overdue status and reports how many were flipped.
func (r *TaskRepo) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	timer := utils.TrackDBOperation("update", "tasks")
	defer timer.ObserveDuration()
	utils.CountSave()

	filter := bson.M{
		"status":   model.TaskStatusPending,
		"due_date": bson.M{"$lt": now},
	}
	update := bson.M{
		"$set": bson.M{
			"status":     model.TaskStatusOverdue,
			"updated_at": now,
		},
	}

	result, err := r.MongoCollection.UpdateMany(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "overdue_sweep_failed")
		return 0, err
	}

	return result.ModifiedCount, nil
}

func (r *TaskRepo) GetAllTasks(ctx context.Context) ([]*model.Task, error) {
	timer := utils.TrackDBOperation("find", "tasks")
	defer timer.ObserveDuration()
	utils.CountFind()

	var tasks []*model.Task
	cursor, err := r.MongoCollection.Find(ctx, bson.M{})
	if err != nil {
		utils.TrackError("database", "task_scan_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &tasks); err != nil {
		utils.TrackError("database", "task_decode_failed")
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepo) CountTasks(ctx context.Context) (int64, error) {
	return r.MongoCollection.CountDocuments(ctx, bson.M{})
}

func (r *TaskRepo) CountTasksByStatus(ctx context.Context, status model.TaskStatus) (int64, error) {
	return r.MongoCollection.CountDocuments(ctx, bson.M{"status": status})
}
