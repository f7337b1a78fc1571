package model

import (
	"time"
)

type Note struct {
	NoteID    string    `bson:"_id,omitempty" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	FolderID  string    `bson:"folder_id" json:"folder_id"`
	Title     string    `bson:"title" json:"title"`
	Content   string    `bson:"content" json:"content"`
	TaskIDs   []string  `bson:"task_ids" json:"task_ids"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
