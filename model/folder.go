package model

import "time"

type Folder struct {
	FolderID   string    `bson:"_id,omitempty" json:"id"`
	UserID     string    `bson:"user_id" json:"user_id"`
	FolderName string    `bson:"folder_name" json:"folder_name"`
	NoteIDs    []string  `bson:"note_ids" json:"note_ids"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
}
