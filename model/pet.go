package model

import "time"

type Pet struct {
	PetID     string    `bson:"_id,omitempty" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	PetName   string    `bson:"pet_name" json:"pet_name"`
	Level     int       `bson:"level" json:"level"`   // Always >= 1
	Points    int       `bson:"points" json:"points"` // Experience inside the current level
	Version   int64     `bson:"version" json:"-"`     // Bumped on every progress write
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
