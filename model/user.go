package model

import "time"

type User struct {
	UserID    string    `bson:"_id,omitempty" json:"user_id"`       // Unique ID number
	Username  string    `bson:"username" json:"username"`           // Display name
	Email     string    `bson:"email" json:"email"`                 // Contact email
	CreatedAt time.Time `bson:"created_at" json:"created_at"`       // Time created for account life
	FolderIDs []string  `bson:"folder_ids" json:"folder_ids"`       // Owned folders, creation order
	PetID     string    `bson:"pet_id,omitempty" json:"pet_id,omitempty"` // Companion pet, empty until created
}

// OwnsFolder reports whether folderID is referenced in the user's folder list.
func (u *User) OwnsFolder(folderID string) bool {
	for _, id := range u.FolderIDs {
		if id == folderID {
			return true
		}
	}
	return false
}
