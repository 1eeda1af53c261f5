package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username string             `bson:"username" json:"username"`
	Password string             `bson:"password" json:"-"` // Don't return password in JSON
	Email    string             `bson:"email,omitempty" json:"email,omitempty"`
	Bio      string             `bson:"bio" json:"bio"`
	Location string             `bson:"location" json:"location"`

	ProfileImageURL string `bson:"profileImageUrl,omitempty" json:"profileImageUrl,omitempty"`

	// References to journal entries the user has saved or favorited.
	// Each ID appears at most once per list.
	SavedJournals    []primitive.ObjectID `bson:"savedJournals" json:"savedJournals"`
	FavoriteJournals []primitive.ObjectID `bson:"favoriteJournals" json:"favoriteJournals"`
}
