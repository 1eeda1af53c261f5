package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JournalEntry is a travel-journal entry a user wrote for a trek.
type JournalEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`

	UserID primitive.ObjectID `bson:"userId" json:"userId"`
	TrekID primitive.ObjectID `bson:"trekId" json:"trekId"`
	Date   string             `bson:"date" json:"date"`
	Text   string             `bson:"text" json:"text"`

	// Photo URLs: client-supplied URLs first, uploaded-file URLs after.
	Photos []string `bson:"photos" json:"photos"`
}
