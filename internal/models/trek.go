package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Difficulty rates a trek.
type Difficulty string

const (
	DifficultyEasy     Difficulty = "EASY"
	DifficultyModerate Difficulty = "MODERATE"
	DifficultyHard     Difficulty = "HARD"
)

// ValidDifficulty reports whether d is one of the known difficulty levels.
func ValidDifficulty(d Difficulty) bool {
	switch d {
	case DifficultyEasy, DifficultyModerate, DifficultyHard:
		return true
	}
	return false
}

// Review is embedded in a trek and has no identity of its own.
type Review struct {
	UserID   primitive.ObjectID `bson:"userId" json:"userId"`
	Username string             `bson:"username" json:"username"`
	Review   string             `bson:"review" json:"review"`
	Date     time.Time          `bson:"date" json:"date"`
}

type Trek struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`

	Name             string     `bson:"name" json:"name"`
	Location         string     `bson:"location,omitempty" json:"location,omitempty"`
	SmallDescription string     `bson:"smallDescription,omitempty" json:"smallDescription,omitempty"`
	Description      string     `bson:"description,omitempty" json:"description,omitempty"`
	Difficulty       Difficulty `bson:"difficulty" json:"difficulty"`
	Distance         float64    `bson:"distance,omitempty" json:"distance,omitempty"`
	BestSeason       string     `bson:"bestSeason,omitempty" json:"bestSeason,omitempty"`
	ImageURL         string     `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Highlights       []string   `bson:"highlights" json:"highlights"`

	// Reviews are kept in append order.
	Reviews []Review `bson:"reviews" json:"reviews"`
}
