// Package store provides document persistence shared by all resource
// repositories. Every entity (users, treks, journal entries) goes through
// the same generic Collection interface; mutations of embedded sets and
// sequences are read-modify-write followed by a whole-document Replace,
// so concurrent writers to the same document are last-writer-wins.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// ErrDuplicate is returned when an insert violates a unique index.
var ErrDuplicate = errors.New("duplicate key")

// Filter matches documents by field equality. Keys are bson field names.
type Filter map[string]any

// Sort orders results by a single bson field.
type Sort struct {
	Field string
	Desc  bool
}

// Collection is the CRUD surface shared by all entity types.
type Collection[T any] interface {
	Insert(ctx context.Context, doc *T) error
	Get(ctx context.Context, id primitive.ObjectID) (*T, error)
	FindOne(ctx context.Context, filter Filter) (*T, error)
	// Find returns matching documents; a nil sort keeps natural store order.
	Find(ctx context.Context, filter Filter, sort *Sort) ([]T, error)
	Replace(ctx context.Context, id primitive.ObjectID, doc *T) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
