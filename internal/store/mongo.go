package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCollection is the MongoDB-backed Collection.
type MongoCollection[T any] struct {
	coll *mongo.Collection
}

func NewMongo[T any](db *mongo.Database, name string) *MongoCollection[T] {
	return &MongoCollection[T]{coll: db.Collection(name)}
}

func (c *MongoCollection[T]) Insert(ctx context.Context, doc *T) error {
	_, err := c.coll.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (c *MongoCollection[T]) Get(ctx context.Context, id primitive.ObjectID) (*T, error) {
	return c.FindOne(ctx, Filter{"_id": id})
}

func (c *MongoCollection[T]) FindOne(ctx context.Context, filter Filter) (*T, error) {
	var doc T
	err := c.coll.FindOne(ctx, toBson(filter)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *MongoCollection[T]) Find(ctx context.Context, filter Filter, sort *Sort) ([]T, error) {
	opts := options.Find()
	if sort != nil {
		dir := 1
		if sort.Desc {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: sort.Field, Value: dir}})
	}

	cursor, err := c.coll.Find(ctx, toBson(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := []T{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (c *MongoCollection[T]) Replace(ctx context.Context, id primitive.ObjectID, doc *T) error {
	res, err := c.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *MongoCollection[T]) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func toBson(filter Filter) bson.M {
	m := bson.M{}
	for k, v := range filter {
		m[k] = v
	}
	return m
}
