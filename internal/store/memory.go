package store

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryCollection keeps documents in process memory. It backs the test
// suite and local development without a MongoDB instance. Documents are
// stored bson-encoded so filters and sorts see the same field names the
// Mongo backend does. Only equality filters and single-field sorts are
// supported, which is all the repositories use.
type MemoryCollection[T any] struct {
	mu    sync.RWMutex
	docs  map[primitive.ObjectID]bson.Raw
	order []primitive.ObjectID
}

func NewMemory[T any]() *MemoryCollection[T] {
	return &MemoryCollection[T]{docs: make(map[primitive.ObjectID]bson.Raw)}
}

func (c *MemoryCollection[T]) Insert(ctx context.Context, doc *T) error {
	raw, id, err := encode(doc)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.docs[id]; exists {
		return ErrDuplicate
	}
	c.docs[id] = raw
	c.order = append(c.order, id)
	return nil
}

func (c *MemoryCollection[T]) Get(ctx context.Context, id primitive.ObjectID) (*T, error) {
	c.mu.RLock()
	raw, ok := c.docs[id]
	c.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return decode[T](raw)
}

func (c *MemoryCollection[T]) FindOne(ctx context.Context, filter Filter) (*T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, id := range c.order {
		if matches(c.docs[id], filter) {
			return decode[T](c.docs[id])
		}
	}
	return nil, ErrNotFound
}

func (c *MemoryCollection[T]) Find(ctx context.Context, filter Filter, s *Sort) ([]T, error) {
	c.mu.RLock()
	var raws []bson.Raw
	for _, id := range c.order {
		if matches(c.docs[id], filter) {
			raws = append(raws, c.docs[id])
		}
	}
	c.mu.RUnlock()

	if s != nil {
		sort.SliceStable(raws, func(i, j int) bool {
			a := fieldValue(raws[i], s.Field)
			b := fieldValue(raws[j], s.Field)
			if s.Desc {
				return lessValue(b, a)
			}
			return lessValue(a, b)
		})
	}

	docs := make([]T, 0, len(raws))
	for _, raw := range raws {
		doc, err := decode[T](raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

func (c *MemoryCollection[T]) Replace(ctx context.Context, id primitive.ObjectID, doc *T) error {
	raw, _, err := encode(doc)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.docs[id]; !ok {
		return ErrNotFound
	}
	c.docs[id] = raw
	return nil
}

func (c *MemoryCollection[T]) Delete(ctx context.Context, id primitive.ObjectID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.docs[id]; !ok {
		return ErrNotFound
	}
	delete(c.docs, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func encode[T any](doc *T) (bson.Raw, primitive.ObjectID, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, primitive.NilObjectID, err
	}
	id, ok := bson.Raw(raw).Lookup("_id").ObjectIDOK()
	if !ok || id.IsZero() {
		return nil, primitive.NilObjectID, errors.New("document has no _id")
	}
	return bson.Raw(raw), id, nil
}

func decode[T any](raw bson.Raw) (*T, error) {
	var doc T
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func matches(raw bson.Raw, filter Filter) bool {
	for field, want := range filter {
		if !fieldEqual(fieldValue(raw, field), want) {
			return false
		}
	}
	return true
}

func fieldValue(raw bson.Raw, field string) any {
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m[field]
}

func fieldEqual(got, want any) bool {
	switch w := want.(type) {
	case primitive.ObjectID:
		g, ok := got.(primitive.ObjectID)
		return ok && g == w
	case string:
		g, ok := got.(string)
		return ok && g == w
	default:
		return reflect.DeepEqual(got, want)
	}
}

func lessValue(a, b any) bool {
	if a == nil {
		return b != nil
	}
	if b == nil {
		return false
	}
	switch av := a.(type) {
	case primitive.DateTime:
		bv, ok := b.(primitive.DateTime)
		return ok && av < bv
	case string:
		bv, ok := b.(string)
		return ok && av < bv
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	return aok && bok && af < bf
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
