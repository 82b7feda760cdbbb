package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
)

var (
	// ErrNotFound is returned by FindOne when no document matches the filter.
	ErrNotFound = errors.New("document not found")
)

// Document is the open-ended field map persisted by both backends. Values may
// be strings, numbers, timestamps, nested documents or arrays of any of these.
type Document = bson.M

// InsertResult reports the identifier assigned by an insert.
type InsertResult struct {
	InsertedID string
}

// UpdateResult reports how many documents an update matched and modified.
type UpdateResult struct {
	MatchedCount  int64
	ModifiedCount int64
}

// DeleteResult reports how many documents a delete removed.
type DeleteResult struct {
	DeletedCount int64
}

// Collection is the per-collection operation surface shared by both backends.
// Filter shapes understood everywhere: {} (all), {"_id": <string>} and
// {"_id": {"$in": [<string>, ...]}}. The mongo backend additionally accepts
// any native query; the memory backend treats unknown shapes as match-all.
//
// UpdateOne takes a mongo-style update document ($inc, $push, $set); the
// memory backend emulates those three operators and nothing else.
type Collection interface {
	InsertOne(ctx context.Context, doc Document) (InsertResult, error)
	Find(ctx context.Context, filter Document) ([]Document, error)
	FindOne(ctx context.Context, filter Document) (Document, error)
	UpdateOne(ctx context.Context, filter Document, update Document) (UpdateResult, error)
	DeleteOne(ctx context.Context, filter Document) (DeleteResult, error)
	Count(ctx context.Context) (int64, error)
}

// Store hands out collections. The backend behind it is chosen once by Open
// and fixed for the process lifetime.
type Store interface {
	Collection(name string) Collection
	// InMemory reports whether the fallback backend is active.
	InMemory() bool
	// Name returns "mongo" or "memory", for logs and health output.
	Name() string
}
