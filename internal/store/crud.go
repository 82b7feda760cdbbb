package store

import (
	"context"
	"time"

	"github.com/ideahunt/backend/pkg/metrics"
)

// DefaultReadLimit bounds GetDocuments when the caller passes no limit.
const DefaultReadLimit = 100

// DB is the generic CRUD surface the service layer talks to. It owns
// timestamping, filter translation and outbound serialization; the backend
// behind it is whatever Open selected.
type DB struct {
	store Store
}

func NewDB(s Store) *DB {
	return &DB{store: s}
}

// Store exposes the underlying adapter for callers that compose their own
// update-operator payloads ($inc counters, $push appends). The generic
// UpdateDocument below is set-fields only.
func (db *DB) Store() Store { return db.store }

// CreateDocument inserts fields into the named collection and returns the
// assigned identifier. created_at/updated_at are stamped only when the
// caller did not supply them.
func (db *DB) CreateDocument(ctx context.Context, collection string, fields Document) (string, error) {
	now := time.Now().UTC()
	payload := make(Document, len(fields)+2)
	for k, v := range fields {
		payload[k] = v
	}
	if _, ok := payload["created_at"]; !ok {
		payload["created_at"] = now
	}
	if _, ok := payload["updated_at"]; !ok {
		payload["updated_at"] = now
	}
	res, err := db.store.Collection(collection).InsertOne(ctx, payload)
	metrics.ObserveStoreOp(db.store.Name(), "insert", err)
	if err != nil {
		return "", err
	}
	return res.InsertedID, nil
}

// GetDocuments returns up to limit matching documents (DefaultReadLimit when
// limit <= 0), each passed through the outbound identifier codec.
func (db *DB) GetDocuments(ctx context.Context, collection string, filter Document, limit int) ([]Document, error) {
	if limit <= 0 {
		limit = DefaultReadLimit
	}
	docs, err := db.store.Collection(collection).Find(ctx, TranslateFilter(db.store, filter))
	metrics.ObserveStoreOp(db.store.Name(), "find", err)
	if err != nil {
		return nil, err
	}
	if len(docs) > limit {
		docs = docs[:limit]
	}
	out := make([]Document, len(docs))
	for i, d := range docs {
		out[i] = serializeDocument(d)
	}
	return out, nil
}

// UpdateDocument merges fields into the matching document and returns the
// modified count. updated_at is always restamped, overriding any
// caller-supplied value.
func (db *DB) UpdateDocument(ctx context.Context, collection string, filter Document, fields Document) (int64, error) {
	payload := make(Document, len(fields)+1)
	for k, v := range fields {
		payload[k] = v
	}
	payload["updated_at"] = time.Now().UTC()
	res, err := db.store.Collection(collection).UpdateOne(ctx, TranslateFilter(db.store, filter), Document{"$set": payload})
	metrics.ObserveStoreOp(db.store.Name(), "update", err)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// DeleteDocument removes the matching document and returns the deleted count
// (0 when nothing matched; not an error).
func (db *DB) DeleteDocument(ctx context.Context, collection string, filter Document) (int64, error) {
	res, err := db.store.Collection(collection).DeleteOne(ctx, TranslateFilter(db.store, filter))
	metrics.ObserveStoreOp(db.store.Name(), "delete", err)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountDocuments returns the collection's document count.
func (db *DB) CountDocuments(ctx context.Context, collection string) (int64, error) {
	n, err := db.store.Collection(collection).Count(ctx)
	metrics.ObserveStoreOp(db.store.Name(), "count", err)
	return n, err
}
