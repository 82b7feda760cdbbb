package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
)

// memoryStore is the fallback backend used when MongoDB is unreachable at
// startup. Collections are plain maps keyed by a random 12-byte hex token
// (same width as an ObjectID hex string, so callers cannot tell the backends
// apart by identifier shape).
type memoryStore struct {
	mu   sync.RWMutex
	cols map[string]map[string]Document
}

// NewMemory returns an empty in-memory store. Exported for tests and for the
// startup fallback in Open.
func NewMemory() Store {
	return &memoryStore{cols: make(map[string]map[string]Document)}
}

func (s *memoryStore) InMemory() bool { return true }
func (s *memoryStore) Name() string   { return "memory" }

func (s *memoryStore) Collection(name string) Collection {
	return &memoryCollection{store: s, name: name}
}

// items returns the live map for a collection, creating it on first use.
// Callers must hold the write lock; read paths use lookup instead so a
// missing collection never mutates s.cols under a read lock.
func (s *memoryStore) items(name string) map[string]Document {
	col, ok := s.cols[name]
	if !ok {
		col = make(map[string]Document)
		s.cols[name] = col
	}
	return col
}

// lookup returns the collection map, or nil when nothing has been written to
// it yet. Safe under the read lock; reads of a nil map are fine.
func (s *memoryStore) lookup(name string) map[string]Document {
	return s.cols[name]
}

func newMemoryID() string {
	buf := make([]byte, 12)
	// rand.Read never fails on supported platforms
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

type memoryCollection struct {
	store *memoryStore
	name  string
}

func (c *memoryCollection) InsertOne(ctx context.Context, doc Document) (InsertResult, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	id := newMemoryID()
	stored := cloneDocument(doc)
	stored["_id"] = id
	c.store.items(c.name)[id] = stored
	return InsertResult{InsertedID: id}, nil
}

// Find resolves the three supported filter shapes. Anything else matches all
// documents; the memory backend is deliberately not a query engine.
func (c *memoryCollection) Find(ctx context.Context, filter Document) ([]Document, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	items := c.store.lookup(c.name)

	if len(filter) == 0 {
		return snapshotAll(items), nil
	}
	idVal, ok := filter["_id"]
	if !ok {
		return snapshotAll(items), nil
	}
	switch v := idVal.(type) {
	case string:
		if doc, ok := items[v]; ok {
			return []Document{cloneDocument(doc)}, nil
		}
		return []Document{}, nil
	case Document:
		ids, ok := inList(v)
		if !ok {
			return snapshotAll(items), nil
		}
		out := []Document{}
		for _, id := range ids {
			if doc, ok := items[id]; ok {
				out = append(out, cloneDocument(doc))
			}
		}
		return out, nil
	case map[string]interface{}:
		ids, ok := inList(Document(v))
		if !ok {
			return snapshotAll(items), nil
		}
		out := []Document{}
		for _, id := range ids {
			if doc, ok := items[id]; ok {
				out = append(out, cloneDocument(doc))
			}
		}
		return out, nil
	default:
		return snapshotAll(items), nil
	}
}

func (c *memoryCollection) FindOne(ctx context.Context, filter Document) (Document, error) {
	docs, err := c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrNotFound
	}
	return docs[0], nil
}

// UpdateOne applies $inc, $push and $set — in that order — to the single
// document the filter identifies. A missing document is a zero-count no-op.
func (c *memoryCollection) UpdateOne(ctx context.Context, filter Document, update Document) (UpdateResult, error) {
	id, ok := filter["_id"].(string)
	if !ok {
		return UpdateResult{}, nil
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	doc, ok := c.store.items(c.name)[id]
	if !ok {
		return UpdateResult{}, nil
	}
	if fields, ok := operatorFields(update, "$inc"); ok {
		for k, v := range fields {
			doc[k] = asInt64(doc[k]) + asInt64(v)
		}
	}
	if fields, ok := operatorFields(update, "$push"); ok {
		for k, v := range fields {
			switch arr := doc[k].(type) {
			case nil:
				doc[k] = []interface{}{v}
			case []interface{}:
				doc[k] = append(arr, v)
			default:
				// existing field is not a sequence: ignore the push
			}
		}
	}
	if fields, ok := operatorFields(update, "$set"); ok {
		for k, v := range fields {
			doc[k] = v
		}
	}
	return UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (c *memoryCollection) DeleteOne(ctx context.Context, filter Document) (DeleteResult, error) {
	id, ok := filter["_id"].(string)
	if !ok {
		return DeleteResult{}, nil
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	items := c.store.items(c.name)
	if _, ok := items[id]; !ok {
		return DeleteResult{}, nil
	}
	delete(items, id)
	return DeleteResult{DeletedCount: 1}, nil
}

func (c *memoryCollection) Count(ctx context.Context) (int64, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	return int64(len(c.store.lookup(c.name))), nil
}

// inList extracts the id list from an {"$in": [...]} predicate. The list may
// arrive as []interface{} (JSON) or []string.
func inList(pred Document) ([]string, bool) {
	raw, ok := pred["$in"]
	if !ok {
		return nil, false
	}
	switch vs := raw.(type) {
	case []string:
		return vs, true
	case []interface{}:
		out := make([]string, 0, len(vs))
		for _, v := range vs {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out, true
	default:
		return nil, false
	}
}

func operatorFields(update Document, op string) (Document, bool) {
	raw, ok := update[op]
	if !ok {
		return nil, false
	}
	switch f := raw.(type) {
	case Document:
		return f, true
	case map[string]interface{}:
		return Document(f), true
	default:
		return nil, false
	}
}

// asInt64 coerces the numeric types a document field can hold; anything
// non-numeric counts as zero, matching the increment contract.
func asInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(n)
	case float32:
		return int64(n)
	default:
		return 0
	}
}

func snapshotAll(items map[string]Document) []Document {
	out := make([]Document, 0, len(items))
	for _, doc := range items {
		out = append(out, cloneDocument(doc))
	}
	return out
}

// cloneDocument deep-copies maps and slices so callers never alias the
// store's internal state.
func cloneDocument(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case Document:
		return cloneDocument(t)
	case map[string]interface{}:
		return map[string]interface{}(cloneDocument(Document(t)))
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
