package store

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoStore delegates to the MongoDB driver; the driver's query and update
// languages are a superset of what the memory backend emulates, so operations
// pass through untranslated. Identifier translation happens above, in the
// CRUD layer (TranslateFilter / serializeDocument).
type mongoStore struct {
	db *mongo.Database
}

func (s *mongoStore) InMemory() bool { return false }
func (s *mongoStore) Name() string   { return "mongo" }

func (s *mongoStore) Collection(name string) Collection {
	return &mongoCollection{col: s.db.Collection(name)}
}

type mongoCollection struct {
	col *mongo.Collection
}

func (c *mongoCollection) InsertOne(ctx context.Context, doc Document) (InsertResult, error) {
	res, err := c.col.InsertOne(ctx, doc)
	if err != nil {
		return InsertResult{}, err
	}
	return InsertResult{InsertedID: idString(res.InsertedID)}, nil
}

func (c *mongoCollection) Find(ctx context.Context, filter Document) ([]Document, error) {
	cur, err := c.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []Document{}
	for cur.Next(ctx) {
		var d Document
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, cur.Err()
}

func (c *mongoCollection) FindOne(ctx context.Context, filter Document) (Document, error) {
	var d Document
	if err := c.col.FindOne(ctx, filter).Decode(&d); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func (c *mongoCollection) UpdateOne(ctx context.Context, filter Document, update Document) (UpdateResult, error) {
	res, err := c.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return UpdateResult{}, err
	}
	return UpdateResult{MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}, nil
}

func (c *mongoCollection) DeleteOne(ctx context.Context, filter Document) (DeleteResult, error) {
	res, err := c.col.DeleteOne(ctx, filter)
	if err != nil {
		return DeleteResult{}, err
	}
	return DeleteResult{DeletedCount: res.DeletedCount}, nil
}

func (c *mongoCollection) Count(ctx context.Context) (int64, error) {
	return c.col.EstimatedDocumentCount(ctx, options.EstimatedDocumentCount())
}
