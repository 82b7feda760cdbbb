package idea

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ideahunt/backend/internal/store"
)

var ErrNotFound = errors.New("idea not found")

// Service encapsulates idea business logic over the generic document CRUD
// surface. Upvotes and comments go through the adapter's operator update
// path ($inc / $push) so concurrent callers never clobber each other; the
// plain field updates use the set-fields CRUD path.
type Service struct {
	db *store.DB
}

func NewService(db *store.DB) *Service {
	return &Service{db: db}
}

// List returns up to limit ideas (store default when limit <= 0).
func (s *Service) List(ctx context.Context, limit int) ([]store.Document, error) {
	return s.db.GetDocuments(ctx, Collection, store.Document{}, limit)
}

// Get returns the idea with the given id.
func (s *Service) Get(ctx context.Context, id string) (store.Document, error) {
	docs, err := s.db.GetDocuments(ctx, Collection, store.Document{"_id": id}, 1)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrNotFound
	}
	return docs[0], nil
}

// Create inserts a new idea with zero upvotes and no comments, then reads it
// back so the caller sees the stored form (id and timestamps included).
func (s *Service) Create(ctx context.Context, req CreateRequest) (store.Document, error) {
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	fields := store.Document{
		"title":       req.Title,
		"description": req.Description,
		"maker":       req.Maker,
		"tags":        tags,
		"upvotes":     0,
		"comments":    []interface{}{},
	}
	if req.Website != "" {
		fields["website"] = req.Website
	}
	if req.Thumbnail != "" {
		fields["thumbnail"] = req.Thumbnail
	}
	id, err := s.db.CreateDocument(ctx, Collection, fields)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Upvote atomically increments the idea's upvote counter and returns the
// updated idea.
func (s *Service) Upvote(ctx context.Context, id string) (store.Document, error) {
	res, err := s.operatorUpdate(ctx, id, store.Document{
		"$inc": store.Document{"upvotes": 1},
	})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

// AddComment appends a comment to the idea's comment list and returns the
// updated idea.
func (s *Service) AddComment(ctx context.Context, id string, req CommentRequest) (store.Document, error) {
	comment := store.Document{
		"id":         uuid.NewString(),
		"author":     req.Author,
		"text":       req.Text,
		"created_at": time.Now().UTC(),
	}
	res, err := s.operatorUpdate(ctx, id, store.Document{
		"$push": store.Document{"comments": comment},
	})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

// Update merges caller-supplied fields into an idea via the generic CRUD
// path and reports whether anything changed.
func (s *Service) Update(ctx context.Context, id string, fields store.Document) (int64, error) {
	return s.db.UpdateDocument(ctx, Collection, store.Document{"_id": id}, fields)
}

// Delete removes an idea, reporting whether a removal occurred.
func (s *Service) Delete(ctx context.Context, id string) (int64, error) {
	return s.db.DeleteDocument(ctx, Collection, store.Document{"_id": id})
}

// Count returns the number of stored ideas.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.db.CountDocuments(ctx, Collection)
}

// operatorUpdate runs a raw update-operator payload against one idea,
// stamping updated_at alongside whatever the payload does.
func (s *Service) operatorUpdate(ctx context.Context, id string, update store.Document) (store.UpdateResult, error) {
	st := s.db.Store()
	update["$set"] = store.Document{"updated_at": time.Now().UTC()}
	filter := store.TranslateFilter(st, store.Document{"_id": id})
	return st.Collection(Collection).UpdateOne(ctx, filter, update)
}
