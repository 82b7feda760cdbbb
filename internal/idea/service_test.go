package idea

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ideahunt/backend/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(store.NewDB(store.NewMemory()))
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	doc, err := svc.Create(ctx, CreateRequest{Title: "FocusFox", Description: "timer", Maker: "Ava"})
	require.NoError(t, err)
	id, ok := doc["_id"].(string)
	require.True(t, ok)
	require.NotEmpty(t, id)
	require.Equal(t, "FocusFox", doc["title"])
	require.Equal(t, 0, doc["upvotes"])
	require.Empty(t, doc["comments"])
	require.NotNil(t, doc["created_at"])

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, doc["title"], got["title"])

	_, err = svc.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpvoteIncrementsAtomically(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	doc, err := svc.Create(ctx, CreateRequest{Title: "X", Description: "d", Maker: "m"})
	require.NoError(t, err)
	id := doc["_id"].(string)
	created := doc["updated_at"].(time.Time)

	for i := 1; i <= 3; i++ {
		updated, err := svc.Upvote(ctx, id)
		require.NoError(t, err)
		require.Equal(t, int64(i), updated["upvotes"])
	}

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	stamped := got["updated_at"].(time.Time)
	require.False(t, stamped.Before(created))

	_, err = svc.Upvote(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAddCommentAppends(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	doc, err := svc.Create(ctx, CreateRequest{Title: "X", Description: "d", Maker: "m"})
	require.NoError(t, err)
	id := doc["_id"].(string)

	updated, err := svc.AddComment(ctx, id, CommentRequest{Author: "Noah", Text: "nice"})
	require.NoError(t, err)
	comments, ok := updated["comments"].([]interface{})
	require.True(t, ok)
	require.Len(t, comments, 1)
	first, ok := comments[0].(store.Document)
	require.True(t, ok)
	require.Equal(t, "Noah", first["author"])
	require.Equal(t, "nice", first["text"])
	require.NotEmpty(t, first["id"])

	updated, err = svc.AddComment(ctx, id, CommentRequest{Author: "Liam", Text: "more"})
	require.NoError(t, err)
	require.Len(t, updated["comments"], 2)

	_, err = svc.AddComment(ctx, "missing", CommentRequest{Author: "a", Text: "b"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	doc, err := svc.Create(ctx, CreateRequest{Title: "X", Description: "d", Maker: "m"})
	require.NoError(t, err)
	id := doc["_id"].(string)

	modified, err := svc.Update(ctx, id, store.Document{"title": "Y"})
	require.NoError(t, err)
	require.Equal(t, int64(1), modified)

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Y", got["title"])

	deleted, err := svc.Delete(ctx, id)
	require.NoError(t, err)
	require.Equal(t, int64(1), deleted)

	deleted, err = svc.Delete(ctx, id)
	require.NoError(t, err)
	require.Zero(t, deleted)
}

func TestSeedRunsOnce(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	inserted, err := svc.Seed(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, inserted)

	n, err := svc.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), n)

	inserted, err = svc.Seed(ctx)
	require.NoError(t, err)
	require.Zero(t, inserted)
}
