package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/ideahunt/backend/internal/idea"
	"github.com/ideahunt/backend/internal/store"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	st := store.NewMemory()
	svc := idea.NewService(store.NewDB(st))
	g := gin.New()
	NewIdeaHandler(svc, st, nil).Register(g)
	return g
}

func doJSON(g *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	g.ServeHTTP(w, req)
	return w
}

func TestIdeaLifecycle(t *testing.T) {
	g := newTestRouter(t)

	// create
	w := doJSON(g, http.MethodPost, "/ideas", `{"title":"FocusFox","description":"timer","maker":"Ava","tags":["productivity"]}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id, _ := created["_id"].(string)
	require.NotEmpty(t, id)
	require.Equal(t, "FocusFox", created["title"])
	require.Equal(t, float64(0), created["upvotes"])
	require.NotEmpty(t, created["created_at"])

	// list
	w = doJSON(g, http.MethodGet, "/ideas", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)

	// get
	w = doJSON(g, http.MethodGet, "/ideas/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)

	// upvote twice
	w = doJSON(g, http.MethodPost, "/ideas/"+id+"/upvote", "")
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(g, http.MethodPost, "/ideas/"+id+"/upvote", "")
	require.Equal(t, http.StatusOK, w.Code)
	var upvoted map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &upvoted))
	require.Equal(t, float64(2), upvoted["upvotes"])

	// comment
	w = doJSON(g, http.MethodPost, "/ideas/"+id+"/comments", `{"author":"Noah","text":"nice"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var commented map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &commented))
	require.Len(t, commented["comments"], 1)

	// patch
	w = doJSON(g, http.MethodPatch, "/ideas/"+id, `{"title":"FocusFox 2"}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(g, http.MethodGet, "/ideas/"+id, "")
	var patched map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &patched))
	require.Equal(t, "FocusFox 2", patched["title"])

	// delete, then delete again
	w = doJSON(g, http.MethodDelete, "/ideas/"+id, "")
	require.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(g, http.MethodDelete, "/ideas/"+id, "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateIdeaValidation(t *testing.T) {
	g := newTestRouter(t)
	w := doJSON(g, http.MethodPost, "/ideas", `{"title":"no maker"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNotFoundRoutes(t *testing.T) {
	g := newTestRouter(t)
	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/ideas/missing", ""},
		{http.MethodPost, "/ideas/missing/upvote", ""},
		{http.MethodPost, "/ideas/missing/comments", `{"author":"a","text":"b"}`},
	} {
		w := doJSON(g, tc.method, tc.path, tc.body)
		require.Equal(t, http.StatusNotFound, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestTestEndpointReportsBackend(t *testing.T) {
	g := newTestRouter(t)
	w := doJSON(g, http.MethodGet, "/test", "")
	require.Equal(t, http.StatusOK, w.Code)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Equal(t, true, out["ok"])
	require.Equal(t, "memory", out["backend"])
	require.Equal(t, float64(0), out["count"])
}

func TestSeedEndpoint(t *testing.T) {
	g := newTestRouter(t)

	w := doJSON(g, http.MethodPost, "/seed", "")
	require.Equal(t, http.StatusOK, w.Code)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Equal(t, "seeded", out["status"])

	w = doJSON(g, http.MethodPost, "/seed", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Equal(t, "skipped", out["status"])

	w = doJSON(g, http.MethodGet, "/ideas", "")
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 3)
}
