package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ideahunt/backend/internal/idea"
	"github.com/ideahunt/backend/internal/storage"
	"github.com/ideahunt/backend/internal/store"
)

// IdeaHandler exposes the idea API over gin. Thumbs is optional; thumbnail
// routes are registered only when object storage is configured.
type IdeaHandler struct {
	Svc    *idea.Service
	Store  store.Store
	Thumbs *storage.ThumbnailStore
}

func NewIdeaHandler(svc *idea.Service, st store.Store, thumbs *storage.ThumbnailStore) *IdeaHandler {
	return &IdeaHandler{Svc: svc, Store: st, Thumbs: thumbs}
}

func (h *IdeaHandler) Register(r *gin.Engine) {
	r.GET("/", h.Root)
	r.GET("/test", h.TestDB)
	r.GET("/ideas", h.ListIdeas)
	r.POST("/ideas", h.CreateIdea)
	r.GET("/ideas/:id", h.GetIdea)
	r.PATCH("/ideas/:id", h.UpdateIdea)
	r.DELETE("/ideas/:id", h.DeleteIdea)
	r.POST("/ideas/:id/upvote", h.UpvoteIdea)
	r.POST("/ideas/:id/comments", h.AddComment)
	r.POST("/seed", h.Seed)
	if h.Thumbs != nil {
		r.POST("/ideas/:id/thumbnail", h.UploadThumbnail)
		r.GET("/ideas/:id/thumbnail", h.GetThumbnail)
	}
}

func (h *IdeaHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "Idea Hunt API"})
}

// TestDB reports the active backend and idea count, exercising the store end
// to end.
func (h *IdeaHandler) TestDB(c *gin.Context) {
	count, err := h.Svc.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "backend": h.Store.Name(), "collections": []string{idea.Collection}, "count": count})
}

func (h *IdeaHandler) ListIdeas(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}
	docs, err := h.Svc.List(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *IdeaHandler) CreateIdea(c *gin.Context) {
	var req idea.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	doc, err := h.Svc.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create idea"})
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (h *IdeaHandler) GetIdea(c *gin.Context) {
	doc, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderIdeaErr(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// UpdateIdea merges the supplied fields into the idea (set semantics; use
// the upvote/comment routes for counters and lists).
func (h *IdeaHandler) UpdateIdea(c *gin.Context) {
	var fields store.Document
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	delete(fields, "_id")
	modified, err := h.Svc.Update(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if modified == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Idea not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"modified": modified})
}

func (h *IdeaHandler) DeleteIdea(c *gin.Context) {
	deleted, err := h.Svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if deleted == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Idea not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *IdeaHandler) UpvoteIdea(c *gin.Context) {
	doc, err := h.Svc.Upvote(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderIdeaErr(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *IdeaHandler) AddComment(c *gin.Context) {
	var req idea.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	doc, err := h.Svc.AddComment(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.renderIdeaErr(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *IdeaHandler) Seed(c *gin.Context) {
	inserted, err := h.Svc.Seed(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if inserted == 0 {
		c.JSON(http.StatusOK, gin.H{"status": "skipped", "reason": "data already exists"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "seeded", "count": inserted})
}

// UploadThumbnail accepts a multipart "file" field and stores it for the idea.
func (h *IdeaHandler) UploadThumbnail(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.Svc.Get(c.Request.Context(), id); err != nil {
		h.renderIdeaErr(c, err)
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()
	contentType := fh.Header.Get("Content-Type")
	if err := h.Thumbs.Upload(c.Request.Context(), id, f, fh.Size, contentType); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "thumbnail upload failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "thumbnail": "/ideas/" + id + "/thumbnail"})
}

// GetThumbnail redirects to a short-lived presigned object URL.
func (h *IdeaHandler) GetThumbnail(c *gin.Context) {
	id := c.Param("id")
	u, err := h.Thumbs.PresignedURL(c.Request.Context(), id, 15*time.Minute)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "thumbnail not found"})
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, u)
}

func (h *IdeaHandler) renderIdeaErr(c *gin.Context, err error) {
	if errors.Is(err, idea.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Idea not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
