// Package server exposes the upload store and the week model over a JSON
// HTTP API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/thekevindong/AreWeFree/internal/ics"
	"github.com/thekevindong/AreWeFree/internal/store"
)

// UploadStore is the persistence surface the server needs. *store.Redis
// implements it; tests substitute an in-memory fake.
type UploadStore interface {
	List(ctx context.Context) ([]store.Upload, error)
	Add(ctx context.Context, upload store.Upload) error
	Update(ctx context.Context, id, person, color string) (store.Upload, error)
	Remove(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

// Server handles the HTTP API and owns the cached week model.
type Server struct {
	uploads  UploadStore
	debounce time.Duration
	version  string

	mu    sync.RWMutex
	week  *WeekModel
	timer *time.Timer
}

// New creates a Server over the given upload store. Mutations trigger a
// recompute of the week model after the debounce interval, coalescing
// rapid edits.
func New(uploads UploadStore, debounce time.Duration, version string) *Server {
	return &Server{
		uploads:  uploads,
		debounce: debounce,
		version:  version,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", s.handleHealth)

	api := r.Group("/api")
	{
		api.POST("/uploads", s.handleAddUpload)
		api.GET("/uploads", s.handleListUploads)
		api.PATCH("/uploads/:id", s.handleUpdateUpload)
		api.DELETE("/uploads/:id", s.handleRemoveUpload)
		api.DELETE("/uploads", s.handleClearUploads)
		api.GET("/week", s.handleWeek)
	}

	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"version": s.version,
	})
}

// uploadRequest is the POST /api/uploads payload.
type uploadRequest struct {
	Name    string `json:"name"`
	Person  string `json:"person" binding:"required"`
	Color   string `json:"color" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// uploadView is an upload record with its raw content elided.
type uploadView struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Person string `json:"person"`
	Color  string `json:"color"`
	Size   int    `json:"size"`
	Valid  *bool  `json:"valid,omitempty"`
}

func viewOf(u store.Upload) uploadView {
	return uploadView{
		ID:     u.ID,
		Name:   u.Name,
		Person: u.Person,
		Color:  u.Color,
		Size:   u.Size,
		Valid:  u.Valid,
	}
}

func (s *Server) handleAddUpload(c *gin.Context) {
	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	valid := ics.Validate([]byte(req.Content))
	upload := store.Upload{
		ID:      uuid.NewString(),
		Name:    req.Name,
		Person:  req.Person,
		Color:   req.Color,
		Content: req.Content,
		Size:    len(req.Content),
		Valid:   &valid,
	}

	if err := s.uploads.Add(c.Request.Context(), upload); err != nil {
		slog.Error("failed to store upload", "person", req.Person, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store upload"})
		return
	}

	slog.Info("upload added", "id", upload.ID, "person", upload.Person, "size", upload.Size, "valid", valid)
	s.scheduleRecompute()
	c.JSON(http.StatusCreated, viewOf(upload))
}

func (s *Server) handleListUploads(c *gin.Context) {
	uploads, err := s.uploads.List(c.Request.Context())
	if err != nil {
		slog.Error("failed to list uploads", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list uploads"})
		return
	}

	views := make([]uploadView, 0, len(uploads))
	for _, u := range uploads {
		views = append(views, viewOf(u))
	}
	c.JSON(http.StatusOK, views)
}

// updateRequest is the PATCH /api/uploads/:id payload; empty fields are
// left unchanged.
type updateRequest struct {
	Person string `json:"person"`
	Color  string `json:"color"`
}

func (s *Server) handleUpdateUpload(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	upload, err := s.uploads.Update(c.Request.Context(), c.Param("id"), req.Person, req.Color)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "upload not found"})
		return
	}
	if err != nil {
		slog.Error("failed to update upload", "id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update upload"})
		return
	}

	s.scheduleRecompute()
	c.JSON(http.StatusOK, viewOf(upload))
}

func (s *Server) handleRemoveUpload(c *gin.Context) {
	err := s.uploads.Remove(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "upload not found"})
		return
	}
	if err != nil {
		slog.Error("failed to remove upload", "id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove upload"})
		return
	}

	s.scheduleRecompute()
	c.Status(http.StatusNoContent)
}

func (s *Server) handleClearUploads(c *gin.Context) {
	if err := s.uploads.Clear(c.Request.Context()); err != nil {
		slog.Error("failed to clear uploads", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear uploads"})
		return
	}

	s.scheduleRecompute()
	c.Status(http.StatusNoContent)
}

func (s *Server) handleWeek(c *gin.Context) {
	s.mu.RLock()
	week := s.week
	s.mu.RUnlock()

	if week == nil {
		computed, err := s.recompute(c.Request.Context())
		if err != nil {
			slog.Error("failed to compute week model", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute week model"})
			return
		}
		week = computed
	}

	c.JSON(http.StatusOK, week)
}
