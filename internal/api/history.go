package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/kodiserv/internal/db"
	"github.com/stwalsh4118/kodiserv/internal/models"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

// HistoryResponse lists recently played items, newest first
type HistoryResponse struct {
	Entries []*models.HistoryEntry `json:"entries"`
	Limit   int                    `json:"limit"`
}

// HistoryHandler handles now playing history requests
type HistoryHandler struct {
	repos *db.Repositories
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(repos *db.Repositories) *HistoryHandler {
	return &HistoryHandler{repos: repos}
}

// List handles GET /api/history
func (h *HistoryHandler) List(c *gin.Context) {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxHistoryLimit {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_limit",
				Message: "limit must be between 1 and " + strconv.Itoa(maxHistoryLimit),
			})
			return
		}
		limit = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	entries, err := h.repos.History.ListRecent(ctx, limit)
	if err != nil {
		respondError(c, err, "query_failed", "Failed to retrieve history")
		return
	}
	if entries == nil {
		entries = []*models.HistoryEntry{}
	}

	c.JSON(http.StatusOK, HistoryResponse{Entries: entries, Limit: limit})
}

// SetupHistoryRoutes registers history routes
func SetupHistoryRoutes(group *gin.RouterGroup, repos *db.Repositories) {
	handler := NewHistoryHandler(repos)
	group.GET("/history", handler.List)
}
