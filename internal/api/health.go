package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/kodiserv/internal/db"
)

const healthTimeout = 2 * time.Second

// Pinger checks that Kodi answers
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse represents the response from the health check endpoint
type HealthResponse struct {
	Status   string                 `json:"status"`
	Database string                 `json:"database"`
	Kodi     string                 `json:"kodi"`
	Time     string                 `json:"time"`
	Details  map[string]interface{} `json:"details,omitempty"`
}

// HealthHandler handles health check requests
type HealthHandler struct {
	db   *db.DB
	kodi Pinger
}

// NewHealthHandler creates a new health check handler
func NewHealthHandler(database *db.DB, kodi Pinger) *HealthHandler {
	return &HealthHandler{db: database, kodi: kodi}
}

// Check reports database and Kodi connectivity. A failing database makes the
// service unhealthy; an unreachable Kodi only degrades it.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	response := HealthResponse{
		Status:   "ok",
		Database: "healthy",
		Kodi:     "healthy",
		Time:     time.Now().UTC().Format(time.RFC3339),
		Details:  make(map[string]interface{}),
	}

	if err := h.db.Health(ctx); err != nil {
		response.Status = "unhealthy"
		response.Database = "unhealthy"
		response.Details["database_error"] = err.Error()
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	if err := h.kodi.Ping(ctx); err != nil {
		response.Status = "degraded"
		response.Kodi = "unreachable"
		response.Details["kodi_error"] = err.Error()
	}

	c.JSON(http.StatusOK, response)
}

// SetupHealthRoutes registers health check routes
func SetupHealthRoutes(apiGroup *gin.RouterGroup, database *db.DB, kodi Pinger) {
	handler := NewHealthHandler(database, kodi)
	apiGroup.GET("/health", handler.Check)
}
