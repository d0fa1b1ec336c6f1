package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/kodiserv/internal/playback"
)

const commandTimeout = 10 * time.Second

// PlayRequest selects the movie to play, by library id or by title
type PlayRequest struct {
	Title string `form:"title" json:"title"`
	ID    int    `form:"id" json:"id"`
}

// PlaybackHandler handles player commands
type PlaybackHandler struct {
	service *playback.Service
}

// NewPlaybackHandler creates a new playback handler
func NewPlaybackHandler(service *playback.Service) *PlaybackHandler {
	return &PlaybackHandler{service: service}
}

// Play handles GET/POST /api/play
func (h *PlaybackHandler) Play(c *gin.Context) {
	var req PlayRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid play request: " + err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), commandTimeout)
	defer cancel()

	if _, err := h.service.Play(ctx, playback.PlayRequest{Title: req.Title, ID: req.ID}); err != nil {
		respondError(c, err, "play_failed", "Failed to start playback")
		return
	}

	c.Status(http.StatusNoContent)
}

// Pause handles /api/pause
func (h *PlaybackHandler) Pause(c *gin.Context) {
	h.command(c, h.service.Pause, "pause_failed", "Failed to pause playback")
}

// PlayPause handles /api/playpause
func (h *PlaybackHandler) PlayPause(c *gin.Context) {
	h.command(c, h.service.PlayPause, "playpause_failed", "Failed to toggle playback")
}

// Stop handles /api/stop
func (h *PlaybackHandler) Stop(c *gin.Context) {
	h.command(c, h.service.Stop, "stop_failed", "Failed to stop playback")
}

func (h *PlaybackHandler) command(c *gin.Context, fn func(context.Context) error, code, message string) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), commandTimeout)
	defer cancel()

	if err := fn(ctx); err != nil {
		respondError(c, err, code, message)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetupPlaybackRoutes registers player command routes. Each route accepts GET
// and POST so simple remotes and browser bookmarks both work.
func SetupPlaybackRoutes(group *gin.RouterGroup, service *playback.Service) {
	handler := NewPlaybackHandler(service)

	for path, fn := range map[string]gin.HandlerFunc{
		"/play":      handler.Play,
		"/pause":     handler.Pause,
		"/playpause": handler.PlayPause,
		"/stop":      handler.Stop,
	} {
		group.GET(path, fn)
		group.POST(path, fn)
	}
}
