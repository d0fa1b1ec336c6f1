package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/kodiserv/internal/logger"
	"github.com/stwalsh4118/kodiserv/internal/nowplaying"
)

// NowPlayingHandler serves the current playback descriptor
type NowPlayingHandler struct {
	resolver *nowplaying.Resolver
}

// NewNowPlayingHandler creates a new now playing handler
func NewNowPlayingHandler(resolver *nowplaying.Resolver) *NowPlayingHandler {
	return &NowPlayingHandler{resolver: resolver}
}

// Get handles GET /api/nowplaying
func (h *NowPlayingHandler) Get(c *gin.Context) {
	np, err := h.resolver.GetNowPlaying(c.Request.Context(), time.Now())
	if err != nil {
		logger.Log.Warn().
			Err(err).
			Msg("Now playing lookup failed")
		respondError(c, err, "resolution_failed", "Failed to resolve now playing")
		return
	}

	c.JSON(http.StatusOK, np)
}

// SetupNowPlayingRoutes registers the now playing route
func SetupNowPlayingRoutes(group *gin.RouterGroup, resolver *nowplaying.Resolver) {
	handler := NewNowPlayingHandler(resolver)
	group.GET("/nowplaying", handler.Get)
}
