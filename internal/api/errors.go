// Package api provides the HTTP handlers for the kodiserv REST API.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/kodiserv/internal/kodi"
	"github.com/stwalsh4118/kodiserv/internal/library"
	"github.com/stwalsh4118/kodiserv/internal/logger"
	"github.com/stwalsh4118/kodiserv/internal/playback"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// respondError maps domain errors to HTTP responses. Errors without a
// known mapping are logged and reported as 500 with fallbackCode.
func respondError(c *gin.Context, err error, fallbackCode, fallbackMessage string) {
	switch {
	case library.IsEmptyTitle(err), playback.IsMissingTarget(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
	case library.IsMovieNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Movie not found",
		})
	case kodi.IsNoActivePlayer(err):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "no_active_player",
			Message: "Nothing is playing",
		})
	case kodi.IsRemoteUnavailable(err):
		logger.Log.Warn().
			Err(err).
			Str("path", c.FullPath()).
			Msg("Kodi is unavailable")
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "kodi_unavailable",
			Message: "Kodi could not be reached",
		})
	case kodi.IsMalformedResponse(err):
		logger.Log.Warn().
			Err(err).
			Str("path", c.FullPath()).
			Msg("Kodi returned an unexpected response")
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "kodi_bad_response",
			Message: "Kodi returned an unexpected response",
		})
	default:
		logger.Log.Error().
			Err(err).
			Str("path", c.FullPath()).
			Msg(fallbackMessage)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   fallbackCode,
			Message: fallbackMessage,
		})
	}
}
