package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/kodiserv/internal/logger"
)

// AuthHeader carries the shared secret
const AuthHeader = "Auth-Key"

// KeyAuth rejects requests whose Auth-Key header does not match key
func KeyAuth(key string) gin.HandlerFunc {
	expected := []byte(key)
	return func(c *gin.Context) {
		provided := []byte(c.GetHeader(AuthHeader))
		if len(expected) == 0 || subtle.ConstantTimeCompare(provided, expected) != 1 {
			logger.Log.Warn().
				Str("path", c.Request.URL.Path).
				Str("client_ip", c.ClientIP()).
				Bool("header_present", len(provided) > 0).
				Msg("Authentication failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Authentication failed",
			})
			return
		}
		c.Next()
	}
}
