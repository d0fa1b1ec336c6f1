package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stwalsh4118/kodiserv/internal/metrics"
)

func setupTestRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(handlers...)
	router.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func doRequest(router *gin.Engine, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestKeyAuth(t *testing.T) {
	router := setupTestRouter(KeyAuth("abc123"))

	tests := []struct {
		name       string
		headers    map[string]string
		wantStatus int
	}{
		{"valid key", map[string]string{AuthHeader: "abc123"}, http.StatusNoContent},
		{"missing header", nil, http.StatusUnauthorized},
		{"wrong key", map[string]string{AuthHeader: "nope"}, http.StatusUnauthorized},
		{"prefix of key", map[string]string{AuthHeader: "abc"}, http.StatusUnauthorized},
		{"empty value", map[string]string{AuthHeader: ""}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, "/ping", tt.headers)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.JSONEq(t, `{"error":"unauthorized","message":"Authentication failed"}`, w.Body.String())
			}
		})
	}
}

func TestKeyAuth_EmptyConfiguredKeyRejectsEverything(t *testing.T) {
	router := setupTestRouter(KeyAuth(""))

	w := doRequest(router, "/ping", map[string]string{AuthHeader: ""})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRateLimit(t *testing.T) {
	router := setupTestRouter(RateLimit(0.001, 2))

	assert.Equal(t, http.StatusNoContent, doRequest(router, "/ping", nil).Code)
	assert.Equal(t, http.StatusNoContent, doRequest(router, "/ping", nil).Code)

	w := doRequest(router, "/ping", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"rate_limited","message":"Too many requests"}`, w.Body.String())
}

func TestRateLimit_Disabled(t *testing.T) {
	router := setupTestRouter(RateLimit(0, 0))

	for i := 0; i < 20; i++ {
		assert.Equal(t, http.StatusNoContent, doRequest(router, "/ping", nil).Code)
	}
}

func TestRequestLogger_RecordsMetrics(t *testing.T) {
	router := setupTestRouter(RequestLogger())

	before := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/ping", "204"))
	doRequest(router, "/ping", nil)
	after := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/ping", "204"))
	assert.Equal(t, before+1, after)

	unmatchedBefore := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, unmatchedRoute, "404"))
	doRequest(router, "/missing", nil)
	unmatchedAfter := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, unmatchedRoute, "404"))
	assert.Equal(t, unmatchedBefore+1, unmatchedAfter)
}
