package api

import (
	"context"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/stwalsh4118/kodiserv/internal/kodi"
	"github.com/stwalsh4118/kodiserv/internal/library"
)

const libraryTimeout = 15 * time.Second

// Movie list output formats
const (
	FormatHTML = "html"
	FormatJSON = "json"
	FormatText = "text"
)

var moviesTemplate = template.Must(template.New("movies").Parse(`<html><head><title>Movie List</title>
<style>{{.Style}}</style></head>
<table><tr><th>ID</th><th>Title</th></tr>
{{range .Movies}}<tr><td>{{.MovieID}}</td><td>{{.Label}}</td></tr>
{{end}}</table>
</html>`))

// MovieListResponse is the JSON form of the movie list
type MovieListResponse struct {
	Movies []kodi.Movie `json:"movies"`
	Total  int          `json:"total"`
}

// SearchResponse lists the closest movie matches for a title
type SearchResponse struct {
	Query   string          `json:"query"`
	Matches []library.Match `json:"matches"`
}

// LibraryHandler handles movie library requests
type LibraryHandler struct {
	service *library.Service
	style   template.CSS
}

// NewLibraryHandler creates a new library handler. style is injected into the
// HTML movie list as-is.
func NewLibraryHandler(service *library.Service, style string) *LibraryHandler {
	return &LibraryHandler{service: service, style: template.CSS(style)}
}

// ListMovies handles GET /api/movies
func (h *LibraryHandler) ListMovies(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", FormatHTML))
	if format != FormatHTML && format != FormatJSON && format != FormatText {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_format",
			Message: "format must be one of html, json, text",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), libraryTimeout)
	defer cancel()

	movies, err := h.service.Movies(ctx)
	if err != nil {
		respondError(c, err, "query_failed", "Failed to retrieve movie list")
		return
	}

	switch format {
	case FormatJSON:
		c.JSON(http.StatusOK, MovieListResponse{Movies: movies, Total: len(movies)})
	case FormatText:
		var b strings.Builder
		for _, m := range movies {
			b.WriteString(strconv.Itoa(m.MovieID))
			b.WriteByte('\t')
			b.WriteString(m.Label)
			b.WriteByte('\n')
		}
		c.String(http.StatusOK, b.String())
	default:
		c.Render(http.StatusOK, render.HTML{
			Template: moviesTemplate,
			Name:     "movies",
			Data: gin.H{
				"Style":  h.style,
				"Movies": movies,
			},
		})
	}
}

// Search handles GET /api/search
func (h *LibraryHandler) Search(c *gin.Context) {
	title := c.Query("title")

	ctx, cancel := context.WithTimeout(c.Request.Context(), libraryTimeout)
	defer cancel()

	matches, err := h.service.Search(ctx, title)
	if err != nil {
		respondError(c, err, "search_failed", "Failed to search library")
		return
	}

	c.JSON(http.StatusOK, SearchResponse{Query: strings.TrimSpace(title), Matches: matches})
}

// SetupLibraryRoutes registers movie library routes
func SetupLibraryRoutes(group *gin.RouterGroup, service *library.Service, style string) {
	handler := NewLibraryHandler(service, style)
	group.GET("/movies", handler.ListMovies)
	group.GET("/search", handler.Search)
}
