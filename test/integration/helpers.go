//go:build integration
// +build integration

package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/kodiserv/internal/api"
	"github.com/stwalsh4118/kodiserv/internal/db"
)

// setupTestDB creates a migrated database in a temporary directory
func setupTestDB(t *testing.T) *db.DB {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "integration.db"))
	require.NoError(t, err, "Failed to create database")
	t.Cleanup(func() { _ = database.Close() })

	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err, "Failed to get SQL DB")

	// Resolve migrations relative to this file so tests work from any working directory
	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok, "Failed to get current file path")

	testDir := filepath.Dir(filename)                     // test/integration
	rootDir := filepath.Dir(filepath.Dir(testDir))        // module root
	migrationsDir := filepath.Join(rootDir, "migrations") // migrations
	require.NoError(t, db.RunMigrations(sqlDB, "file://"+migrationsDir), "Failed to run migrations")

	return database
}

// kodiStub simulates the parts of a Kodi instance the service talks to
type kodiStub struct {
	mu      sync.Mutex
	item    map[string]any
	details map[string]any
	episode map[string]any
	opened  []int
}

func newKodiStub(t *testing.T) (*kodiStub, string) {
	t.Helper()
	stub := &kodiStub{}
	ts := httptest.NewServer(stub)
	t.Cleanup(ts.Close)
	return stub, ts.URL + "/jsonrpc"
}

// playMovie loads a library movie into the video player
func (k *kodiStub) playMovie(id int, title, imdb string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.item = map[string]any{"id": id, "label": title, "type": "movie"}
	k.details = map[string]any{"movieid": id, "label": title, "title": title, "imdbnumber": imdb}
	k.episode = nil
}

// playEpisode loads "Foo Season 1: <title>" into the video player
func (k *kodiStub) playEpisode(id int, title string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.item = map[string]any{"id": id, "label": title, "type": "episode"}
	k.episode = map[string]any{"episodeid": id, "label": title, "title": title, "tvshowid": 4, "seasonid": 9}
	k.details = nil
}

func (k *kodiStub) stop() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.item = nil
}

func (k *kodiStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method string          `json:"method"`
		ID     uint64          `json:"id"`
		Params json.RawMessage `json:"params"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	var result any
	switch req.Method {
	case "JSONRPC.Ping":
		result = "pong"
	case "Player.GetActivePlayers":
		if k.item == nil {
			result = []any{}
		} else {
			result = []any{map[string]any{"playerid": 1, "type": "video"}}
		}
	case "Player.GetItem":
		result = map[string]any{"item": k.item}
	case "VideoLibrary.GetMovieDetails":
		result = map[string]any{"moviedetails": k.details}
	case "VideoLibrary.GetEpisodeDetails":
		result = map[string]any{"episodedetails": k.episode}
	case "VideoLibrary.GetTVShowDetails":
		result = map[string]any{"tvshowdetails": map[string]any{"label": "Foo"}}
	case "VideoLibrary.GetSeasonDetails":
		result = map[string]any{"seasondetails": map[string]any{"label": "Season 1"}}
	case "VideoLibrary.GetMovies":
		result = map[string]any{"movies": []any{
			map[string]any{"movieid": 1, "label": "The Matrix"},
			map[string]any{"movieid": 2, "label": "Inception"},
		}}
	case "Player.Open":
		var params struct {
			Item struct {
				MovieID int `json:"movieid"`
			} `json:"item"`
		}
		_ = json.Unmarshal(req.Params, &params)
		k.opened = append(k.opened, params.Item.MovieID)
		result = "OK"
	case "Player.Stop", "Player.PlayPause":
		result = "OK"
	}

	res := map[string]any{"jsonrpc": "2.0", "id": req.ID}
	if result == nil {
		res["error"] = map[string]any{"code": -32601, "message": "Method not found."}
	} else {
		res["result"] = result
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(res)
}

// newRouter exposes the history routes without authentication
func newRouter(repos *db.Repositories) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupHistoryRoutes(router.Group("/api"), repos)
	return router
}
