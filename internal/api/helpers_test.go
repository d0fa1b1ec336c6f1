package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/kodiserv/internal/db"
	"github.com/stwalsh4118/kodiserv/internal/kodi"
	"github.com/stwalsh4118/kodiserv/internal/library"
	"github.com/stwalsh4118/kodiserv/internal/middleware"
	"github.com/stwalsh4118/kodiserv/internal/nowplaying"
	"github.com/stwalsh4118/kodiserv/internal/playback"
)

const testKey = "abc123"

// fakeKodi answers JSON-RPC requests from canned results keyed by method name
type fakeKodi struct {
	mu      sync.Mutex
	results map[string]any
	calls   []string
	down    bool
}

func newFakeKodi() *fakeKodi {
	return &fakeKodi{results: map[string]any{
		"JSONRPC.Ping": "pong",
	}}
}

func (f *fakeKodi) set(method string, result any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[method] = result
}

func (f *fakeKodi) setDown(down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.down = down
}

func (f *fakeKodi) called(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, m := range f.calls {
		if m == method {
			n++
		}
	}
	return n
}

func (f *fakeKodi) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method string `json:"method"`
		ID     uint64 `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.calls = append(f.calls, req.Method)
	down := f.down
	result, ok := f.results[req.Method]
	f.mu.Unlock()

	if down {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	res := map[string]any{"jsonrpc": "2.0", "id": req.ID}
	if ok {
		res["result"] = result
	} else {
		res["error"] = map[string]any{"code": -32601, "message": "Method not found."}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(res)
}

func (f *fakeKodi) playMovie(id int, title string) {
	f.set("Player.GetActivePlayers", []map[string]any{{"playerid": 1, "type": "video"}})
	f.set("Player.GetItem", map[string]any{"item": map[string]any{"id": id, "label": title, "type": "movie"}})
	f.set("VideoLibrary.GetMovieDetails", map[string]any{"moviedetails": map[string]any{
		"movieid": id, "label": title, "title": title, "imdbnumber": "tt1375666", "lastplayed": "2023-01-01",
	}})
}

func (f *fakeKodi) stopPlayback() {
	f.set("Player.GetActivePlayers", []map[string]any{})
}

// testEnv holds a router wired to a fake Kodi and a temporary database
type testEnv struct {
	router *gin.Engine
	kodi   *fakeKodi
	repos  *db.Repositories
}

// setupTestDB creates a migrated database in a temporary directory
func setupTestDB(t *testing.T) (*db.DB, *db.Repositories) {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(sqlDB, "file://../../migrations"))

	return database, db.NewRepositories(database)
}

// setupTestRouter wires every route group the way the server does
func setupTestRouter(t *testing.T, threshold time.Duration) *testEnv {
	t.Helper()

	fake := newFakeKodi()
	fake.set("VideoLibrary.GetMovies", map[string]any{"movies": []map[string]any{
		{"movieid": 1, "label": "The Matrix"},
		{"movieid": 2, "label": "Inception"},
		{"movieid": 3, "label": "Interstellar"},
	}})
	fake.stopPlayback()

	ts := httptest.NewServer(fake)
	t.Cleanup(ts.Close)

	database, repos := setupTestDB(t)
	client := kodi.NewClient(ts.URL+"/jsonrpc", 2*time.Second)
	resolver := nowplaying.NewResolver(client, nowplaying.Options{Threshold: threshold})
	lib := library.NewService(client, library.Options{})
	player := playback.NewService(client, lib)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	apiGroup := router.Group("/api")
	SetupHealthRoutes(apiGroup, database, client)

	authed := apiGroup.Group("", middleware.KeyAuth(testKey))
	SetupPlaybackRoutes(authed, player)
	SetupLibraryRoutes(authed, lib, "td { color: red; }")
	SetupNowPlayingRoutes(authed, resolver)
	SetupHistoryRoutes(authed, repos)

	return &testEnv{router: router, kodi: fake, repos: repos}
}

func (e *testEnv) do(t *testing.T, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set(middleware.AuthHeader, testKey)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}
