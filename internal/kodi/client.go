// Package kodi implements a small JSON-RPC 2.0 client for the Kodi media center.
package kodi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/stwalsh4118/kodiserv/internal/logger"
	"github.com/stwalsh4118/kodiserv/internal/metrics"
)

const (
	userAgent       = "kodiserv/1.0"
	maxResponseSize = 8 << 20 // 8 MB, large libraries return big movie lists
)

// Client talks to a single Kodi instance over JSON-RPC
type Client struct {
	// BaseURL is the full JSON-RPC endpoint, e.g. http://127.0.0.1:8080/jsonrpc
	BaseURL    string
	Username   string
	Password   string
	HTTPClient *http.Client

	nextID atomic.Uint64
}

// NewClient creates a client for the given JSON-RPC endpoint with a request timeout
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// WithBasicAuth sets the credentials sent with every request
func (c *Client) WithBasicAuth(username, password string) *Client {
	c.Username = username
	c.Password = password
	return c
}

// Call performs a raw JSON-RPC call and decodes the result into out (which may be nil)
func (c *Client) Call(ctx context.Context, method Method, params any, out any) error {
	start := time.Now()
	err := c.call(ctx, method, params, out)

	result := "ok"
	switch {
	case IsRemoteUnavailable(err):
		result = "unavailable"
	case IsMalformedResponse(err):
		result = "malformed"
	case err != nil:
		result = "error"
	}
	metrics.KodiRequestsTotal.WithLabelValues(string(method), result).Inc()
	metrics.KodiRequestDuration.WithLabelValues(string(method)).Observe(time.Since(start).Seconds())

	if err != nil {
		logger.Log.Debug().
			Err(err).
			Str("method", string(method)).
			Dur("duration", time.Since(start)).
			Msg("Kodi request failed")
	}
	return err
}

func (c *Client) call(ctx context.Context, method Method, params any, out any) error {
	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.nextID.Add(1),
	})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if c.Username != "" {
		req.SetBasicAuth(c.Username, c.Password)
	}

	res, err := c.httpClient().Do(req)
	if err != nil {
		return unavailable(string(method), err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return unavailable(string(method), fmt.Errorf("unexpected status %s", res.Status))
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseSize))
	if err != nil {
		return unavailable(string(method), err)
	}

	var rpcRes rpcResponse
	if err := json.Unmarshal(body, &rpcRes); err != nil {
		return malformed(string(method), err.Error())
	}
	if rpcRes.Error != nil {
		return fmt.Errorf("%s: %w", method, rpcRes.Error)
	}
	if len(rpcRes.Result) == 0 || string(rpcRes.Result) == "null" {
		return malformed(string(method), "missing result")
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(rpcRes.Result, out); err != nil {
		return malformed(string(method), err.Error())
	}
	return nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return http.DefaultClient
	}
	return c.HTTPClient
}

// Ping checks that Kodi is answering JSON-RPC requests
func (c *Client) Ping(ctx context.Context) error {
	var pong string
	if err := c.Call(ctx, MethodPing, nil, &pong); err != nil {
		return err
	}
	if pong != "pong" {
		return malformed(string(MethodPing), fmt.Sprintf("unexpected reply %q", pong))
	}
	return nil
}

// GetActivePlayers lists the players Kodi currently has open
func (c *Client) GetActivePlayers(ctx context.Context) ([]Player, error) {
	var players []Player
	if err := c.Call(ctx, MethodGetActivePlayers, nil, &players); err != nil {
		return nil, err
	}
	return players, nil
}

// activePlayer returns the first active player, preferring video players
func (c *Client) activePlayer(ctx context.Context) (Player, error) {
	players, err := c.GetActivePlayers(ctx)
	if err != nil {
		return Player{}, err
	}
	if len(players) == 0 {
		return Player{}, ErrNoActivePlayer
	}
	for _, p := range players {
		if p.Type == "video" {
			return p, nil
		}
	}
	return players[0], nil
}

// GetActivePlayerItem reports the item loaded in the active player.
// With no active player it returns an empty PlayerState and no error.
func (c *Client) GetActivePlayerItem(ctx context.Context) (PlayerState, error) {
	player, err := c.activePlayer(ctx)
	if err != nil {
		if IsNoActivePlayer(err) {
			return PlayerState{}, nil
		}
		return PlayerState{}, err
	}

	var res struct {
		Item *struct {
			ID    int    `json:"id"`
			Label string `json:"label"`
			Type  string `json:"type"`
		} `json:"item"`
	}
	params := map[string]any{"playerid": player.PlayerID, "properties": []string{}}
	if err := c.Call(ctx, MethodGetItem, params, &res); err != nil {
		return PlayerState{}, err
	}
	if res.Item == nil {
		return PlayerState{}, malformed(string(MethodGetItem), "missing item")
	}

	state := PlayerState{
		PlayerID: player.PlayerID,
		Label:    res.Item.Label,
		ID:       res.Item.ID,
		Kind:     ItemKind(res.Item.Type),
	}
	if state.Label == "" {
		state.Kind = KindNone
	}
	return state, nil
}

// GetMovieDetails fetches the requested properties of a library movie
func (c *Client) GetMovieDetails(ctx context.Context, movieID int, properties []string) (MovieDetails, error) {
	var res struct {
		MovieDetails *MovieDetails `json:"moviedetails"`
	}
	params := map[string]any{"movieid": movieID, "properties": properties}
	if err := c.Call(ctx, MethodGetMovieDetails, params, &res); err != nil {
		return MovieDetails{}, err
	}
	if res.MovieDetails == nil {
		return MovieDetails{}, malformed(string(MethodGetMovieDetails), "missing moviedetails")
	}
	return *res.MovieDetails, nil
}

// GetEpisodeDetails fetches the requested properties of a library episode
func (c *Client) GetEpisodeDetails(ctx context.Context, episodeID int, properties []string) (EpisodeDetails, error) {
	var res struct {
		EpisodeDetails *EpisodeDetails `json:"episodedetails"`
	}
	params := map[string]any{"episodeid": episodeID, "properties": properties}
	if err := c.Call(ctx, MethodGetEpisodeDetails, params, &res); err != nil {
		return EpisodeDetails{}, err
	}
	if res.EpisodeDetails == nil {
		return EpisodeDetails{}, malformed(string(MethodGetEpisodeDetails), "missing episodedetails")
	}
	return *res.EpisodeDetails, nil
}

// GetTVShowDetails fetches the label of a TV show
func (c *Client) GetTVShowDetails(ctx context.Context, tvShowID int) (LabelDetails, error) {
	var res struct {
		TVShowDetails *LabelDetails `json:"tvshowdetails"`
	}
	params := map[string]any{"tvshowid": tvShowID}
	if err := c.Call(ctx, MethodGetTVShowDetails, params, &res); err != nil {
		return LabelDetails{}, err
	}
	if res.TVShowDetails == nil {
		return LabelDetails{}, malformed(string(MethodGetTVShowDetails), "missing tvshowdetails")
	}
	return *res.TVShowDetails, nil
}

// GetSeasonDetails fetches the label of a season
func (c *Client) GetSeasonDetails(ctx context.Context, seasonID int) (LabelDetails, error) {
	var res struct {
		SeasonDetails *LabelDetails `json:"seasondetails"`
	}
	params := map[string]any{"seasonid": seasonID}
	if err := c.Call(ctx, MethodGetSeasonDetails, params, &res); err != nil {
		return LabelDetails{}, err
	}
	if res.SeasonDetails == nil {
		return LabelDetails{}, malformed(string(MethodGetSeasonDetails), "missing seasondetails")
	}
	return *res.SeasonDetails, nil
}

// GetMovies lists every movie in the video library
func (c *Client) GetMovies(ctx context.Context) ([]Movie, error) {
	var res struct {
		Movies []Movie `json:"movies"`
	}
	if err := c.Call(ctx, MethodGetMovies, nil, &res); err != nil {
		return nil, err
	}
	// Kodi omits the movies key entirely for an empty library
	if res.Movies == nil {
		return []Movie{}, nil
	}
	return res.Movies, nil
}

// OpenMovie starts playback of a library movie
func (c *Client) OpenMovie(ctx context.Context, movieID int) error {
	params := map[string]any{"item": map[string]int{"movieid": movieID}}
	return c.Call(ctx, MethodOpen, params, nil)
}

// PlayPause toggles playback on the active player
func (c *Client) PlayPause(ctx context.Context) error {
	player, err := c.activePlayer(ctx)
	if err != nil {
		return err
	}
	return c.Call(ctx, MethodPlayPause, map[string]int{"playerid": player.PlayerID}, nil)
}

// Stop stops the active player
func (c *Client) Stop(ctx context.Context) error {
	player, err := c.activePlayer(ctx)
	if err != nil {
		return err
	}
	return c.Call(ctx, MethodStop, map[string]int{"playerid": player.PlayerID}, nil)
}
