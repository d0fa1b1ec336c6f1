// Package nowplaying resolves what Kodi is currently playing into a normalized
// descriptor, reusing the last result for a short window between Kodi lookups.
package nowplaying

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stwalsh4118/kodiserv/internal/kodi"
	"github.com/stwalsh4118/kodiserv/internal/logger"
	"github.com/stwalsh4118/kodiserv/internal/metrics"
)

const (
	// DefaultThreshold is the minimum interval between two Kodi lookups
	DefaultThreshold = 5 * time.Second
	// DefaultTimeout bounds a single refresh
	DefaultTimeout = 5 * time.Second
)

// Kodi reports lastplayed as a local datetime, or just a date for some scrapers
var lastPlayedLayouts = []string{"2006-01-02 15:04:05", "2006-01-02"}

// MediaCenter is the subset of the Kodi client the resolver needs
type MediaCenter interface {
	GetActivePlayerItem(ctx context.Context) (kodi.PlayerState, error)
	GetMovieDetails(ctx context.Context, movieID int, properties []string) (kodi.MovieDetails, error)
	GetEpisodeDetails(ctx context.Context, episodeID int, properties []string) (kodi.EpisodeDetails, error)
	GetTVShowDetails(ctx context.Context, tvShowID int) (kodi.LabelDetails, error)
	GetSeasonDetails(ctx context.Context, seasonID int) (kodi.LabelDetails, error)
}

// Options configures a Resolver. A zero Threshold disables caching and a
// zero Timeout falls back to DefaultTimeout.
type Options struct {
	Threshold time.Duration
	Timeout   time.Duration
}

// Resolver produces NowPlaying descriptors, reusing the last one while it is
// younger than the threshold
type Resolver struct {
	mc        MediaCenter
	threshold time.Duration
	timeout   time.Duration

	// mu is held across the staleness check and the refresh, so callers
	// arriving inside one window wait for a single Kodi round-trip
	mu          sync.Mutex
	cached      NowPlaying
	refreshedAt time.Time
	populated   bool
}

// NewResolver creates a resolver backed by mc
func NewResolver(mc MediaCenter, opts Options) *Resolver {
	threshold := opts.Threshold
	if threshold < 0 {
		threshold = 0
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Resolver{
		mc:        mc,
		threshold: threshold,
		timeout:   timeout,
	}
}

// GetNowPlaying returns the cached descriptor when the last refresh happened
// less than the threshold before now, and otherwise queries Kodi, caches the
// result with now as its timestamp, and returns it. On failure the error
// wraps ErrResolutionFailed and the cache is left untouched.
func (r *Resolver) GetNowPlaying(ctx context.Context, now time.Time) (NowPlaying, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.populated && now.Sub(r.refreshedAt) < r.threshold {
		metrics.NowPlayingCacheHitsTotal.Inc()
		logger.Log.Debug().
			Time("refreshed_at", r.refreshedAt).
			Str("kind", string(r.cached.Kind())).
			Msg("Serving cached now playing")
		return r.cached, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	descriptor, err := r.resolve(ctx)
	if err != nil {
		metrics.NowPlayingFailuresTotal.Inc()
		logger.Log.Warn().
			Err(err).
			Msg("Failed to resolve now playing")
		return NowPlaying{}, fmt.Errorf("%w: %w", ErrResolutionFailed, err)
	}

	r.cached = descriptor
	r.refreshedAt = now
	r.populated = true
	metrics.NowPlayingRefreshesTotal.Inc()

	logger.Log.Debug().
		Str("kind", string(descriptor.Kind())).
		Str("title", descriptor.Title()).
		Msg("Resolved now playing")

	return descriptor, nil
}

// Peek returns the cached descriptor and its refresh time without contacting Kodi.
// ok is false before the first successful refresh.
func (r *Resolver) Peek() (descriptor NowPlaying, refreshedAt time.Time, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cached, r.refreshedAt, r.populated
}

// Threshold returns the effective cache window
func (r *Resolver) Threshold() time.Duration {
	return r.threshold
}

func (r *Resolver) resolve(ctx context.Context) (NowPlaying, error) {
	state, err := r.mc.GetActivePlayerItem(ctx)
	if err != nil {
		return NowPlaying{}, err
	}

	if !state.Playing() {
		return Inactive(), nil
	}

	switch state.Kind {
	case kodi.KindMovie:
		return r.resolveMovie(ctx, state.ID)
	case kodi.KindEpisode:
		return r.resolveEpisode(ctx, state.ID)
	default:
		return NowPlaying{}, fmt.Errorf("%w: unsupported item type %q for %q",
			kodi.ErrMalformedResponse, state.Kind, state.Label)
	}
}

func (r *Resolver) resolveMovie(ctx context.Context, movieID int) (NowPlaying, error) {
	details, err := r.mc.GetMovieDetails(ctx, movieID, kodi.MovieProperties)
	if err != nil {
		return NowPlaying{}, err
	}
	if details.Title == "" {
		return NowPlaying{}, fmt.Errorf("%w: movie %d has no title", kodi.ErrMalformedResponse, movieID)
	}

	lastPlayed, err := parseLastPlayed(details.LastPlayed)
	if err != nil {
		return NowPlaying{}, err
	}

	return MovieNowPlaying(MovieDescriptor{
		Active:        true,
		Title:         details.Title,
		IMDBNumber:    details.IMDBNumber,
		LastPlayed:    lastPlayed,
		StreamDetails: details.StreamDetails,
	}), nil
}

func (r *Resolver) resolveEpisode(ctx context.Context, episodeID int) (NowPlaying, error) {
	details, err := r.mc.GetEpisodeDetails(ctx, episodeID, kodi.EpisodeProperties)
	if err != nil {
		return NowPlaying{}, err
	}
	// Kodi uses -1 for "unknown" ids
	if details.TVShowID <= 0 || details.SeasonID <= 0 {
		return NowPlaying{}, fmt.Errorf("%w: episode %d has no show or season (tvshowid=%d, seasonid=%d)",
			kodi.ErrMalformedResponse, episodeID, details.TVShowID, details.SeasonID)
	}

	show, err := r.mc.GetTVShowDetails(ctx, details.TVShowID)
	if err != nil {
		return NowPlaying{}, err
	}
	season, err := r.mc.GetSeasonDetails(ctx, details.SeasonID)
	if err != nil {
		return NowPlaying{}, err
	}
	if show.Label == "" || season.Label == "" || details.Title == "" {
		return NowPlaying{}, fmt.Errorf("%w: episode %d is missing show, season or episode title",
			kodi.ErrMalformedResponse, episodeID)
	}

	lastPlayed, err := parseLastPlayed(details.LastPlayed)
	if err != nil {
		return NowPlaying{}, err
	}

	return EpisodeNowPlaying(EpisodeDescriptor{
		Active:        true,
		Title:         EpisodeTitle(show.Label, season.Label, details.Title),
		LastPlayed:    lastPlayed,
		StreamDetails: details.StreamDetails,
	}), nil
}

// EpisodeTitle builds the combined "<show> <season>: <episode>" title
func EpisodeTitle(show, season, episode string) string {
	return fmt.Sprintf("%s %s: %s", show, season, episode)
}

func parseLastPlayed(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range lastPlayedLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: unparseable lastplayed %q", kodi.ErrMalformedResponse, value)
}
