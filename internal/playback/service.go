// Package playback issues player commands to Kodi.
package playback

import (
	"context"
	"fmt"
	"strings"

	"github.com/stwalsh4118/kodiserv/internal/kodi"
	"github.com/stwalsh4118/kodiserv/internal/logger"
)

// Player is the subset of the Kodi client that controls playback
type Player interface {
	OpenMovie(ctx context.Context, movieID int) error
	PlayPause(ctx context.Context) error
	Stop(ctx context.Context) error
}

// TitleResolver maps a title to a library movie
type TitleResolver interface {
	ResolveTitle(ctx context.Context, title string) (kodi.Movie, error)
}

// PlayRequest names what to play. A positive ID wins over Title.
type PlayRequest struct {
	Title string
	ID    int
}

// Service issues playback commands
type Service struct {
	player   Player
	resolver TitleResolver
}

// NewService creates a playback service
func NewService(player Player, resolver TitleResolver) *Service {
	return &Service{player: player, resolver: resolver}
}

// Play starts a library movie and returns the id that was opened
func (s *Service) Play(ctx context.Context, req PlayRequest) (int, error) {
	movieID := req.ID
	title := strings.TrimSpace(req.Title)

	if movieID <= 0 {
		if title == "" {
			return 0, ErrMissingTarget
		}
		movie, err := s.resolver.ResolveTitle(ctx, title)
		if err != nil {
			return 0, err
		}
		movieID = movie.MovieID
	}

	if err := s.player.OpenMovie(ctx, movieID); err != nil {
		logger.Log.Error().
			Err(err).
			Int("movie_id", movieID).
			Msg("Failed to open movie")
		return 0, fmt.Errorf("failed to play movie %d: %w", movieID, err)
	}

	logger.Log.Info().
		Int("movie_id", movieID).
		Str("title", title).
		Msg("Playback started")

	return movieID, nil
}

// Pause toggles the active player. Kodi has no separate pause call so this
// matches PlayPause.
func (s *Service) Pause(ctx context.Context) error {
	return s.PlayPause(ctx)
}

// PlayPause toggles the active player between playing and paused
func (s *Service) PlayPause(ctx context.Context) error {
	if err := s.player.PlayPause(ctx); err != nil {
		return fmt.Errorf("failed to toggle playback: %w", err)
	}
	logger.Log.Info().Msg("Playback toggled")
	return nil
}

// Stop stops the active player
func (s *Service) Stop(ctx context.Context) error {
	if err := s.player.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop playback: %w", err)
	}
	logger.Log.Info().Msg("Playback stopped")
	return nil
}
