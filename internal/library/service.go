// Package library provides movie listing and title matching against the Kodi video library.
package library

import (
	"context"
	"fmt"
	"strings"

	"github.com/stwalsh4118/kodiserv/internal/kodi"
	"github.com/stwalsh4118/kodiserv/internal/logger"
)

const (
	defaultCutoff     = 0.6
	defaultMaxResults = 3
)

// MovieLister is the subset of the Kodi client the library needs
type MovieLister interface {
	GetMovies(ctx context.Context) ([]kodi.Movie, error)
}

// Options controls title matching
type Options struct {
	// FuzzyMatch lets ResolveTitle fall back to the closest match when no label is identical
	FuzzyMatch bool
	Cutoff     float64
	MaxResults int
}

// Service answers library queries
type Service struct {
	lister MovieLister
	opts   Options
}

// NewService creates a library service. Zero Cutoff and MaxResults use the defaults.
func NewService(lister MovieLister, opts Options) *Service {
	if opts.Cutoff <= 0 {
		opts.Cutoff = defaultCutoff
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = defaultMaxResults
	}
	return &Service{lister: lister, opts: opts}
}

// Movies lists every movie in the library
func (s *Service) Movies(ctx context.Context) ([]kodi.Movie, error) {
	movies, err := s.lister.GetMovies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	return movies, nil
}

// Search returns the movies whose titles are close to title, best first
func (s *Service) Search(ctx context.Context, title string) ([]Match, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	movies, err := s.Movies(ctx)
	if err != nil {
		return nil, err
	}

	matches := CloseMatches(title, movies, s.opts.MaxResults, s.opts.Cutoff)

	logger.Log.Debug().
		Str("title", title).
		Int("library_size", len(movies)).
		Int("matches", len(matches)).
		Msg("Library search complete")

	return matches, nil
}

// ResolveTitle finds the movie with the given label. Labels are compared
// exactly first; with fuzzy matching enabled the best close match wins.
func (s *Service) ResolveTitle(ctx context.Context, title string) (kodi.Movie, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return kodi.Movie{}, ErrEmptyTitle
	}

	movies, err := s.Movies(ctx)
	if err != nil {
		return kodi.Movie{}, err
	}

	for _, m := range movies {
		if m.Label == title {
			return m, nil
		}
	}

	if !s.opts.FuzzyMatch {
		return kodi.Movie{}, fmt.Errorf("%w: %q", ErrMovieNotFound, title)
	}

	matches := CloseMatches(title, movies, 1, s.opts.Cutoff)
	if len(matches) == 0 {
		return kodi.Movie{}, fmt.Errorf("%w: %q", ErrMovieNotFound, title)
	}

	logger.Log.Info().
		Str("title", title).
		Str("matched", matches[0].Label).
		Float64("score", matches[0].Score).
		Msg("Resolved title by fuzzy match")

	return kodi.Movie{MovieID: matches[0].MovieID, Label: matches[0].Label}, nil
}
