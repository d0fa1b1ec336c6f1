package library

import "errors"

// Library errors
var (
	// ErrMovieNotFound indicates no movie in the library matches the requested title
	ErrMovieNotFound = errors.New("movie not found")

	// ErrEmptyTitle indicates a search or lookup was requested without a title
	ErrEmptyTitle = errors.New("title is required")
)

// IsMovieNotFound checks if the error is a movie not found error
func IsMovieNotFound(err error) bool {
	return errors.Is(err, ErrMovieNotFound)
}

// IsEmptyTitle checks if the error is an empty title error
func IsEmptyTitle(err error) bool {
	return errors.Is(err, ErrEmptyTitle)
}
