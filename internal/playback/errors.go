package playback

import "errors"

// ErrMissingTarget indicates play was requested without a title or movie id
var ErrMissingTarget = errors.New("a title or movie id is required")

// IsMissingTarget checks if the error is a missing target error
func IsMissingTarget(err error) bool {
	return errors.Is(err, ErrMissingTarget)
}
