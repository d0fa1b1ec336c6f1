package nowplaying

import "errors"

// ErrResolutionFailed is returned when the current player state could not be
// turned into a descriptor. It wraps the underlying kodi error, so
// kodi.IsRemoteUnavailable and kodi.IsMalformedResponse still apply.
var ErrResolutionFailed = errors.New("failed to resolve now playing")

// IsResolutionFailed checks if the error is a resolution failure
func IsResolutionFailed(err error) bool {
	return errors.Is(err, ErrResolutionFailed)
}
