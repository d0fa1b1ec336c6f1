package kodi

import (
	"errors"
	"fmt"
)

// Kodi client errors
var (
	// ErrRemoteUnavailable indicates Kodi could not be reached or answered with a non-2xx status
	ErrRemoteUnavailable = errors.New("kodi is unavailable")

	// ErrMalformedResponse indicates Kodi answered but a required field was missing or had the wrong shape
	ErrMalformedResponse = errors.New("malformed kodi response")

	// ErrNoActivePlayer indicates a player command was issued while nothing is playing
	ErrNoActivePlayer = errors.New("no active player")
)

// RPCError is the error object of a JSON-RPC response
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *RPCError) Error() string {
	return fmt.Sprintf("json-rpc error %d: %s", e.Code, e.Message)
}

// Unwrap lets errors.Is match ErrMalformedResponse: Kodi rejected the request shape
func (e *RPCError) Unwrap() error {
	return ErrMalformedResponse
}

// IsRemoteUnavailable checks if the error is a transport failure talking to Kodi
func IsRemoteUnavailable(err error) bool {
	return errors.Is(err, ErrRemoteUnavailable)
}

// IsMalformedResponse checks if the error is an unexpected response from Kodi
func IsMalformedResponse(err error) bool {
	return errors.Is(err, ErrMalformedResponse)
}

// IsNoActivePlayer checks if the error is a no active player error
func IsNoActivePlayer(err error) bool {
	return errors.Is(err, ErrNoActivePlayer)
}

func unavailable(method string, cause error) error {
	return fmt.Errorf("%w: %s: %v", ErrRemoteUnavailable, method, cause)
}

func malformed(method, detail string) error {
	return fmt.Errorf("%w: %s: %s", ErrMalformedResponse, method, detail)
}
