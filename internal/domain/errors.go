package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNoTeamFound     = errors.New("no team found")
	ErrTeamIDNotSet    = errors.New("team id not set")
	ErrSecretNotFound  = errors.New("secret not found")
	ErrLoginInProgress = errors.New("login already in progress")
)

// NetworkError reports a transport failure or an unexpected HTTP status.
// StatusCode is zero when no response was received.
type NetworkError struct {
	Message    string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("network error (HTTP %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("network error: %s", e.Message)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// DecodingError reports a 2xx response whose body could not be decoded.
type DecodingError struct {
	Message    string
	StatusCode int
	Err        error
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("decoding error (HTTP %d): %s", e.StatusCode, e.Message)
}

func (e *DecodingError) Unwrap() error {
	return e.Err
}

type InvalidURLError struct {
	Endpoint string
	Err      error
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid url for endpoint %q", e.Endpoint)
}

func (e *InvalidURLError) Unwrap() error {
	return e.Err
}

type UnknownError struct {
	Message string
}

func (e *UnknownError) Error() string {
	if e.Message == "" {
		return "unknown error"
	}
	return "unknown error: " + e.Message
}

// IsUnauthorized reports whether err means the session token is no longer accepted.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
