package source

import "errors"

// Common errors returned by the source.
var (
	// ErrClosed is returned when attempting to use a closed source.
	ErrClosed = errors.New("source is closed")

	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("source already started")

	// ErrCircuitBreakerOpen is sent once when consecutive watcher errors
	// reach the configured threshold.
	ErrCircuitBreakerOpen = errors.New("circuit breaker open")
)
