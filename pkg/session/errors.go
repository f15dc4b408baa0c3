package session

import "errors"

// Common errors returned by a session.
var (
	// ErrResolve wraps a pattern resolution failure at Start.
	ErrResolve = errors.New("failed to resolve watch patterns")

	// ErrSource wraps a failure to create or start the raw event source.
	ErrSource = errors.New("failed to start event source")

	// ErrAlreadyStarted is returned when Start is called more than once.
	ErrAlreadyStarted = errors.New("session already started")

	// ErrNotStarted is returned when Stop is called before Start.
	ErrNotStarted = errors.New("session not started")
)
