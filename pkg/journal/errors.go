package journal

import "errors"

// Common errors returned by a journal store.
var (
	// ErrNotFound is returned when a path has no entry.
	ErrNotFound = errors.New("journal entry not found")

	// ErrEmptyPath is returned when recording an empty path.
	ErrEmptyPath = errors.New("journal path cannot be empty")

	// ErrClosed is returned when using a closed store.
	ErrClosed = errors.New("journal store closed")
)
