package resolver

import "errors"

// Common errors returned by the resolver package.
var (
	// ErrBadPattern is returned when a pattern is not a valid glob.
	ErrBadPattern = errors.New("invalid glob pattern")

	// ErrUnreadableRoot is returned when the resolution root or a pattern
	// base directory cannot be read.
	ErrUnreadableRoot = errors.New("watch root is not readable")

	// ErrNoMatches is returned by ResolveStrict when nothing matched.
	ErrNoMatches = errors.New("no files matched the supplied patterns")
)
