// Package source wraps the operating system's file notification mechanism
// and reports unfiltered per-file events for a watch set.
//
// A Source is started with the concrete files to watch. It watches their
// parent directories, plus the base directory of every pattern so new
// matching files are noticed, and reports:
//
//   - KindAdded when a matching file appears that was not known before
//   - KindChanged when a known file is written or replaced
//   - KindReady once, after the watch set is established
//
// No debouncing happens here; callers filter the noise.
//
// Example usage:
//
//	src, err := source.New(source.Config{Patterns: patterns}, logger.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer src.Close()
//
//	if err := src.Start(ctx, files); err != nil {
//	    log.Fatal(err)
//	}
//	for ev := range src.Events() {
//	    fmt.Printf("%s %s\n", ev.Kind, ev.Path)
//	}
package source

import (
	"context"
)

// Kind tags a raw event.
type Kind uint8

// Event kinds.
const (
	KindAdded Kind = iota + 1
	KindChanged
	KindReady
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindAdded:
		return "added"
	case KindChanged:
		return "changed"
	case KindReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Event is one raw notification. Path is empty for KindReady.
type Event struct {
	Kind Kind
	Path string
}

// Source provides raw file events.
type Source interface {
	// Start installs watches for files and the pattern roots and begins
	// delivering events. It returns once the watches are installed; the
	// KindReady event is already queued at that point.
	Start(ctx context.Context, files []string) error

	// Events returns the raw event channel. It is closed by Close.
	Events() <-chan Event

	// Errors returns non-fatal watcher errors. It is closed by Close.
	Errors() <-chan error

	// Close stops delivery and releases the OS watches.
	Close() error
}

// Config contains source configuration.
type Config struct {
	// Patterns decide which newly created files are reported.
	Patterns []string

	// Root is the directory relative patterns resolve against.
	Root string

	// CircuitBreakerThreshold is the number of consecutive watcher
	// errors after which only ErrCircuitBreakerOpen is reported.
	// Default: 5.
	CircuitBreakerThreshold int

	// EventBuffer is the capacity of the Events channel.
	// Default: 256.
	EventBuffer int
}
