// Package session wires a raw event source, per-path change gates and a
// notification sink into one watch session.
//
// A session resolves its patterns once, announces what it is watching on
// the log channel when the source is ready, and publishes file:changed for
// every settled change until it is stopped.
//
// Example usage:
//
//	bus := notify.NewBus(log)
//	bus.Subscribe(notify.EventFileChanged, func(p any) {
//	    fmt.Println("reload:", p.(notify.FileChanged).Path)
//	})
//
//	s := session.New([]string{"public/**/*.css"}, session.Options{
//	    FileTimeout: 300 * time.Millisecond,
//	    Logger:      log,
//	}, bus)
//	if err := s.Start(ctx); err != nil {
//	    log.Error("watch failed", "error", err)
//	}
//	defer s.Stop()
package session

import (
	"time"

	"github.com/benbjohnson/clock"

	"github.com/0xmhha/filewatch/pkg/gate"
	"github.com/0xmhha/filewatch/pkg/logger"
	"github.com/0xmhha/filewatch/pkg/messages"
	"github.com/0xmhha/filewatch/pkg/resolver"
	"github.com/0xmhha/filewatch/pkg/source"
)

// State is the lifecycle phase of a session.
type State int32

// Session states. A session moves forward only.
const (
	StateIdle State = iota
	StateStarting
	StateWatching
	StateStopped
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateWatching:
		return "watching"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// SourceFactory builds the raw event source for a session's patterns.
type SourceFactory func(patterns []string) (source.Source, error)

// Options configures a session and the callbacks built from it.
type Options struct {
	// FileTimeout is the quiet period a file's size must stay stable before
	// its change is published. Zero publishes on every non-empty read.
	FileTimeout time.Duration

	// Root is the directory relative patterns resolve against.
	// Default: the working directory.
	Root string

	// Stat reads file sizes. Default: os.Stat.
	Stat gate.StatFunc

	// Clock schedules settle windows. Default: the wall clock.
	Clock clock.Clock

	// Formatter renders the watch-start message. Default: messages.Default.
	Formatter messages.Formatter

	// Resolver expands patterns. Default: a resolver.Glob at Root.
	Resolver resolver.Resolver

	// NewSource creates the raw event source. Default: fsnotify.
	NewSource SourceFactory

	// Logger receives diagnostics. Default: discard.
	Logger logger.Logger
}

// withDefaults fills unset options.
func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = logger.Noop()
	}
	if o.Formatter == nil {
		o.Formatter = messages.Default
	}
	if o.Resolver == nil {
		o.Resolver = resolver.New(o.Root, o.Logger.Named("resolver"))
	}
	if o.NewSource == nil {
		root, log := o.Root, o.Logger.Named("source")
		o.NewSource = func(patterns []string) (source.Source, error) {
			return source.New(source.Config{Patterns: patterns, Root: root}, log)
		}
	}
	return o
}

// gateConfig derives the per-path gate configuration.
func (o Options) gateConfig() gate.Config {
	return gate.Config{
		Timeout: o.FileTimeout,
		Stat:    o.Stat,
		Clock:   o.Clock,
		Logger:  o.Logger.Named("gate"),
	}.WithDefaults()
}
