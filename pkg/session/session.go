package session

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/0xmhha/filewatch/pkg/logger"
	"github.com/0xmhha/filewatch/pkg/notify"
	"github.com/0xmhha/filewatch/pkg/source"
)

// Session is one watch over a fixed set of patterns.
//
// Raw events, settled changes and the ready signal are all handled on a
// single loop goroutine, so publishing to the sink is serialized. Stop must
// not be called from a sink handler, since it waits for that loop to exit.
type Session struct {
	patterns []string
	opts     Options
	sink     notify.Sink
	log      logger.Logger

	announce WatchCallback
	gates    *gateSet

	mu       sync.Mutex
	state    State
	resolved []string
	known    map[string]struct{}
	src      source.Source
	done     chan struct{}
	loopDone chan struct{}

	// Settled paths waiting for the loop, in emission order.
	queueMu sync.Mutex
	queue   []string
	wake    chan struct{}
}

// New creates an idle session for patterns. Nothing is resolved or watched
// until Start.
func New(patterns []string, opts Options, sink notify.Sink) *Session {
	opts = opts.withDefaults()

	s := &Session{
		patterns: append([]string(nil), patterns...),
		opts:     opts,
		sink:     sink,
		log:      opts.Logger.Named("session"),
		announce: GetWatchCallback(opts, sink),
		known:    make(map[string]struct{}),
		done:     make(chan struct{}),
		loopDone: make(chan struct{}),
		wake:     make(chan struct{}, 1),
	}
	s.gates = newGateSet(opts.gateConfig(), s.enqueue)
	return s
}

// Patterns returns a copy of the patterns the session was created with.
func (s *Session) Patterns() []string {
	return append([]string(nil), s.patterns...)
}

// Watched returns the concrete paths under watch, sorted.
func (s *Session) Watched() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths := make([]string, 0, len(s.known))
	for p := range s.known {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// PendingChanges returns the number of paths with a running settle window.
func (s *Session) PendingChanges() int {
	return s.gates.pending()
}

// Start resolves the patterns and installs the raw event source. It returns
// once the source is installed; the watch-start log message is published
// when the source reports ready.
//
// A resolution failure is returned wrapped in ErrResolve and leaves the
// session stopped.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return ErrAlreadyStarted
	}
	s.state = StateStarting

	files, err := s.opts.Resolver.Resolve(s.patterns)
	if err != nil {
		s.abortLocked()
		s.log.Error("pattern resolution failed", "patterns", s.patterns, "error", err)
		return fmt.Errorf("%w: %w", ErrResolve, err)
	}

	src, err := s.opts.NewSource(s.patterns)
	if err != nil {
		s.abortLocked()
		return fmt.Errorf("%w: %w", ErrSource, err)
	}
	if err := src.Start(ctx, files); err != nil {
		if closeErr := src.Close(); closeErr != nil {
			s.log.Warn("failed to close source after start error", "error", closeErr)
		}
		s.abortLocked()
		return fmt.Errorf("%w: %w", ErrSource, err)
	}

	s.src = src
	s.resolved = files
	for _, f := range files {
		s.known[f] = struct{}{}
	}

	s.log.Info("session starting",
		"patterns", s.patterns,
		"matched", len(files),
		"file_timeout", s.opts.FileTimeout)

	go s.loop(ctx)
	return nil
}

// abortLocked moves a session that never reached its loop to Stopped.
func (s *Session) abortLocked() {
	s.state = StateStopped
	close(s.done)
	close(s.loopDone)
	s.gates.stop()
}

// Stop cancels every pending settle window, detaches the source and drops
// any settled change not yet published. Stopping an already stopped session
// is a no-op.
func (s *Session) Stop() error {
	s.mu.Lock()
	switch s.state {
	case StateIdle:
		s.mu.Unlock()
		return ErrNotStarted
	case StateStopped:
		s.mu.Unlock()
		return nil
	}
	s.state = StateStopped
	close(s.done)
	src := s.src
	s.mu.Unlock()

	if cancelled := s.gates.pendingPaths(); len(cancelled) > 0 {
		s.log.Debug("cancelling settle windows", "paths", cancelled)
	}
	s.gates.stop()
	<-s.loopDone

	s.queueMu.Lock()
	dropped := len(s.queue)
	s.queue = nil
	s.queueMu.Unlock()

	s.log.Info("session stopped", "dropped_changes", dropped)

	if err := src.Close(); err != nil {
		return fmt.Errorf("failed to close source: %w", err)
	}
	return nil
}

// enqueue receives settled paths from gates, on timer goroutines or on the
// loop itself, and hands them to the loop.
func (s *Session) enqueue(path string) {
	select {
	case <-s.done:
		return
	default:
	}

	s.queueMu.Lock()
	s.queue = append(s.queue, path)
	s.queueMu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Session) loop(ctx context.Context) {
	defer close(s.loopDone)

	events := s.src.Events()
	errs := s.src.Errors()

	for {
		select {
		case <-s.done:
			return

		case <-ctx.Done():
			s.log.Info("context cancelled, stopping session")
			go func() {
				if err := s.Stop(); err != nil {
					s.log.Warn("stop after cancellation failed", "error", err)
				}
			}()
			return

		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			s.handle(ev)

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			s.log.Warn("event source error", "error", err)

		case <-s.wake:
			s.publishSettled()
		}
	}
}

func (s *Session) handle(ev source.Event) {
	switch ev.Kind {
	case source.KindReady:
		s.mu.Lock()
		first := s.state == StateStarting
		if first {
			s.state = StateWatching
		}
		files := append([]string(nil), s.resolved...)
		s.mu.Unlock()

		if first {
			s.log.Info("watching", "files", len(files))
			s.announce(files)
		}

	case source.KindAdded:
		s.mu.Lock()
		s.known[ev.Path] = struct{}{}
		s.mu.Unlock()
		s.log.Debug("path added", "path", ev.Path)
		s.gates.dispatch(ev.Path)

	case source.KindChanged:
		s.gates.dispatch(ev.Path)
	}
}

// publishSettled drains the settle queue onto the sink.
func (s *Session) publishSettled() {
	s.queueMu.Lock()
	paths := s.queue
	s.queue = nil
	s.queueMu.Unlock()

	for _, path := range paths {
		select {
		case <-s.done:
			return
		default:
		}
		s.log.Debug("publishing settled change", "path", path)
		s.sink.Emit(notify.EventFileChanged, notify.FileChanged{Path: path})
	}
}
