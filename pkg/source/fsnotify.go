package source

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/0xmhha/filewatch/pkg/logger"
	"github.com/0xmhha/filewatch/pkg/resolver"
)

// fsSource implements Source using fsnotify.
type fsSource struct {
	fsw    *fsnotify.Watcher
	log    logger.Logger
	config Config
	glob   *resolver.Glob

	events chan Event
	errors chan error

	mu       sync.Mutex
	started  bool
	closed   bool
	stopChan chan struct{}
	wg       sync.WaitGroup

	// Owned by the processing goroutine after Start returns.
	known          map[string]struct{}
	dirs           map[string]struct{}
	recursiveRoots []string
	failureCount   int
}

// New creates an fsnotify-backed Source.
func New(cfg Config, log logger.Logger) (Source, error) {
	if cfg.CircuitBreakerThreshold <= 0 {
		cfg.CircuitBreakerThreshold = 5
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = 256
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &fsSource{
		fsw:      fsw,
		log:      log,
		config:   cfg,
		glob:     resolver.New(cfg.Root, log),
		events:   make(chan Event, cfg.EventBuffer),
		errors:   make(chan error, 10),
		stopChan: make(chan struct{}),
		known:    make(map[string]struct{}),
		dirs:     make(map[string]struct{}),
	}, nil
}

func (s *fsSource) Start(ctx context.Context, files []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.started {
		return ErrAlreadyStarted
	}

	for _, file := range files {
		path := filepath.Clean(file)
		s.known[path] = struct{}{}
		if err := s.addDir(filepath.Dir(path)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
	}

	for _, root := range s.glob.Roots(s.config.Patterns) {
		if _, err := os.Stat(root.Dir); err != nil {
			s.log.Warn("pattern root does not exist, new files there will be missed",
				"dir", root.Dir)
			continue
		}
		if root.Recursive {
			s.recursiveRoots = append(s.recursiveRoots, root.Dir)
			if err := s.addTree(root.Dir); err != nil {
				return fmt.Errorf("failed to watch %s: %w", root.Dir, err)
			}
			continue
		}
		if err := s.addDir(root.Dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", root.Dir, err)
		}
	}

	s.started = true
	s.events <- Event{Kind: KindReady}

	s.log.Info("source started",
		"files", len(s.known),
		"directories", len(s.dirs))

	s.wg.Add(1)
	go s.processEvents(ctx)

	return nil
}

func (s *fsSource) Events() <-chan Event {
	return s.events
}

func (s *fsSource) Errors() <-chan error {
	return s.errors
}

func (s *fsSource) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.stopChan)
	s.mu.Unlock()

	err := s.fsw.Close()
	s.wg.Wait()

	close(s.events)
	close(s.errors)

	if err != nil {
		s.log.Error("failed to close fsnotify watcher", "error", err)
		return fmt.Errorf("failed to close source: %w", err)
	}

	s.log.Debug("source closed")
	return nil
}

func (s *fsSource) processEvents(ctx context.Context) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			s.log.Debug("event processing stopped", "reason", "context cancelled")
			return

		case <-s.stopChan:
			return

		case event, ok := <-s.fsw.Events:
			if !ok {
				return
			}
			s.handleEvent(event)

		case err, ok := <-s.fsw.Errors:
			if !ok {
				return
			}
			s.handleError(err)
		}
	}
}

// handleEvent maps one fsnotify event onto added/changed.
func (s *fsSource) handleEvent(event fsnotify.Event) {
	path := filepath.Clean(event.Name)

	if event.Has(fsnotify.Create) && s.inRecursiveRoot(path) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := s.addTree(path); err != nil {
				s.log.Warn("failed to watch new directory", "path", path, "error", err)
			}
			return
		}
	}

	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		// Remove, rename and chmod carry no new content. A path that is
		// removed stays known, so an editor's rename-over save is a change.
		return
	}

	kind := KindChanged
	if _, ok := s.known[path]; !ok {
		if !s.glob.Match(s.config.Patterns, path) {
			return
		}
		s.known[path] = struct{}{}
		kind = KindAdded
	}

	s.failureCount = 0
	s.send(Event{Kind: kind, Path: path})
}

func (s *fsSource) send(ev Event) {
	select {
	case s.events <- ev:
	case <-s.stopChan:
	}
}

// handleError forwards watcher errors until the circuit breaker opens.
func (s *fsSource) handleError(err error) {
	s.failureCount++

	s.log.Error("fsnotify error",
		"error", err,
		"failure_count", s.failureCount)

	switch {
	case s.failureCount == s.config.CircuitBreakerThreshold:
		s.log.Error("circuit breaker opened",
			"threshold", s.config.CircuitBreakerThreshold)
		err = ErrCircuitBreakerOpen
	case s.failureCount > s.config.CircuitBreakerThreshold:
		return
	}

	select {
	case s.errors <- err:
	default:
		s.log.Warn("error channel full, dropping error")
	}
}

func (s *fsSource) addDir(dir string) error {
	if _, ok := s.dirs[dir]; ok {
		return nil
	}
	if err := s.fsw.Add(dir); err != nil {
		return err
	}
	s.dirs[dir] = struct{}{}
	s.log.Debug("added watch directory", "path", dir)
	return nil
}

// addTree watches dir and every directory below it.
func (s *fsSource) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			s.log.Warn("error walking path", "path", path, "error", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if addErr := s.addDir(path); addErr != nil {
			if path == dir {
				return addErr
			}
			s.log.Warn("failed to add subdirectory", "path", path, "error", addErr)
		}
		return nil
	})
}

func (s *fsSource) inRecursiveRoot(path string) bool {
	for _, root := range s.recursiveRoots {
		if root == "." && !filepath.IsAbs(path) {
			return true
		}
		if strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
