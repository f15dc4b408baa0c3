package session

import (
	"sync"

	"github.com/0xmhha/filewatch/pkg/gate"
	"github.com/0xmhha/filewatch/pkg/notify"
)

// ChangeCallback handles one raw added/changed event for a path.
type ChangeCallback func(path string)

// WatchCallback announces the watch set once watching has started.
type WatchCallback func(paths []string)

// GetChangeCallback returns a callback that runs every raw event through a
// per-path gate and publishes file:changed on sink for each settled change.
//
// The callback owns its gates; it is independent of any live watcher and
// safe for concurrent use.
func GetChangeCallback(opts Options, sink notify.Sink) ChangeCallback {
	opts = opts.withDefaults()
	gates := newGateSet(opts.gateConfig(), func(path string) {
		sink.Emit(notify.EventFileChanged, notify.FileChanged{Path: path})
	})
	return gates.dispatch
}

// GetWatchCallback returns a callback that publishes the watch-start log
// message on sink. An empty path list selects the formatter's no-argument
// form.
func GetWatchCallback(opts Options, sink notify.Sink) WatchCallback {
	formatter := opts.withDefaults().Formatter
	return func(paths []string) {
		var msg string
		if len(paths) == 0 {
			msg = formatter.Watching()
		} else {
			msg = formatter.Watching(paths...)
		}
		sink.Emit(notify.EventLog, notify.Log{Msg: msg, Override: true})
	}
}

// gateSet lazily creates one gate per path. Gates are never removed until
// the set is stopped.
type gateSet struct {
	cfg  gate.Config
	emit func(path string)

	mu      sync.Mutex
	gates   map[string]*gate.Gate
	stopped bool
}

func newGateSet(cfg gate.Config, emit func(path string)) *gateSet {
	return &gateSet{
		cfg:   cfg,
		emit:  emit,
		gates: make(map[string]*gate.Gate),
	}
}

func (s *gateSet) dispatch(path string) {
	if g := s.get(path); g != nil {
		g.OnRawEvent()
	}
}

// get returns the gate for path, creating it on first use. It returns nil
// once the set is stopped.
func (s *gateSet) get(path string) *gate.Gate {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return nil
	}
	g, ok := s.gates[path]
	if !ok {
		g = gate.New(path, s.cfg, s.emit)
		s.gates[path] = g
	}
	return g
}

// stop cancels every pending settle window.
func (s *gateSet) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	for _, g := range s.gates {
		g.Stop()
	}
}

// pending counts gates with a running settle window.
func (s *gateSet) pending() int {
	return len(s.pendingPaths())
}

// pendingPaths returns the paths with a running settle window.
func (s *gateSet) pendingPaths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var paths []string
	for _, g := range s.gates {
		if g.Pending() {
			paths = append(paths, g.Path())
		}
	}
	return paths
}

func (s *gateSet) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.gates)
}
