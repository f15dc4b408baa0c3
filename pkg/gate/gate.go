// Package gate turns bursts of raw filesystem events for one path into at
// most one settled change per logical save.
//
// A Gate reads the file size on every raw event. Zero-length reads are
// treated as a write in progress: they never start a window, and a window
// whose latest read was zero-length ends without emitting. A non-empty read
// (re)starts a debounce window; when the window elapses without another
// non-empty read, the gate emits the path once.
//
// Example usage:
//
//	g := gate.New("site/index.html", gate.Config{Timeout: 300 * time.Millisecond},
//	    func(path string) { fmt.Println("settled:", path) })
//	defer g.Stop()
//	g.OnRawEvent()
package gate

import (
	"os"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/0xmhha/filewatch/pkg/logger"
)

// StatFunc reads file metadata. os.Stat is the default.
type StatFunc func(path string) (os.FileInfo, error)

// Config controls a Gate.
type Config struct {
	// Timeout is the quiet period after the last non-empty read before the
	// change is emitted. Zero or negative emits synchronously.
	Timeout time.Duration

	// Stat reads the file size. Default: os.Stat.
	Stat StatFunc

	// Clock schedules the debounce window. Default: the wall clock.
	Clock clock.Clock

	// Logger receives diagnostics. Default: discard.
	Logger logger.Logger
}

// WithDefaults returns cfg with unset fields filled in.
func (cfg Config) WithDefaults() Config {
	if cfg.Stat == nil {
		cfg.Stat = os.Stat
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Noop()
	}
	return cfg
}

// Gate is the settle state machine for a single path. It is safe for
// concurrent use.
type Gate struct {
	path string
	cfg  Config
	emit func(path string)
	log  logger.Logger

	mu sync.Mutex
	// timer is the only live debounce timer; generation invalidates a timer
	// whose callback was already running when it was replaced or stopped.
	timer      *clock.Timer
	generation uint64
	lastSize   int64
	// lastReadEmpty is set while the most recent successful read was zero
	// bytes; a window ending in that state settles without emitting.
	lastReadEmpty bool
	stopped       bool
}

// New creates a gate for path. emit is called once per settled change.
func New(path string, cfg Config, emit func(path string)) *Gate {
	cfg = cfg.WithDefaults()
	return &Gate{
		path: path,
		cfg:  cfg,
		emit: emit,
		log:  cfg.Logger.With("path", path),
	}
}

// Path returns the guarded path.
func (g *Gate) Path() string {
	return g.path
}

// OnRawEvent handles one raw filesystem event for the gate's path.
//
// Unreadable files and zero-length reads never start or restart a window.
// A pending window whose last read was zero-length ends without emitting.
// Any other read cancels the pending window, if one exists, and starts a
// new one.
func (g *Gate) OnRawEvent() {
	info, err := g.cfg.Stat(g.path)
	if err != nil {
		g.log.Debug("stat failed, event dropped", "error", err)
		return
	}
	size := info.Size()

	g.mu.Lock()
	if g.stopped {
		g.mu.Unlock()
		return
	}
	if size == 0 {
		g.lastReadEmpty = true
		g.mu.Unlock()
		g.log.Debug("zero-length read, write in progress")
		return
	}

	g.lastReadEmpty = false
	g.lastSize = size
	g.cancelLocked()

	if g.cfg.Timeout <= 0 {
		g.mu.Unlock()
		g.log.Debug("change settled", "size", size)
		g.emit(g.path)
		return
	}

	gen := g.generation
	g.timer = g.cfg.Clock.AfterFunc(g.cfg.Timeout, func() {
		g.fire(gen)
	})
	g.mu.Unlock()

	g.log.Debug("settle window restarted", "size", size, "timeout", g.cfg.Timeout)
}

func (g *Gate) fire(gen uint64) {
	g.mu.Lock()
	if g.stopped || gen != g.generation {
		g.mu.Unlock()
		return
	}
	g.timer = nil
	g.generation++
	size, empty := g.lastSize, g.lastReadEmpty
	g.mu.Unlock()

	if empty {
		g.log.Debug("window ended on a zero-length read, change dropped")
		return
	}
	g.log.Debug("change settled", "size", size)
	g.emit(g.path)
}

// cancelLocked stops the pending timer and invalidates its callback.
func (g *Gate) cancelLocked() {
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	g.generation++
}

// Stop cancels the pending window and ignores all later events.
func (g *Gate) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.cancelLocked()
	g.stopped = true
}

// Pending reports whether a debounce window is running.
func (g *Gate) Pending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.timer != nil
}

// LastSize returns the size recorded by the most recent non-empty read.
func (g *Gate) LastSize() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastSize
}
