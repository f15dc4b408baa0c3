package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/0xmhha/filewatch/pkg/notify"
)

// console prints session events. On a terminal, a log message with
// Override set replaces the previous override message in place.
type console struct {
	out   io.Writer
	tty   bool
	quiet bool
	now   func() time.Time

	mu sync.Mutex
	// Lines written by the last override message, if it is still the
	// bottom of the output.
	overrideLines int
}

func newConsole(out io.Writer, tty, quiet bool) *console {
	return &console{out: out, tty: tty, quiet: quiet, now: time.Now}
}

// subscribe attaches the console to bus and returns an unsubscribe func.
func (c *console) subscribe(bus *notify.Bus) func() {
	unsubLog := bus.Subscribe(notify.EventLog, c.onLog)
	unsubChanged := bus.Subscribe(notify.EventFileChanged, c.onChanged)
	return func() {
		unsubLog()
		unsubChanged()
	}
}

func (c *console) onLog(payload any) {
	msg, ok := payload.(notify.Log)
	if !ok || c.quiet {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if msg.Override && c.tty && c.overrideLines > 0 {
		// Cursor up over the previous message, then clear to end of screen.
		fmt.Fprintf(c.out, "\033[%dA\r\033[J", c.overrideLines)
	}
	fmt.Fprintln(c.out, msg.Msg)

	c.overrideLines = 0
	if msg.Override {
		c.overrideLines = strings.Count(msg.Msg, "\n") + 1
	}
}

func (c *console) onChanged(payload any) {
	changed, ok := payload.(notify.FileChanged)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.overrideLines = 0
	if c.quiet {
		fmt.Fprintln(c.out, changed.Path)
		return
	}
	fmt.Fprintf(c.out, "[%s] changed: %s\n", c.now().Format("15:04:05"), changed.Path)
}
