// Package messages formats the human-readable status lines published on
// the log channel.
package messages

import "strings"

// Formatter produces the watch-start status line.
//
// Watching is called with the matched paths, or with no arguments at all
// when nothing matched.
type Formatter interface {
	Watching(paths ...string) string
}

// Default is the built-in formatter.
var Default Formatter = defaultFormatter{}

const (
	watchingHeader = "Watching files..."
	watchingNone   = "Not watching any files: no paths matched the supplied patterns"
)

type defaultFormatter struct{}

func (defaultFormatter) Watching(paths ...string) string {
	if len(paths) == 0 {
		return watchingNone
	}

	var b strings.Builder
	b.WriteString(watchingHeader)
	for _, p := range paths {
		b.WriteString("\n  ")
		b.WriteString(p)
	}
	return b.String()
}
