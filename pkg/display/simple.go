package display

import (
	"fmt"
	"io"

	"github.com/0xmhha/filewatch/pkg/journal"
)

// simpleFormatter formats output as simple text.
type simpleFormatter struct {
	config Config
}

// FormatHistory implements Formatter.FormatHistory.
func (f *simpleFormatter) FormatHistory(w io.Writer, entries []journal.Entry) error {
	for _, e := range entries {
		line := fmt.Sprintf("%s: %d changes, last %s", e.Path, e.Changes, formatBytes(e.LastSize))
		if f.config.ShowTimestamps {
			line += " at " + e.LastChanged.Local().Format(timestampLayout)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// FormatFiles implements Formatter.FormatFiles.
func (f *simpleFormatter) FormatFiles(w io.Writer, files []string) error {
	for _, file := range files {
		if _, err := fmt.Fprintln(w, file); err != nil {
			return err
		}
	}
	return nil
}
