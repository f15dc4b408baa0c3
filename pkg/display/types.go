// Package display renders journal history and resolved watch sets for the
// command line.
//
// It supports table, JSON and simple text output.
package display

import (
	"io"

	"github.com/0xmhha/filewatch/pkg/journal"
)

// Format represents an output format.
type Format string

const (
	// FormatTable displays rows in an aligned table.
	FormatTable Format = "table"

	// FormatJSON displays rows as JSON.
	FormatJSON Format = "json"

	// FormatSimple displays one line per row.
	FormatSimple Format = "simple"
)

// Formatter writes command output.
type Formatter interface {
	// FormatHistory writes journal entries in the order given.
	FormatHistory(w io.Writer, entries []journal.Entry) error

	// FormatFiles writes the files a set of patterns resolved to.
	FormatFiles(w io.Writer, files []string) error
}

// Config contains formatter configuration.
type Config struct {
	// Format specifies the output format.
	// Default: FormatTable.
	Format Format

	// ShowTimestamps adds the last change time to history rows.
	// Default: false.
	ShowTimestamps bool

	// Compact enables compact output (less whitespace).
	// Default: false.
	Compact bool
}
