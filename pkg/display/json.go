package display

import (
	"encoding/json"
	"io"

	"github.com/0xmhha/filewatch/pkg/journal"
)

// jsonFormatter formats output as JSON.
type jsonFormatter struct {
	config Config
}

// FormatHistory implements Formatter.FormatHistory.
func (f *jsonFormatter) FormatHistory(w io.Writer, entries []journal.Entry) error {
	if entries == nil {
		entries = []journal.Entry{}
	}
	return f.encoder(w).Encode(entries)
}

// FormatFiles implements Formatter.FormatFiles.
func (f *jsonFormatter) FormatFiles(w io.Writer, files []string) error {
	if files == nil {
		files = []string{}
	}
	return f.encoder(w).Encode(files)
}

func (f *jsonFormatter) encoder(w io.Writer) *json.Encoder {
	encoder := json.NewEncoder(w)
	if !f.config.Compact {
		encoder.SetIndent("", "  ")
	}
	return encoder
}
