package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/0xmhha/filewatch/pkg/journal"
)

// tableFormatter formats output as tables.
type tableFormatter struct {
	config Config
}

// FormatHistory implements Formatter.FormatHistory.
func (f *tableFormatter) FormatHistory(w io.Writer, entries []journal.Entry) error {
	if err := writeHeader(w, "Change History", f.config.Compact); err != nil {
		return err
	}

	header := []string{"Path", "Changes", "Last Size"}
	if f.config.ShowTimestamps {
		header = append(header, "Last Changed")
	}

	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.Path, fmt.Sprintf("%d", e.Changes), formatBytes(e.LastSize)}
		if f.config.ShowTimestamps {
			rows[i] = append(rows[i], e.LastChanged.Local().Format(timestampLayout))
		}
	}

	return f.writeTable(w, header, rows)
}

// FormatFiles implements Formatter.FormatFiles.
func (f *tableFormatter) FormatFiles(w io.Writer, files []string) error {
	if err := writeHeader(w, "Matched Files", f.config.Compact); err != nil {
		return err
	}

	rows := make([][]string, len(files))
	for i, file := range files {
		rows[i] = []string{fmt.Sprintf("%d", i+1), file}
	}

	return f.writeTable(w, []string{"#", "Path"}, rows)
}

// writeTable writes a formatted table.
func (f *tableFormatter) writeTable(w io.Writer, header []string, rows [][]string) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No data")
		return err
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	if err := f.writeRow(w, header, widths); err != nil {
		return err
	}

	if !f.config.Compact {
		separator := make([]string, len(header))
		for i, width := range widths {
			separator[i] = strings.Repeat("-", width)
		}
		if err := f.writeRow(w, separator, widths); err != nil {
			return err
		}
	}

	for _, row := range rows {
		if err := f.writeRow(w, row, widths); err != nil {
			return err
		}
	}

	if !f.config.Compact {
		_, err := fmt.Fprintln(w)
		return err
	}
	return nil
}

// writeRow writes a single table row. Trailing padding is trimmed.
func (f *tableFormatter) writeRow(w io.Writer, cells []string, widths []int) error {
	gap := "  "
	if f.config.Compact {
		gap = " "
	}

	var b strings.Builder
	for i, cell := range cells {
		if i > 0 {
			b.WriteString(gap)
		}
		fmt.Fprintf(&b, "%-*s", widths[i], cell)
	}

	_, err := fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	return err
}
