package config

import (
	"os"
	"path/filepath"
)

// defaultJournalPath returns ~/.config/filewatch/journal.db.
func defaultJournalPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./journal.db"
	}

	return filepath.Join(homeDir, ".config", "filewatch", "journal.db")
}

// DefaultConfigPath returns ~/.config/filewatch/config.yaml.
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./filewatch.yaml"
	}

	return filepath.Join(homeDir, ".config", "filewatch", "config.yaml")
}
