// Package journal records settled file changes so they can be listed after
// a watch session has ended.
//
// Entries are keyed by path. Each settled change bumps the entry's counter
// and remembers the size and time of the latest one.
//
// Example usage:
//
//	store, err := journal.Open(journal.Config{
//	    DBPath: "~/.config/filewatch/journal.db",
//	}, logger.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	unsubscribe := journal.Subscribe(bus, store, os.Stat, logger.Default())
//	defer unsubscribe()
package journal

import "time"

// Entry is the recorded history of one path.
type Entry struct {
	// Path is the watched path as published in file:changed.
	Path string `json:"path"`

	// Changes counts settled changes seen for Path.
	Changes int `json:"changes"`

	// LastSize is the size in bytes read at the latest change.
	LastSize int64 `json:"last_size"`

	// LastChanged is when the latest change was recorded.
	LastChanged time.Time `json:"last_changed"`
}

// Store persists entries.
type Store interface {
	// Record adds one settled change for path.
	Record(path string, size int64, at time.Time) error

	// Get returns the entry for path or ErrNotFound.
	Get(path string) (Entry, error)

	// List returns all entries, most recently changed first.
	List() ([]Entry, error)

	// Close releases the underlying storage.
	Close() error
}

// Config configures the bolt-backed store.
type Config struct {
	// DBPath is the database file. A leading "~/" is expanded.
	DBPath string

	// Timeout bounds how long Open waits for the file lock.
	// Default: 1s.
	Timeout time.Duration
}
