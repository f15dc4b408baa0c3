package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/0xmhha/filewatch/pkg/logger"
)

var bucketChanges = []byte("changes") // Path -> Entry

// boltStore implements Store using BoltDB.
type boltStore struct {
	db  *bolt.DB
	log logger.Logger
}

// Open opens or creates the journal database at cfg.DBPath.
func Open(cfg Config, log logger.Logger) (Store, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = time.Second
	}
	if log == nil {
		log = logger.Noop()
	}

	dbPath := expandHome(cfg.DBPath)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: cfg.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, createErr := tx.CreateBucketIfNotExists(bucketChanges)
		return createErr
	}); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("failed to close journal after initialization error",
				"error", closeErr)
		}
		return nil, fmt.Errorf("failed to create changes bucket: %w", err)
	}

	log.Debug("journal opened", "db_path", dbPath)

	return &boltStore{db: db, log: log}, nil
}

// Record implements Store.Record.
func (s *boltStore) Record(path string, size int64, at time.Time) error {
	if path == "" {
		return ErrEmptyPath
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketChanges)

		entry := Entry{Path: path}
		if data := b.Get([]byte(path)); data != nil {
			if err := json.Unmarshal(data, &entry); err != nil {
				s.log.Warn("replacing unreadable journal entry",
					"path", path,
					"error", err)
				entry = Entry{Path: path}
			}
		}

		entry.Changes++
		entry.LastSize = size
		entry.LastChanged = at

		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("failed to marshal entry: %w", err)
		}
		if err := b.Put([]byte(path), data); err != nil {
			return fmt.Errorf("failed to store entry: %w", err)
		}
		return nil
	})
}

// Get implements Store.Get.
func (s *boltStore) Get(path string) (Entry, error) {
	var entry Entry

	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketChanges).Get([]byte(path))
		if data == nil {
			return ErrNotFound
		}
		if err := json.Unmarshal(data, &entry); err != nil {
			return fmt.Errorf("failed to unmarshal entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// List implements Store.List.
func (s *boltStore) List() ([]Entry, error) {
	entries := make([]Entry, 0, 16)

	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketChanges).ForEach(func(k, v []byte) error {
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				s.log.Warn("skipping unreadable journal entry",
					"path", string(k),
					"error", err)
				return nil
			}
			entries = append(entries, entry)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list journal: %w", err)
	}

	sortEntries(entries)
	return entries, nil
}

// Close implements Store.Close.
func (s *boltStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close journal: %w", err)
	}
	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
