package journal

import (
	"sort"
	"sync"
	"time"
)

// memoryStore implements Store with a map. Used when the journal is
// disabled and in tests.
type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
	closed  bool
}

// NewMemory creates an in-memory store.
func NewMemory() Store {
	return &memoryStore{entries: make(map[string]Entry)}
}

func (s *memoryStore) Record(path string, size int64, at time.Time) error {
	if path == "" {
		return ErrEmptyPath
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	entry := s.entries[path]
	entry.Path = path
	entry.Changes++
	entry.LastSize = size
	entry.LastChanged = at
	s.entries[path] = entry
	return nil
}

func (s *memoryStore) Get(path string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return Entry{}, ErrClosed
	}
	entry, ok := s.entries[path]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return entry, nil
}

func (s *memoryStore) List() ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}
	entries := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	sortEntries(entries)
	return entries, nil
}

func (s *memoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// sortEntries orders by most recent change, then by path.
func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].LastChanged.Equal(entries[j].LastChanged) {
			return entries[i].LastChanged.After(entries[j].LastChanged)
		}
		return entries[i].Path < entries[j].Path
	})
}
