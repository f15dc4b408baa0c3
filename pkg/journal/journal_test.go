package journal

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xmhha/filewatch/pkg/logger"
	"github.com/0xmhha/filewatch/pkg/notify"
)

func openTestStore(t *testing.T) Store {
	t.Helper()

	store, err := Open(Config{DBPath: filepath.Join(t.TempDir(), "journal.db")}, logger.Noop())
	require.NoError(t, err)
	t.Cleanup(func() {
		if closeErr := store.Close(); closeErr != nil {
			t.Logf("Close() error = %v", closeErr)
		}
	})
	return store
}

func stores(t *testing.T) map[string]Store {
	return map[string]Store{
		"bolt":   openTestStore(t),
		"memory": NewMemory(),
	}
}

func TestOpenCreatesDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "journal.db")

	store, err := Open(Config{DBPath: dbPath}, nil)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, statErr := os.Stat(dbPath)
	assert.NoError(t, statErr)
}

func TestRecordAndGet(t *testing.T) {
	first := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(time.Minute)

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get("public/site.css")
			assert.True(t, errors.Is(err, ErrNotFound))

			require.NoError(t, store.Record("public/site.css", 120, first))
			require.NoError(t, store.Record("public/site.css", 140, second))

			entry, err := store.Get("public/site.css")
			require.NoError(t, err)
			assert.Equal(t, "public/site.css", entry.Path)
			assert.Equal(t, 2, entry.Changes)
			assert.EqualValues(t, 140, entry.LastSize)
			assert.True(t, second.Equal(entry.LastChanged))

			assert.True(t, errors.Is(store.Record("", 1, first), ErrEmptyPath))
		})
	}
}

func TestListOrdersByMostRecent(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Record("a.txt", 1, base))
			require.NoError(t, store.Record("c.txt", 3, base.Add(2*time.Second)))
			require.NoError(t, store.Record("b.txt", 2, base))

			entries, err := store.List()
			require.NoError(t, err)

			paths := make([]string, 0, len(entries))
			for _, e := range entries {
				paths = append(paths, e.Path)
			}
			assert.Equal(t, []string{"c.txt", "a.txt", "b.txt"}, paths)
		})
	}
}

func TestBoltStorePersistsAcrossOpen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "journal.db")
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	store, err := Open(Config{DBPath: dbPath}, logger.Noop())
	require.NoError(t, err)
	require.NoError(t, store.Record("index.html", 512, at))
	require.NoError(t, store.Close())

	reopened, err := Open(Config{DBPath: dbPath}, logger.Noop())
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	entry, err := reopened.Get("index.html")
	require.NoError(t, err)
	assert.Equal(t, 1, entry.Changes)
	assert.EqualValues(t, 512, entry.LastSize)
}

func TestMemoryStoreClosed(t *testing.T) {
	store := NewMemory()
	require.NoError(t, store.Close())

	assert.True(t, errors.Is(store.Record("a", 1, time.Now()), ErrClosed))
	_, err := store.List()
	assert.True(t, errors.Is(err, ErrClosed))
}

type sizeInfo struct{ size int64 }

func (s sizeInfo) Name() string       { return "fake" }
func (s sizeInfo) Size() int64        { return s.size }
func (s sizeInfo) Mode() fs.FileMode  { return 0644 }
func (s sizeInfo) ModTime() time.Time { return time.Time{} }
func (s sizeInfo) IsDir() bool        { return false }
func (s sizeInfo) Sys() interface{}   { return nil }

func TestSubscribeRecordsFileChanged(t *testing.T) {
	stat := func(path string) (os.FileInfo, error) {
		if path == "gone.txt" {
			return nil, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
		}
		return sizeInfo{size: 300}, nil
	}

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			bus := notify.NewBus(logger.Noop())
			unsubscribe := Subscribe(bus, store, stat, logger.Noop())

			bus.Emit(notify.EventFileChanged, notify.FileChanged{Path: "test/fixtures/test.txt"})
			bus.Emit(notify.EventFileChanged, notify.FileChanged{Path: "test/fixtures/test.txt"})
			bus.Emit(notify.EventFileChanged, notify.FileChanged{Path: "gone.txt"})
			bus.Emit(notify.EventLog, notify.Log{Msg: "Watching files...", Override: true})
			bus.Emit(notify.EventFileChanged, "not a payload")

			entry, err := store.Get("test/fixtures/test.txt")
			require.NoError(t, err)
			assert.Equal(t, 2, entry.Changes)
			assert.EqualValues(t, 300, entry.LastSize)
			assert.False(t, entry.LastChanged.IsZero())

			gone, err := store.Get("gone.txt")
			require.NoError(t, err)
			assert.Zero(t, gone.LastSize)

			unsubscribe()
			bus.Emit(notify.EventFileChanged, notify.FileChanged{Path: "test/fixtures/test.txt"})

			entry, err = store.Get("test/fixtures/test.txt")
			require.NoError(t, err)
			assert.Equal(t, 2, entry.Changes)

			entries, err := store.List()
			require.NoError(t, err)
			assert.Len(t, entries, 2)
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "journal.db"), expandHome("~/journal.db"))
	assert.Equal(t, "/tmp/journal.db", expandHome("/tmp/journal.db"))
}
