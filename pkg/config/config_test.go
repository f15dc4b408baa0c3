package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NotNil(t, cfg)
	assert.Equal(t, 300*time.Millisecond, cfg.Watch.Timeout())
	assert.Equal(t, 5, cfg.Watch.CircuitBreakerThreshold)
	assert.NotEmpty(t, cfg.Storage.JournalPath)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestWatchConfigTimeout(t *testing.T) {
	assert.Equal(t, DefaultFileTimeoutMillis*time.Millisecond, WatchConfig{}.Timeout())
	assert.Equal(t, time.Duration(0), WatchConfig{FileTimeout: intPtr(0)}.Timeout())
	assert.Equal(t, 10*time.Millisecond, WatchConfig{FileTimeout: intPtr(10)}.Timeout())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{
			name:   "valid default config",
			mutate: func(c *Config) {},
		},
		{
			name:   "zero timeout is eager, not invalid",
			mutate: func(c *Config) { c.Watch.FileTimeout = intPtr(0) },
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Watch.FileTimeout = intPtr(-1) },
			wantErr: ErrInvalidFileTimeout,
		},
		{
			name:    "zero circuit breaker",
			mutate:  func(c *Config) { c.Watch.CircuitBreakerThreshold = 0 },
			wantErr: ErrInvalidCircuitBreaker,
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "trace" },
			wantErr: ErrInvalidLogLevel,
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: ErrInvalidLogFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestLoadFromFileMerges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filewatch.yaml")
	content := `
watch:
  patterns:
    - "test/fixtures/*.txt"
  root: /srv/site
  file_timeout: 0
storage:
  journal_path: /tmp/journal.db
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := NewLoader(path).Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"test/fixtures/*.txt"}, cfg.Watch.Patterns)
	assert.Equal(t, "/srv/site", cfg.Watch.Root)
	require.NotNil(t, cfg.Watch.FileTimeout)
	assert.Equal(t, time.Duration(0), cfg.Watch.Timeout())
	assert.Equal(t, 5, cfg.Watch.CircuitBreakerThreshold)
	assert.Equal(t, "/tmp/journal.db", cfg.Storage.JournalPath)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoadAbsentTimeoutKeepsDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filewatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  format: json\n"), 0600))

	cfg, err := NewLoader(path).Load()
	require.NoError(t, err)
	assert.Equal(t, 300*time.Millisecond, cfg.Watch.Timeout())
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewLoader(filepath.Join(dir, "missing.yaml")).Load()
	assert.True(t, errors.Is(err, ErrConfigNotFound), "got %v", err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("watch: [unclosed"), 0600))
	_, err = NewLoader(bad).Load()
	assert.True(t, errors.Is(err, ErrInvalidYAML), "got %v", err)

	negative := filepath.Join(dir, "negative.yaml")
	require.NoError(t, os.WriteFile(negative, []byte("watch:\n  file_timeout: -5\n"), 0600))
	_, err = NewLoader(negative).Load()
	assert.True(t, errors.Is(err, ErrInvalidFileTimeout), "got %v", err)
}

func TestEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filewatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("watch:\n  file_timeout: 50\n"), 0600))

	t.Setenv(EnvTimeout, "25")
	t.Setenv(EnvJournal, "/var/lib/filewatch.db")
	t.Setenv(EnvLogLevel, "WARN")

	cfg, err := NewLoader(path).Load()
	require.NoError(t, err)
	assert.Equal(t, 25*time.Millisecond, cfg.Watch.Timeout())
	assert.Equal(t, "/var/lib/filewatch.db", cfg.Storage.JournalPath)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestEnvTimeoutInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filewatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0600))
	t.Setenv(EnvTimeout, "soon")

	_, err := NewLoader(path).Load()
	assert.True(t, errors.Is(err, ErrInvalidEnv), "got %v", err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Watch.Patterns = []string{"**/*.css"}
	cfg.Watch.FileTimeout = intPtr(120)
	require.NoError(t, Save(cfg, path))

	loaded, err := NewLoader(path).LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"**/*.css"}, loaded.Watch.Patterns)
	assert.Equal(t, 120*time.Millisecond, loaded.Watch.Timeout())

	cfg.Logging.Level = "loud"
	assert.Error(t, Save(cfg, path))
}

func TestLoaderPath(t *testing.T) {
	assert.Equal(t, "/etc/filewatch.yaml", NewLoader("/etc/filewatch.yaml").Path())
}
