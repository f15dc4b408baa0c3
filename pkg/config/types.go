// Package config provides configuration management for filewatch.
//
// Configuration is loaded from multiple sources with the following precedence:
// 1. Command-line flags (highest priority, applied by the CLI)
// 2. Environment variables
// 3. Configuration file
// 4. Default values (lowest priority)
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("settle window: %s\n", cfg.Watch.Timeout())
package config

import (
	"time"
)

// DefaultFileTimeoutMillis is the settle window used when watch.file_timeout
// is absent from every source.
const DefaultFileTimeoutMillis = 300

// Config represents the complete application configuration.
//
// Invariants:
// - Watch.FileTimeout, when set, must be >= 0
// - Watch.CircuitBreakerThreshold must be > 0
// - Logging.Level is one of debug, info, warn, error
// - Logging.Format is one of text, json.
type Config struct {
	// Watch settings
	Watch WatchConfig `yaml:"watch"`

	// Storage settings
	Storage StorageConfig `yaml:"storage"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging"`
}

// WatchConfig contains file watching settings.
type WatchConfig struct {
	// Glob patterns watched when none are given on the command line
	Patterns []string `yaml:"patterns"`

	// Directory relative patterns are resolved against (empty: working directory)
	Root string `yaml:"root"`

	// Quiet period in milliseconds a file's size must stay stable.
	// Nil means unset; zero means emit on every non-empty read.
	FileTimeout *int `yaml:"file_timeout"`

	// Consecutive watcher errors before the event source gives up reporting them
	CircuitBreakerThreshold int `yaml:"circuit_breaker_threshold"`
}

// Timeout returns the settle window as a duration, applying the default
// when FileTimeout is unset.
func (w WatchConfig) Timeout() time.Duration {
	if w.FileTimeout == nil {
		return DefaultFileTimeoutMillis * time.Millisecond
	}
	return time.Duration(*w.FileTimeout) * time.Millisecond
}

// StorageConfig contains storage-related settings.
type StorageConfig struct {
	// Path to the BoltDB change journal
	JournalPath string `yaml:"journal_path"`

	// Disable recording settled changes
	JournalDisabled bool `yaml:"journal_disabled"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Log level (debug, info, warn, error)
	Level string `yaml:"level"`

	// Log output destination (stdout, stderr, file path)
	Output string `yaml:"output"`

	// Log format (text, json)
	Format string `yaml:"format"`
}

// Validate checks if the configuration satisfies all invariants.
func (c *Config) Validate() error {
	if c.Watch.FileTimeout != nil && *c.Watch.FileTimeout < 0 {
		return ErrInvalidFileTimeout
	}
	if c.Watch.CircuitBreakerThreshold <= 0 {
		return ErrInvalidCircuitBreaker
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	validFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validFormats[c.Logging.Format] {
		return ErrInvalidLogFormat
	}

	return nil
}

// Default returns a configuration with default values.
func Default() *Config {
	timeout := DefaultFileTimeoutMillis
	return &Config{
		Watch: WatchConfig{
			FileTimeout:             &timeout,
			CircuitBreakerThreshold: 5,
		},
		Storage: StorageConfig{
			JournalPath: defaultJournalPath(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: "stderr",
			Format: "text",
		},
	}
}
