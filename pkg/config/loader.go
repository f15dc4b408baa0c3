package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables consulted by the loader.
const (
	EnvTimeout  = "FILEWATCH_TIMEOUT"
	EnvJournal  = "FILEWATCH_DB"
	EnvLogLevel = "FILEWATCH_LOG_LEVEL"
)

// Loader provides methods for loading configuration from various sources.
type Loader interface {
	// Load merges defaults, the configuration file and environment
	// overrides, then validates the result.
	Load() (*Config, error)

	// LoadFromFile parses a single file without defaults or validation.
	LoadFromFile(path string) (*Config, error)

	// Path returns the configuration file Load would read, or "".
	Path() string
}

type loader struct {
	configPath string
}

// NewLoader creates a new configuration loader.
//
// If configPath is empty, searches for config file in:
// 1. ./filewatch.yaml (current directory)
// 2. ~/.config/filewatch/config.yaml.
func NewLoader(configPath string) Loader {
	return &loader{
		configPath: configPath,
	}
}

func (l *loader) Load() (*Config, error) {
	cfg := Default()

	configPath := l.Path()
	if configPath != "" {
		fileCfg, err := l.LoadFromFile(configPath)
		if err != nil {
			// An explicitly requested file must load; a discovered one may not.
			if l.configPath != "" {
				return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
			}
		} else {
			cfg = mergeConfigs(cfg, fileCfg)
		}
	}

	cfg, err := applyEnvVars(cfg)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (l *loader) LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) // nolint:gosec
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	return &cfg, nil
}

func (l *loader) Path() string {
	if l.configPath != "" {
		return l.configPath
	}

	for _, path := range []string{"./filewatch.yaml", DefaultConfigPath()} {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// mergeConfigs overlays non-zero file values onto base.
func mergeConfigs(base, override *Config) *Config {
	result := *base

	if len(override.Watch.Patterns) > 0 {
		result.Watch.Patterns = override.Watch.Patterns
	}
	if override.Watch.Root != "" {
		result.Watch.Root = override.Watch.Root
	}
	// Presence matters here, an explicit 0 selects eager emission.
	if override.Watch.FileTimeout != nil {
		timeout := *override.Watch.FileTimeout
		result.Watch.FileTimeout = &timeout
	}
	if override.Watch.CircuitBreakerThreshold > 0 {
		result.Watch.CircuitBreakerThreshold = override.Watch.CircuitBreakerThreshold
	}

	if override.Storage.JournalPath != "" {
		result.Storage.JournalPath = override.Storage.JournalPath
	}
	if override.Storage.JournalDisabled {
		result.Storage.JournalDisabled = true
	}

	if override.Logging.Level != "" {
		result.Logging.Level = override.Logging.Level
	}
	if override.Logging.Output != "" {
		result.Logging.Output = override.Logging.Output
	}
	if override.Logging.Format != "" {
		result.Logging.Format = override.Logging.Format
	}

	return &result
}

// applyEnvVars applies FILEWATCH_* overrides.
func applyEnvVars(cfg *Config) (*Config, error) {
	result := *cfg

	if raw := strings.TrimSpace(os.Getenv(EnvTimeout)); raw != "" {
		timeout, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q", ErrInvalidEnv, EnvTimeout, raw)
		}
		result.Watch.FileTimeout = &timeout
	}

	if journal := os.Getenv(EnvJournal); journal != "" {
		result.Storage.JournalPath = journal
	}

	if level := os.Getenv(EnvLogLevel); level != "" {
		result.Logging.Level = strings.ToLower(level)
	}

	return &result, nil
}

// Load creates a loader for the discovered config file and loads it.
func Load() (*Config, error) {
	return NewLoader("").Load()
}

// Save validates cfg and writes it as YAML, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
