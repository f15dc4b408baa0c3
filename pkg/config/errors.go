package config

import "errors"

// Common errors returned by the config package.
var (
	// ErrInvalidFileTimeout is returned when watch.file_timeout is negative.
	ErrInvalidFileTimeout = errors.New("invalid file timeout: must be >= 0")

	// ErrInvalidCircuitBreaker is returned when the circuit breaker threshold is <= 0.
	ErrInvalidCircuitBreaker = errors.New("invalid circuit breaker threshold: must be > 0")

	// ErrInvalidLogLevel is returned when log level is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level: must be debug, info, warn, or error")

	// ErrInvalidLogFormat is returned when log format is not recognized.
	ErrInvalidLogFormat = errors.New("invalid log format: must be text or json")

	// ErrConfigNotFound is returned when config file is not found.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidYAML is returned when config file has invalid YAML syntax.
	ErrInvalidYAML = errors.New("invalid YAML syntax in config file")

	// ErrInvalidEnv is returned when an environment override cannot be parsed.
	ErrInvalidEnv = errors.New("invalid environment override")
)
