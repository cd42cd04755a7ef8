package config

import (
	"errors"
	"fmt"
	"time"
)

// ValidationError contains details about what failed validation.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config.%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

var logLevels = map[string]struct{}{
	"debug": {}, "info": {}, "warn": {}, "error": {},
}

// validateConfig checks all config values for validity.
// Returns nil if valid, or joined errors for all validation failures.
func validateConfig(cfg *Config) error {
	var errs []error

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		errs = append(errs, &ValidationError{
			Field:   "server.port",
			Value:   cfg.Server.Port,
			Message: "must be a valid port (1-65535)",
		})
	}

	if cfg.Server.Address == "" {
		errs = append(errs, &ValidationError{
			Field:   "server.address",
			Value:   cfg.Server.Address,
			Message: "must not be empty",
		})
	}

	switch cfg.Server.FileWatcher {
	case WatcherFSNotify, WatcherPoll:
	default:
		errs = append(errs, &ValidationError{
			Field:   "server.file_watcher",
			Value:   cfg.Server.FileWatcher,
			Message: `must be "fsnotify" or "poll"`,
		})
	}

	if d, err := time.ParseDuration(cfg.Server.PollInterval); err != nil || d <= 0 {
		errs = append(errs, &ValidationError{
			Field:   "server.poll_interval",
			Value:   cfg.Server.PollInterval,
			Message: "must be a positive duration",
		})
	}

	if cfg.Store.Path == "" {
		errs = append(errs, &ValidationError{
			Field:   "store.path",
			Value:   cfg.Store.Path,
			Message: "must not be empty",
		})
	}

	if d, err := time.ParseDuration(cfg.Render.Timeout); err != nil || d <= 0 {
		errs = append(errs, &ValidationError{
			Field:   "render.timeout",
			Value:   cfg.Render.Timeout,
			Message: "must be a positive duration",
		})
	}

	if d, err := time.ParseDuration(cfg.Telemetry.Interval); err != nil || d <= 0 {
		errs = append(errs, &ValidationError{
			Field:   "telemetry.interval",
			Value:   cfg.Telemetry.Interval,
			Message: "must be a positive duration",
		})
	}

	if _, ok := logLevels[cfg.LogLevel]; !ok {
		errs = append(errs, &ValidationError{
			Field:   "log_level",
			Value:   cfg.LogLevel,
			Message: "must be one of debug, info, warn, error",
		})
	}

	return errors.Join(errs...)
}
