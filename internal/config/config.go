// Package config loads stowpack configuration from an optional YAML
// file, applies environment variable overrides, and validates the
// result. Configuration is read once at process start.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// WatcherType selects how scenario files are watched for changes.
type WatcherType string

const (
	// WatcherFSNotify uses OS file notifications (inotify/kqueue).
	WatcherFSNotify WatcherType = "fsnotify"

	// WatcherPoll stats the file on an interval. Needed on mounts
	// where notifications do not propagate (container volumes, NFS).
	WatcherPoll WatcherType = "poll"
)

// ServerConfig controls the dashboard HTTP server.
type ServerConfig struct {
	// Address is the bind address. Default: localhost.
	Address string `yaml:"address"`

	// Port is the TCP listen port. Default: 8501.
	Port int `yaml:"port"`

	// Headless suppresses opening the local browser on start.
	Headless bool `yaml:"headless"`

	// RunOnSave re-runs the active scenario when its file changes.
	RunOnSave bool `yaml:"run_on_save"`

	// FileWatcher selects the watch mechanism: "fsnotify" or "poll".
	FileWatcher WatcherType `yaml:"file_watcher"`

	// PollInterval is the poll watcher interval, e.g. "1s".
	PollInterval string `yaml:"poll_interval"`
}

// StoreConfig controls plan persistence.
type StoreConfig struct {
	// Path is the SQLite database file. Default: stowpack.db in the
	// working directory.
	Path string `yaml:"path"`
}

// RenderConfig controls the headless browser used for PNG/PDF export.
type RenderConfig struct {
	// BrowserPath overrides the Chromium binary location. Empty lets
	// the launcher resolve one.
	BrowserPath string `yaml:"browser_path"`

	// Timeout bounds a single render, e.g. "60s".
	Timeout string `yaml:"timeout"`
}

// TelemetryConfig controls the anonymous local usage counters.
type TelemetryConfig struct {
	// GatherUsageStats enables periodic logging of aggregate request
	// counters. No data leaves the process.
	GatherUsageStats bool `yaml:"gather_usage_stats"`

	// Interval between usage log lines, e.g. "5m".
	Interval string `yaml:"interval"`
}

// Config is the complete stowpack configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Store     StoreConfig     `yaml:"store"`
	Render    RenderConfig    `yaml:"render"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// ListenAddr returns the host:port string for net.Listen.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.Server.Address, strconv.Itoa(c.Server.Port))
}

// Load builds the effective configuration: defaults, then the YAML
// file (optional when path is empty and the default file is absent),
// then environment overrides, then validation.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if path == "" {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file is fine; defaults plus env apply.
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
