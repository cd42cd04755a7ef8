package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, validateConfig(cfg))

	assert.Equal(t, 8501, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Address)
	assert.Equal(t, WatcherFSNotify, cfg.Server.FileWatcher)
	assert.True(t, cfg.Telemetry.GatherUsageStats)
	assert.Equal(t, "localhost:8501", cfg.ListenAddr())
}

func TestLoadMissingDefaultFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stowpack.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  address: 0.0.0.0
  port: 9000
  headless: true
  file_watcher: poll
  poll_interval: 2s
store:
  path: /data/plans.db
log_level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.Server.Address)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.True(t, cfg.Server.Headless)
	assert.Equal(t, WatcherPoll, cfg.Server.FileWatcher)
	assert.Equal(t, "/data/plans.db", cfg.Store.Path)
	assert.Equal(t, "debug", cfg.LogLevel)

	// Unset fields keep defaults.
	assert.Equal(t, DefaultRenderTimeout, cfg.Render.Timeout)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("SERVER_ADDRESS", "0.0.0.0")
	t.Setenv("SERVER_HEADLESS", "true")
	t.Setenv("BROWSER_GATHER_USAGE_STATS", "false")

	cfg := DefaultConfig()
	require.NoError(t, applyEnvOverrides(cfg))

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Address)
	assert.True(t, cfg.Server.Headless)
	assert.False(t, cfg.Telemetry.GatherUsageStats)
}

func TestEnvOverrideBadValues(t *testing.T) {
	t.Setenv("SERVER_PORT", "eight")
	err := applyEnvOverrides(DefaultConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SERVER_PORT")

	t.Setenv("SERVER_PORT", "8501")
	t.Setenv("SERVER_HEADLESS", "yes please")
	err = applyEnvOverrides(DefaultConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SERVER_HEADLESS")
}

func TestValidateConfigReportsAllFailures(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Port = 0
	cfg.Server.Address = ""
	cfg.Server.FileWatcher = "inotifywait"
	cfg.LogLevel = "loud"

	err := validateConfig(cfg)
	require.Error(t, err)
	for _, field := range []string{"server.port", "server.address", "server.file_watcher", "log_level"} {
		assert.Contains(t, err.Error(), field)
	}
}

func TestValidatePortRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Port = 65536
	assert.Error(t, validateConfig(cfg))

	cfg.Server.Port = 65535
	assert.NoError(t, validateConfig(cfg))
}
