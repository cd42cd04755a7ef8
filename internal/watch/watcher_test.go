package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/stowpack/stowpack/internal/config"
)

func waitForSignal(t *testing.T, w Watcher, timeout time.Duration) bool {
	t.Helper()
	select {
	case <-w.C():
		return true
	case <-time.After(timeout):
		return false
	}
}

func TestFSWatcherSignalsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte("items: []\n"), 0o644))

	w, err := New(config.WatcherFSNotify, path, 0, zap.NewNop())
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("items:\n  - {name: a}\n"), 0o644))
	assert.True(t, waitForSignal(t, w, 3*time.Second), "expected change signal")
}

func TestFSWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	w, err := New(config.WatcherFSNotify, path, 0, zap.NewNop())
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("y"), 0o644))
	assert.False(t, waitForSignal(t, w, 700*time.Millisecond), "sibling write should not signal")
}

func TestPollWatcherSignalsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	w, err := New(config.WatcherPoll, path, 20*time.Millisecond, zap.NewNop())
	require.NoError(t, err)
	defer w.Close()

	// Size change guarantees detection even on coarse mtime
	// filesystems.
	require.NoError(t, os.WriteFile(path, []byte("longer content"), 0o644))
	assert.True(t, waitForSignal(t, w, 3*time.Second), "expected change signal")
}

func TestPollWatcherHandlesLateFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")

	w, err := New(config.WatcherPoll, path, 20*time.Millisecond, zap.NewNop())
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("appeared"), 0o644))
	assert.True(t, waitForSignal(t, w, 3*time.Second), "expected signal when file appears")
}

func TestNewRejectsUnknownType(t *testing.T) {
	_, err := New("inotifywait", "x.yaml", 0, zap.NewNop())
	assert.Error(t, err)
}

func TestCloseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	w, err := New(config.WatcherPoll, path, time.Second, zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}
