package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotereel/internal/pkg/logger"
)

func testLog() *logger.Logger {
	return logger.New(logger.Config{Output: os.Stderr, Level: "error"})
}

func writeOutput(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("video"), 0o644))
	return path
}

func waitGone(t *testing.T, path string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("%s still exists", path)
}

func TestCleanupDeletesAfterDelay(t *testing.T) {
	c := NewCleanup(20*time.Millisecond, testLog())
	defer c.Stop()
	path := writeOutput(t, "gen_1.mp4")

	runAt := c.Schedule("gen_1", path)
	assert.WithinDuration(t, time.Now().Add(20*time.Millisecond), runAt, 100*time.Millisecond)

	waitGone(t, path)

	// The fired task leaves the registry.
	deadline := time.Now().Add(time.Second)
	for len(c.Pending()) > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	assert.Empty(t, c.Pending())
}

func TestCleanupCancel(t *testing.T) {
	c := NewCleanup(20*time.Millisecond, testLog())
	defer c.Stop()
	path := writeOutput(t, "gen_2.mp4")

	c.Schedule("gen_2", path)
	assert.True(t, c.Cancel("gen_2"))
	assert.False(t, c.Cancel("gen_2"))

	time.Sleep(60 * time.Millisecond)
	_, err := os.Stat(path)
	assert.NoError(t, err, "cancelled output must survive")
}

func TestCleanupRescheduleReplacesTimer(t *testing.T) {
	c := NewCleanup(time.Hour, testLog())
	defer c.Stop()
	path := writeOutput(t, "gen_3.mp4")

	c.Schedule("gen_3", path)
	c.Schedule("gen_3", path)

	assert.Len(t, c.Pending(), 1)
}

func TestCleanupPendingSorted(t *testing.T) {
	c := NewCleanup(time.Hour, testLog())
	defer c.Stop()

	c.Schedule("gen_a", writeOutput(t, "a.mp4"))
	time.Sleep(2 * time.Millisecond)
	c.Schedule("gen_b", writeOutput(t, "b.mp4"))

	pending := c.Pending()
	require.Len(t, pending, 2)
	assert.Equal(t, "gen_a", pending[0].OutputID)
	assert.Equal(t, "gen_b", pending[1].OutputID)
}

func TestCleanupMissingFileIsQuiet(t *testing.T) {
	c := NewCleanup(10*time.Millisecond, testLog())
	defer c.Stop()

	c.Schedule("gen_4", filepath.Join(t.TempDir(), "never-existed.mp4"))
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, c.Pending())
}
