// ABOUTME: Tests for persona file loading and change detection.
// ABOUTME: Covers initial load, reload on mtime advance, and missing-file fallback.

package persona

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestLoad_ReadsFileContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persona.txt")
	require.NoError(t, os.WriteFile(path, []byte("You are a pirate."), 0644))

	l := NewLoader(path, time.Minute, testLogger())
	l.Load()

	assert.Equal(t, "You are a pirate.", l.Current())
}

func TestLoad_MissingFileUsesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persona.txt")

	l := NewLoader(path, time.Minute, testLogger())
	l.Load()

	assert.Equal(t, DefaultPersona, l.Current())
}

func TestCheckAndReload_PicksUpNewContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persona.txt")
	require.NoError(t, os.WriteFile(path, []byte("content A"), 0644))

	l := NewLoader(path, time.Minute, testLogger())
	l.Load()
	require.Equal(t, "content A", l.Current())

	// Rewrite the file and advance mtime past filesystem granularity.
	require.NoError(t, os.WriteFile(path, []byte("content B"), 0644))
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	l.CheckAndReload()
	assert.Equal(t, "content B", l.Current())
}

func TestCheckAndReload_UnchangedMtimeKeepsContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persona.txt")
	require.NoError(t, os.WriteFile(path, []byte("content A"), 0644))

	l := NewLoader(path, time.Minute, testLogger())
	l.Load()

	// Rewrite with identical mtime: content change must not be observed.
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("content B"), 0644))
	require.NoError(t, os.Chtimes(path, info.ModTime(), info.ModTime()))

	l.CheckAndReload()
	assert.Equal(t, "content A", l.Current())
}

func TestCheckAndReload_MissingFileKeepsCurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persona.txt")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0644))

	l := NewLoader(path, time.Minute, testLogger())
	l.Load()
	require.NoError(t, os.Remove(path))

	l.CheckAndReload()
	assert.Equal(t, "original", l.Current())
}

func TestOnReload_FiresOnlyOnActualReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persona.txt")
	require.NoError(t, os.WriteFile(path, []byte("content A"), 0644))

	l := NewLoader(path, time.Minute, testLogger())
	reloads := 0
	l.OnReload(func() { reloads++ })
	l.Load()

	// No mtime advance: hook must not fire.
	l.CheckAndReload()
	assert.Equal(t, 0, reloads)

	require.NoError(t, os.WriteFile(path, []byte("content B"), 0644))
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	l.CheckAndReload()
	assert.Equal(t, 1, reloads)
}

func TestCheckAndReload_AppearingFileIsLoaded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persona.txt")

	l := NewLoader(path, time.Minute, testLogger())
	l.Load()
	require.Equal(t, DefaultPersona, l.Current())

	// File appears after initial load; zero lastModified means any mtime is newer.
	require.NoError(t, os.WriteFile(path, []byte("late arrival"), 0644))

	l.CheckAndReload()
	assert.Equal(t, "late arrival", l.Current())
}
