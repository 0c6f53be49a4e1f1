// ABOUTME: Loads assistant persona instructions from a file and reloads on change.
// ABOUTME: Polls the file's modification time on a fixed interval.

package persona

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"
)

// DefaultPersona is used when the persona file does not exist or cannot be read.
const DefaultPersona = "You are a helpful AI assistant."

// Loader reads the persona file and keeps the current instructions in memory.
// Current never blocks; reloads happen on the Watch goroutine.
type Loader struct {
	path     string
	interval time.Duration
	logger   *slog.Logger

	mu           sync.RWMutex
	current      string
	lastModified time.Time

	// onReload is called after a reload actually replaced the persona.
	onReload func()
}

// NewLoader creates a Loader for the given persona file path.
// interval controls how often Watch checks the file for changes.
func NewLoader(path string, interval time.Duration, logger *slog.Logger) *Loader {
	return &Loader{
		path:     path,
		interval: interval,
		logger:   logger,
		current:  DefaultPersona,
	}
}

// OnReload registers a hook invoked whenever a reload replaces the persona.
// Must be called before Watch starts.
func (l *Loader) OnReload(fn func()) {
	l.onReload = fn
}

// Load reads the persona file. If the file exists, its full contents become
// the current persona and the modification time is recorded. If the file does
// not exist or cannot be read, the default persona is used and no timestamp
// is recorded.
func (l *Loader) Load() {
	info, err := os.Stat(l.path)
	if err != nil {
		l.logger.Warn("persona file not found, using default persona", "path", l.path)
		l.set(DefaultPersona, time.Time{})
		return
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		l.logger.Error("reading persona file", "path", l.path, "error", err)
		l.set(DefaultPersona, time.Time{})
		return
	}

	l.set(string(data), info.ModTime())
	l.logger.Info("persona loaded", "path", l.path, "size", len(data))
}

// Current returns the persona string currently held. Never blocks on I/O.
func (l *Loader) Current() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// Watch polls the persona file on the configured interval and reloads it when
// the modification time advances. Blocks until the context is canceled.
func (l *Loader) Watch(ctx context.Context) {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.CheckAndReload()
		}
	}
}

// CheckAndReload compares the file's modification time against the last
// recorded one and reloads if it advanced. A missing file is logged and
// skipped; the currently held persona stays in effect.
func (l *Loader) CheckAndReload() {
	info, err := os.Stat(l.path)
	if err != nil {
		l.logger.Warn("persona file not found, keeping current persona", "path", l.path)
		return
	}

	l.mu.RLock()
	last := l.lastModified
	l.mu.RUnlock()

	if !info.ModTime().After(last) {
		return
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		l.logger.Error("reading persona file, keeping current persona", "path", l.path, "error", err)
		return
	}

	l.set(string(data), info.ModTime())
	l.logger.Info("persona reloaded after file change", "path", l.path)

	if l.onReload != nil {
		l.onReload()
	}
}

// set atomically replaces the current persona and modification timestamp.
func (l *Loader) set(persona string, modTime time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.current = persona
	l.lastModified = modTime
}
