// ABOUTME: Tests for the console log handler and logger setup.
// ABOUTME: Covers level gating, tag rendering, and attr propagation.

package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/2389/chat-relay/internal/config"
)

func TestConsoleHandlerEnabled(t *testing.T) {
	h := &consoleHandler{level: slog.LevelWarn}

	ctx := context.Background()
	assert.False(t, h.Enabled(ctx, slog.LevelDebug))
	assert.False(t, h.Enabled(ctx, slog.LevelInfo))
	assert.True(t, h.Enabled(ctx, slog.LevelWarn))
	assert.True(t, h.Enabled(ctx, slog.LevelError))
}

func TestLevelTag(t *testing.T) {
	assert.Contains(t, levelTag(slog.LevelDebug), "DBG")
	assert.Contains(t, levelTag(slog.LevelInfo), "INF")
	assert.Contains(t, levelTag(slog.LevelWarn), "WRN")
	assert.Contains(t, levelTag(slog.LevelError), "ERR")
	assert.Contains(t, levelTag(slog.Level(12)), "???")
}

func TestConsoleHandlerWithAttrs(t *testing.T) {
	h := &consoleHandler{level: slog.LevelInfo}

	bound := h.WithAttrs([]slog.Attr{slog.String("request_id", "r1")})
	ch, ok := bound.(*consoleHandler)
	assert.True(t, ok)
	assert.Len(t, ch.attrs, 1)

	// The original handler is unchanged.
	assert.Empty(t, h.attrs)
}

func TestSetupLoggerLevels(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		logger := setupLogger(config.LoggingConfig{Level: tt.level, Format: "text"})
		assert.True(t, logger.Enabled(context.Background(), tt.want), tt.level)
		if tt.want > slog.LevelDebug {
			assert.False(t, logger.Enabled(context.Background(), tt.want-4), tt.level)
		}
	}
}
