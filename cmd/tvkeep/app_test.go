package main

import (
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.in))
		})
	}
}

func TestSeriesPath(t *testing.T) {
	tests := []struct {
		name string
		root string
		path string
		want string
	}{
		{"no root", "", "The Simpsons", "The Simpsons"},
		{"relative under root", "/srv/tv", "The Simpsons", filepath.Join("/srv/tv", "The Simpsons")},
		{"absolute posix", "/srv/tv", "/other/Lost", "/other/Lost"},
		{"windows drive", "/srv/tv", `D:\TV Shows\The Simpsons`, `D:\TV Shows\The Simpsons`},
		{"windows drive forward slash", "/srv/tv", "C:/Test", "C:/Test"},
		{"unc share", "/srv/tv", `\\nas\tv\Lost`, `\\nas\tv\Lost`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, seriesPath(tt.root, tt.path))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "The Simp...", truncate("The Simpsons", 11))
	assert.Equal(t, "Pok", truncate("Pokémon", 3))
	assert.Equal(t, "Poké...", truncate("Pokémon Go!", 7))
}

func TestFormatTimeAgo(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "just now", formatTimeAgo(now.Add(-10*time.Second), now))
	assert.Equal(t, "5m ago", formatTimeAgo(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3h ago", formatTimeAgo(now.Add(-3*time.Hour), now))
	assert.Equal(t, "2d ago", formatTimeAgo(now.Add(-50*time.Hour), now))
}

func TestDisplayTitle(t *testing.T) {
	assert.Equal(t, "Lost (2004)", displayTitle("Lost", 2004))
	assert.Equal(t, "Lost", displayTitle("Lost", 0))
}
