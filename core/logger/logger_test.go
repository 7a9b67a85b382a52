package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" WARN ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.in), "parseLevel(%q)", tt.in)
	}
}

func TestJSONFormatCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "debug", "json", false)
	log.With("provider", "netease").Debug("fetching", "id", 42)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "fetching", entry["msg"])
	assert.Equal(t, "netease", entry["provider"])
	assert.EqualValues(t, 42, entry["id"])
}

func TestLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info", "text", false)
	log.Debug("hidden")
	log.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info", "pretty", false)
	log.Warn("category fallback", "category", "rock")
	out := buf.String()
	assert.True(t, strings.Contains(out, "category fallback"), out)
}
