package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSystemLogger_WritesJSONFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	log, closer, err := NewSystemLogger(dir, slog.LevelInfo)
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("server ready", "port", 3000)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(filepath.Join(dir, "system.log"))
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "server ready", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.EqualValues(t, 3000, entry["port"])
}

func TestNewSystemLogger_StderrFallback(t *testing.T) {
	log, closer, err := NewSystemLogger("", slog.LevelWarn)
	require.NoError(t, err)
	assert.NotNil(t, log)
	assert.NoError(t, closer.Close())
	assert.False(t, log.Enabled(t.Context(), slog.LevelInfo))
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelError)
	log.Warn("dropped")
	log.Error("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}
