package app

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger("error", "text", &buf)

	logger.Warn("dropped")
	assert.Empty(t, buf.String())

	logger.Error("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNewLogger_Formats(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		newLogger("info", "json", &buf).Info("hello", "module", "main")

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "hello", record["msg"])
		assert.Equal(t, "main", record["module"])
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		newLogger("info", "text", &buf).Info("hello")
		assert.Contains(t, buf.String(), "msg=hello")
	})
}

func TestNewLogger_UnknownLevelMatchesCLIDefault(t *testing.T) {
	// cli.Parse rejects unknown levels; a hand-built Config falls back to
	// the same default the CLI would have applied.
	var buf bytes.Buffer
	logger := newLogger("bogus", "text", &buf)

	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	logger.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}
