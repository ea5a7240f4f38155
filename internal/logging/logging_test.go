package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupJSONFormat(t *testing.T) {
	var buf bytes.Buffer

	logger := Setup(Config{Level: "info", Format: "json", Output: &buf})
	logger.Info("test message", "key", "value")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "test message", entry["msg"])
	assert.Equal(t, "value", entry["key"])
	assert.Equal(t, "INFO", entry["level"])
}

func TestSetupTextFormatIsDefault(t *testing.T) {
	var buf bytes.Buffer

	logger := Setup(Config{Level: "info", Output: &buf})
	logger.Info("test message", "key", "value")

	assert.Contains(t, buf.String(), "test message")
	assert.Contains(t, buf.String(), "key=value")
}

func TestSetupFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer

	logger := Setup(Config{Level: "warn", Format: "text", Output: &buf})
	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestContextHandlerAddsCycleID(t *testing.T) {
	var buf bytes.Buffer

	logger := Setup(Config{Level: "info", Format: "json", Output: &buf})
	ctx := WithCycleID(context.Background())
	logger.With("component", "coordinator").InfoContext(ctx, "cycle")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, CycleID(ctx), entry["cycle_id"])
	assert.Equal(t, "coordinator", entry["component"])

	_, err := uuid.Parse(CycleID(ctx))
	assert.NoError(t, err)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestCycleIDEmptyWithoutTag(t *testing.T) {
	assert.Empty(t, CycleID(context.Background()))
}
