package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/aretw0/turing/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_FanoutToFile(t *testing.T) {
	var console, file bytes.Buffer
	logger := logging.New(slog.LevelInfo, logging.Options{Console: &console, File: &file})

	logger.Info("halted", "steps", 3, "error", errors.New("boom"))
	logger.Debug("hidden")

	assert.Contains(t, console.String(), "msg=halted")
	assert.Contains(t, console.String(), "err=boom")
	assert.NotContains(t, console.String(), "hidden")

	var record map[string]any
	require.NoError(t, json.Unmarshal(file.Bytes(), &record))
	assert.Equal(t, "halted", record["msg"])
	assert.Equal(t, float64(3), record["steps"])
	assert.Equal(t, "boom", record["err"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, logging.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, logging.ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, logging.ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, logging.ParseLevel("verbose"))
}
