package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"":      zap.InfoLevel,
		"info":  zap.InfoLevel,
		"debug": zap.DebugLevel,
		"warn":  zap.WarnLevel,
		"error": zap.ErrorLevel,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestNew_ConsoleRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger("warn", "", &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", zap.Int("cart_count", 2))
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "cart_count")
}

func TestNew_FileCoreWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shopfront.log")
	var buf bytes.Buffer
	logger, err := newLogger("info", path, &buf)
	require.NoError(t, err)

	logger.Info("flight landed", zap.String("flight_id", "f-1"))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "flight landed", entry["message"])
	assert.Equal(t, "f-1", entry["flight_id"])
	assert.Contains(t, buf.String(), "flight landed")
}

func TestNewFileOnly(t *testing.T) {
	nop, err := NewFileOnly("info", "")
	require.NoError(t, err)
	nop.Info("dropped")

	path := filepath.Join(t.TempDir(), "tui.log")
	logger, err := NewFileOnly("debug", path)
	require.NoError(t, err)
	logger.Debug("tick")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"tick"`)

	_, err = NewFileOnly("loud", path)
	assert.Error(t, err)
}
