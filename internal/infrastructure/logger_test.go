package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescli/internal/config"
)

func readLastEntry(t *testing.T, path string) map[string]interface{} {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

func TestInitializeLogger(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "nested", "test.log")
	cfg := config.LoggingConfig{
		Level:    "info",
		Output:   "file",
		FilePath: logFile,
	}

	logger, err := InitializeLogger(cfg)
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Same(t, logger, GetLogger())
	assert.FileExists(t, logFile)

	logger.Info("test message", "key", "value")
	require.NoError(t, CloseLogFile())

	entry := readLastEntry(t, logFile)
	assert.Equal(t, "test message", entry["msg"])
	assert.Equal(t, "value", entry["key"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Contains(t, entry, "source")
}

func TestInitializeLogger_Once(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	dir := t.TempDir()
	first, err := InitializeLogger(config.LoggingConfig{Level: "info", Output: "file", FilePath: filepath.Join(dir, "a.log")})
	require.NoError(t, err)

	second, err := InitializeLogger(config.LoggingConfig{Level: "debug", Output: "file", FilePath: filepath.Join(dir, "b.log")})
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.NoFileExists(t, filepath.Join(dir, "b.log"))
}

func TestTraceIDInjection(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "test.log")
	logger, err := InitializeLogger(config.LoggingConfig{Level: "debug", Output: "file", FilePath: logFile})
	require.NoError(t, err)

	ctx := WithTraceID(context.Background(), "run-123")
	logger.InfoContext(ctx, "test with trace")
	require.NoError(t, CloseLogFile())

	entry := readLastEntry(t, logFile)
	assert.Equal(t, "run-123", entry["trace_id"])
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level   string
		logged  []string
		dropped []string
	}{
		{level: "debug", logged: []string{"DEBUG", "INFO", "WARN", "ERROR"}},
		{level: "info", logged: []string{"INFO", "WARN", "ERROR"}, dropped: []string{"DEBUG"}},
		{level: "warning", logged: []string{"WARN", "ERROR"}, dropped: []string{"DEBUG", "INFO"}},
		{level: "error", logged: []string{"ERROR"}, dropped: []string{"DEBUG", "INFO", "WARN"}},
		{level: "bogus", logged: []string{"INFO"}, dropped: []string{"DEBUG"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf, tt.level)

			logger.Debug("m")
			logger.Info("m")
			logger.Warn("m")
			logger.Error("m")

			out := buf.String()
			for _, lvl := range tt.logged {
				assert.Contains(t, out, `"level":"`+lvl+`"`)
			}
			for _, lvl := range tt.dropped {
				assert.NotContains(t, out, `"level":"`+lvl+`"`)
			}
		})
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := EnsureTraceID(context.Background())
	traceID := GetTraceID(ctx)
	assert.Len(t, traceID, 36)

	// Existing trace ID is kept
	assert.Equal(t, traceID, GetTraceID(EnsureTraceID(ctx)))
	assert.NotEqual(t, traceID, GenerateTraceID())
	assert.Empty(t, GetTraceID(context.Background()))
}

func TestLoggerHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "info")

	WithComponent(logger, "loader").Info("component message")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "loader", entry["component"])

	buf.Reset()
	WithError(logger, os.ErrNotExist).Info("error test")
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, os.ErrNotExist.Error(), entry["error"])

	assert.Same(t, logger, WithError(logger, nil))
}
