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
)

func newBufferLogger(t *testing.T, level Level) (*Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	logger, err := New(Options{Level: level, Writer: buf})
	require.NoError(t, err)
	return logger, buf
}

func TestNewLogger(t *testing.T) {
	logger := NewLogger(LevelInfo)
	require.NotNil(t, logger)
	assert.Equal(t, LevelInfo, logger.minLevel)
}

func TestNewLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	logger := NewLogger(Level("verbose"))
	require.NotNil(t, logger)
	assert.Equal(t, LevelInfo, logger.minLevel)
}

func TestLogger_ShouldLog(t *testing.T) {
	tests := []struct {
		name     string
		minLevel Level
		logLevel Level
		want     bool
	}{
		{"debug logs when min is debug", LevelDebug, LevelDebug, true},
		{"info logs when min is debug", LevelDebug, LevelInfo, true},
		{"debug does not log when min is info", LevelInfo, LevelDebug, false},
		{"error logs when min is info", LevelInfo, LevelError, true},
		{"info does not log when min is error", LevelError, LevelInfo, false},
		{"error logs when min is error", LevelError, LevelError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogger(tt.minLevel)
			assert.Equal(t, tt.want, logger.shouldLog(tt.logLevel))
		})
	}
}

func TestLogger_LogWritesEventShape(t *testing.T) {
	logger, buf := newBufferLogger(t, LevelInfo)

	logger.Info("test.event", "Test message", map[string]interface{}{"key": "value", "num": 42})

	var event Event
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event), buf.String())
	assert.Equal(t, LevelInfo, event.Level)
	assert.Equal(t, "test.event", event.Type)
	assert.Equal(t, "Test message", event.Message)
	assert.Equal(t, "value", event.Payload["key"])
	assert.EqualValues(t, 42, event.Payload["num"])
	assert.NotEmpty(t, event.Timestamp)
}

func TestLogger_LevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(t, LevelWarn)

	logger.Info("test.filtered", "Should not appear", nil)

	assert.Empty(t, strings.TrimSpace(buf.String()))
}

func TestLogger_WithAttachesFields(t *testing.T) {
	logger, buf := newBufferLogger(t, LevelInfo)

	logger.With(map[string]interface{}{"run_id": "abc"}).Error("test.error", "Error message", map[string]interface{}{"code": 500})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "abc", entry["run_id"])
	assert.Equal(t, "error", entry["level"])
	assert.Contains(t, buf.String(), "500")
}

func TestLogger_TextFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Options{Level: LevelInfo, Format: FormatText, Writer: buf})
	require.NoError(t, err)

	logger.Info("test.text", "Readable line", nil)

	out := buf.String()
	assert.Contains(t, out, "Readable line")
	assert.Contains(t, out, "test.text")
	assert.False(t, strings.HasPrefix(strings.TrimSpace(out), "{"))
}

func TestNew_RejectsUnknownFormat(t *testing.T) {
	_, err := New(Options{Level: LevelInfo, Format: "xml"})
	require.Error(t, err)
}

func TestNilLoggerIsNoop(t *testing.T) {
	var logger *Logger
	assert.NotPanics(t, func() {
		logger.Info("noop", "nothing", nil)
		_ = logger.Close()
	})
}

func TestNewFileLogger_CreatesDirectoryAndWritesJSON(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "run", "stereo3d.log")

	logger, err := NewFileLogger(LevelInfo, logPath)
	require.NoError(t, err)
	logger.Info("file.event", "Written to file", nil)
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)

	var event Event
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &event))
	assert.Equal(t, "file.event", event.Type)
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel(" WARN ")
	require.NoError(t, err)
	assert.Equal(t, LevelWarn, level)

	_, err = ParseLevel("trace")
	assert.Error(t, err)
}
