package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Level represents log severity
type Level string

const (
	// LevelDebug indicates fine-grained diagnostic logging.
	LevelDebug Level = "debug"
	// LevelInfo indicates informational logging.
	LevelInfo Level = "info"
	// LevelWarn indicates non-fatal warnings.
	LevelWarn Level = "warn"
	// LevelError indicates error logging requiring attention.
	LevelError Level = "error"
)

const (
	// FormatJSON emits one JSON object per event.
	FormatJSON = "json"
	// FormatText emits human readable console lines.
	FormatText = "text"
)

// Event mirrors the JSON shape of a single log line
type Event struct {
	Timestamp string                 `json:"ts"`
	Level     Level                  `json:"level"`
	Type      string                 `json:"type"`
	Message   string                 `json:"message"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
}

// Options configures a Logger
type Options struct {
	Level  Level
	Format string
	Writer io.Writer
	// File, when set, receives the events instead of Writer.
	File string
}

// Logger provides structured event logging on top of zerolog
type Logger struct {
	base     zerolog.Logger
	minLevel Level
	logFile  *os.File
}

// NewLogger creates a new JSON logger writing to stderr
func NewLogger(minLevel Level) *Logger {
	logger, err := New(Options{Level: minLevel})
	if err != nil {
		// Unknown level: fall back to info rather than dropping events.
		logger, _ = New(Options{Level: LevelInfo})
	}
	return logger
}

// NewFileLogger creates a new JSON logger appending to a file
func NewFileLogger(minLevel Level, logFilePath string) (*Logger, error) {
	return New(Options{Level: minLevel, File: logFilePath})
}

// New creates a logger from options.
func New(opts Options) (*Logger, error) {
	if opts.Level == "" {
		opts.Level = LevelInfo
	}
	zlevel, err := toZerologLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}

	var logFile *os.File
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		logFile, err = os.OpenFile(opts.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		writer = logFile
	}

	switch strings.ToLower(opts.Format) {
	case "", FormatJSON:
	case FormatText:
		writer = zerolog.ConsoleWriter{Out: writer, NoColor: true, TimeFormat: time.RFC3339}
	default:
		if logFile != nil {
			_ = logFile.Close()
		}
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	return &Logger{
		base:     zerolog.New(writer).Level(zlevel),
		minLevel: opts.Level,
		logFile:  logFile,
	}, nil
}

// With returns a derived logger that attaches fields to every event.
func (l *Logger) With(fields map[string]interface{}) *Logger {
	if l == nil {
		return nil
	}
	ctx := l.base.With()
	for key, value := range fields {
		ctx = ctx.Interface(key, value)
	}
	return &Logger{base: ctx.Logger(), minLevel: l.minLevel, logFile: l.logFile}
}

// Close closes the log file if open
func (l *Logger) Close() error {
	if l != nil && l.logFile != nil {
		return l.logFile.Close()
	}
	return nil
}

// Log writes a structured log event
func (l *Logger) Log(level Level, eventType, message string, payload map[string]interface{}) {
	if l == nil || !l.shouldLog(level) {
		return
	}

	var event *zerolog.Event
	switch level {
	case LevelDebug:
		event = l.base.Debug()
	case LevelWarn:
		event = l.base.Warn()
	case LevelError:
		event = l.base.Error()
	default:
		event = l.base.Info()
	}

	event = event.Str("ts", time.Now().UTC().Format(time.RFC3339)).Str("type", eventType)
	if len(payload) > 0 {
		event = event.Interface("payload", payload)
	}
	event.Msg(message)
}

// Debug logs a debug-level event
func (l *Logger) Debug(eventType, message string, payload map[string]interface{}) {
	l.Log(LevelDebug, eventType, message, payload)
}

// Info logs an info-level event
func (l *Logger) Info(eventType, message string, payload map[string]interface{}) {
	l.Log(LevelInfo, eventType, message, payload)
}

// Warn logs a warn-level event
func (l *Logger) Warn(eventType, message string, payload map[string]interface{}) {
	l.Log(LevelWarn, eventType, message, payload)
}

// Error logs an error-level event
func (l *Logger) Error(eventType, message string, payload map[string]interface{}) {
	l.Log(LevelError, eventType, message, payload)
}

// shouldLog determines if a log level should be output
func (l *Logger) shouldLog(level Level) bool {
	levels := map[Level]int{
		LevelDebug: 0,
		LevelInfo:  1,
		LevelWarn:  2,
		LevelError: 3,
	}
	return levels[level] >= levels[l.minLevel]
}

// ParseLevel converts a config string into a Level.
func ParseLevel(s string) (Level, error) {
	level := Level(strings.ToLower(strings.TrimSpace(s)))
	if _, err := toZerologLevel(level); err != nil {
		return "", err
	}
	return level, nil
}

func toZerologLevel(level Level) (zerolog.Level, error) {
	switch level {
	case LevelDebug:
		return zerolog.DebugLevel, nil
	case LevelInfo:
		return zerolog.InfoLevel, nil
	case LevelWarn:
		return zerolog.WarnLevel, nil
	case LevelError:
		return zerolog.ErrorLevel, nil
	}
	return zerolog.NoLevel, fmt.Errorf("unknown log level %q", level)
}
