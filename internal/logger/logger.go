// Package logger provides leveled, structured logging for the grade
// stamping application. A Logger is constructed once at process start and
// passed explicitly to every component; there is no process-global logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Level represents the severity level of a log message
type Level int

const (
	// LevelDebug is for detailed debugging information
	LevelDebug Level = iota
	// LevelInfo is for general informational messages
	LevelInfo
	// LevelWarn is for warning messages
	LevelWarn
	// LevelError is for error messages
	LevelError
)

// String returns the string representation of the log level
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value interface{}
}

// String creates a string field
func String(key string, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an integer field
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Float64 creates a float64 field
func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

// Err creates an error field
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Any creates a field with any value
func Any(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Logger defines the logging interface
type Logger interface {
	// Debug logs a debug message with optional fields
	Debug(msg string, fields ...Field)
	// Info logs an informational message with optional fields
	Info(msg string, fields ...Field)
	// Warn logs a warning message with optional fields
	Warn(msg string, fields ...Field)
	// Error logs an error message with error and optional fields
	Error(msg string, err error, fields ...Field)
	// SetLevel sets the minimum log level
	SetLevel(level Level)
	// Close closes the logger and releases resources
	Close() error
}

// Config holds the configuration for the logger
type Config struct {
	// LogFilePath is the path to the log file; empty disables file output
	LogFilePath string
	// Level is the minimum log level to output
	Level Level
	// EnableConsole enables output to stderr in addition to the file
	EnableConsole bool
}

// DefaultConfig returns a default logger configuration
func DefaultConfig() *Config {
	return &Config{
		LogFilePath:   "todiem.log",
		Level:         LevelInfo,
		EnableConsole: true,
	}
}

// DefaultLogger is the default implementation of the Logger interface
type DefaultLogger struct {
	mu         sync.Mutex
	level      Level
	file       *os.File
	writers    []io.Writer
	timeFormat string
}

// NewDefaultLogger creates a new DefaultLogger with the given configuration
func NewDefaultLogger(config *Config) (*DefaultLogger, error) {
	if config == nil {
		config = DefaultConfig()
	}

	l := &DefaultLogger{
		level:      config.Level,
		timeFormat: "2006-01-02 15:04:05.000",
	}

	if config.LogFilePath != "" {
		logDir := filepath.Dir(config.LogFilePath)
		if logDir != "" && logDir != "." {
			if err := os.MkdirAll(logDir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory: %w", err)
			}
		}
		file, err := os.OpenFile(config.LogFilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		l.file = file
		l.writers = append(l.writers, file)
	}
	if config.EnableConsole || l.file == nil {
		l.writers = append(l.writers, os.Stderr)
	}

	return l, nil
}

// Debug logs a debug message
func (l *DefaultLogger) Debug(msg string, fields ...Field) {
	l.log(LevelDebug, msg, nil, fields...)
}

// Info logs an informational message
func (l *DefaultLogger) Info(msg string, fields ...Field) {
	l.log(LevelInfo, msg, nil, fields...)
}

// Warn logs a warning message
func (l *DefaultLogger) Warn(msg string, fields ...Field) {
	l.log(LevelWarn, msg, nil, fields...)
}

// Error logs an error message
func (l *DefaultLogger) Error(msg string, err error, fields ...Field) {
	l.log(LevelError, msg, err, fields...)
}

// SetLevel sets the minimum log level
func (l *DefaultLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Close closes the logger and releases resources
func (l *DefaultLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// log writes a log entry
func (l *DefaultLogger) log(level Level, msg string, err error, fields ...Field) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	entry := l.formatEntry(level, msg, err, fields...)
	for _, w := range l.writers {
		w.Write([]byte(entry))
	}
}

// formatEntry formats a log entry
func (l *DefaultLogger) formatEntry(level Level, msg string, err error, fields ...Field) string {
	var sb strings.Builder

	sb.WriteString(time.Now().Format(l.timeFormat))
	sb.WriteString(" [")
	sb.WriteString(level.String())
	sb.WriteString("] ")
	sb.WriteString(msg)

	if err != nil {
		sb.WriteString(" error=\"")
		sb.WriteString(err.Error())
		sb.WriteString("\"")
	}

	for _, f := range fields {
		sb.WriteString(" ")
		sb.WriteString(f.Key)
		sb.WriteString("=")
		sb.WriteString(fmt.Sprintf("%v", f.Value))
	}

	sb.WriteString("\n")
	return sb.String()
}

// NewNop returns a logger that discards all messages. Intended for tests.
func NewNop() Logger {
	return &nopLogger{}
}

// nopLogger is a no-operation logger that discards all log messages
type nopLogger struct{}

func (n *nopLogger) Debug(msg string, fields ...Field)            {}
func (n *nopLogger) Info(msg string, fields ...Field)             {}
func (n *nopLogger) Warn(msg string, fields ...Field)             {}
func (n *nopLogger) Error(msg string, err error, fields ...Field) {}
func (n *nopLogger) SetLevel(level Level)                         {}
func (n *nopLogger) Close() error                                 { return nil }
