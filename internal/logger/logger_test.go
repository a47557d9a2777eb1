package logger

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewDefaultLogger(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")

	config := &Config{
		LogFilePath:   logPath,
		Level:         LevelDebug,
		EnableConsole: false,
	}

	l, err := NewDefaultLogger(config)
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer l.Close()

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Error("Log file was not created")
	}
}

func TestLogLevels(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")

	config := &Config{
		LogFilePath:   logPath,
		Level:         LevelDebug,
		EnableConsole: false,
	}

	l, err := NewDefaultLogger(config)
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	l.Debug("debug message", String("key", "value"))
	l.Info("info message", Int("count", 42))
	l.Warn("warn message", String("file", "a.pdf"))
	l.Error("error message", errors.New("test error"), Float64("score", 8.5))

	l.Close()

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	logContent := string(content)

	for _, want := range []string{
		"[DEBUG]", "[INFO]", "[WARN]", "[ERROR]",
		"debug message", "info message", "warn message", "error message",
		"key=value", "count=42", "score=8.5", `error="test error"`,
	} {
		if !strings.Contains(logContent, want) {
			t.Errorf("log output missing %q", want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")

	l, err := NewDefaultLogger(&Config{
		LogFilePath:   logPath,
		Level:         LevelWarn,
		EnableConsole: false,
	})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	l.Debug("hidden debug")
	l.Info("hidden info")
	l.Warn("visible warn")
	l.Close()

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	if strings.Contains(string(content), "hidden") {
		t.Error("messages below the configured level were written")
	}
	if !strings.Contains(string(content), "visible warn") {
		t.Error("warn message was filtered out")
	}
}

func TestSetLevel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")

	l, err := NewDefaultLogger(&Config{
		LogFilePath:   logPath,
		Level:         LevelInfo,
		EnableConsole: false,
	})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	l.Debug("before")
	l.SetLevel(LevelDebug)
	l.Debug("after")
	l.Close()

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	if strings.Contains(string(content), "before") {
		t.Error("debug message logged before lowering the level")
	}
	if !strings.Contains(string(content), "after") {
		t.Error("debug message missing after lowering the level")
	}
}

func TestNopLogger(t *testing.T) {
	l := NewNop()
	l.Debug("a")
	l.Info("b")
	l.Warn("c")
	l.Error("d", errors.New("e"))
	if err := l.Close(); err != nil {
		t.Errorf("Close() = %v, want nil", err)
	}
}
