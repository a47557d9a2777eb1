package config

import (
	"os"
	"path/filepath"
	"testing"

	"todiem/internal/logger"
)

func TestNewAppliesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := New(dir, "", logger.NewNop())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if cfg.Concurrency != DefaultConcurrency {
		t.Errorf("Concurrency = %d, want %d", cfg.Concurrency, DefaultConcurrency)
	}
	if !filepath.IsAbs(cfg.WorkDir) {
		t.Errorf("WorkDir = %q, want absolute path", cfg.WorkDir)
	}
}

func TestResolveFontExplicit(t *testing.T) {
	fontPath := filepath.Join(t.TempDir(), "arial.ttf")
	if err := os.WriteFile(fontPath, []byte("ttf"), 0644); err != nil {
		t.Fatal(err)
	}

	got := resolveFont(fontPath, logger.NewNop())
	if got != fontPath {
		t.Errorf("resolveFont() = %q, want %q", got, fontPath)
	}
}

func TestResolveFontMissingIsNotFatal(t *testing.T) {
	got := resolveFont(filepath.Join(t.TempDir(), "nope.ttf"), logger.NewNop())
	// Fallback either probes a system font or returns empty; both are
	// acceptable, only a panic or error would not be.
	if got != "" {
		if _, err := os.Stat(got); err != nil {
			t.Errorf("resolveFont() returned unreadable path %q", got)
		}
	}
}
