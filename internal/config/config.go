// Package config provides run configuration for the grade stamping
// application. All values are resolved once before processing begins.
package config

import (
	"os"
	"path/filepath"

	"todiem/internal/logger"
)

const (
	// DefaultConcurrency is the maximum number of grade categories
	// processed in parallel
	DefaultConcurrency = 3
	// DefaultLogFileName is the log file created in the working directory
	DefaultLogFileName = "todiem.log"
	// FontFamily is the font family name registered for overlay text
	FontFamily = "arial"
	// FontSize is the point size used for all overlay text
	FontSize = 9.0
)

// fontCandidates are the well-known Arial locations probed when no font
// path is given on the command line.
var fontCandidates = []string{
	"arial.ttf",
	"/usr/share/fonts/truetype/msttcorefonts/Arial.ttf",
	"C:/Windows/Fonts/arial.ttf",
}

// Config holds one run's settings.
type Config struct {
	// WorkDir is the directory holding the roster spreadsheet and the
	// answer-sheet PDFs
	WorkDir string
	// FontPath is the resolved TTF font for overlay text; empty means
	// the built-in core font is used
	FontPath string
	// KeepOriginals retains the input PDFs after processing
	KeepOriginals bool
	// UseDefaultInfo skips the interactive staff-name prompts
	UseDefaultInfo bool
	// Concurrency bounds the number of categories processed in parallel
	Concurrency int
}

// New builds a Config for the given working directory and font request,
// applying defaults for zero values. Font resolution failure is a warning,
// never fatal: rendering falls back to the built-in font.
func New(workDir, fontPath string, log logger.Logger) (*Config, error) {
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		WorkDir:     abs,
		FontPath:    resolveFont(fontPath, log),
		Concurrency: DefaultConcurrency,
	}
	return cfg, nil
}

// resolveFont returns the first usable TTF path, preferring the explicit
// request over the candidate chain.
func resolveFont(explicit string, log logger.Logger) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		log.Warn("requested font not found, probing defaults",
			logger.String("font", explicit))
	}

	for _, p := range fontCandidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	log.Warn("no Arial font found, overlay text uses the built-in font")
	return ""
}
