// Package classify assigns answer-sheet PDFs to grade categories by their
// text content, renaming them with the category suffix for downstream
// lookup.
package classify

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"todiem/internal/grades"
	"todiem/internal/logger"
	"todiem/internal/pdf"
)

// Classifier renames PDFs in a directory according to the grading-phase
// keyword found in their text.
type Classifier struct {
	log logger.Logger

	// extractText is swappable in tests
	extractText func(path string) (string, error)
}

// New creates a Classifier.
func New(log logger.Logger) *Classifier {
	return &Classifier{log: log, extractText: pdf.ExtractText}
}

// Classify inspects every *.pdf in dir and renames matches to carry their
// category suffix. Already-suffixed files are left alone, so running
// twice is a no-op. Unreadable documents are logged and skipped. The
// returned map holds the renames actually applied (old name to new name).
func (c *Classifier) Classify(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	renamed := make(map[string]string)
	for _, name := range names {
		newName, ok := c.classifyOne(dir, name)
		if ok {
			renamed[name] = newName
		}
	}
	return renamed, nil
}

// classifyOne renames a single document, reporting whether a rename
// happened.
func (c *Classifier) classifyOne(dir, name string) (string, bool) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if hasCategorySuffix(stem) {
		return "", false
	}

	content, err := c.extractText(filepath.Join(dir, name))
	if err != nil {
		c.log.Error("cannot read document for classification", err,
			logger.String("file", name))
		return "", false
	}

	cat, ok := MatchCategory(content)
	if !ok {
		return "", false
	}

	newName := freeName(dir, stem, ext, cat)
	if err := os.Rename(filepath.Join(dir, name), filepath.Join(dir, newName)); err != nil {
		c.log.Error("rename failed", err,
			logger.String("from", name),
			logger.String("to", newName))
		return "", false
	}

	c.log.Info("document classified",
		logger.String("from", name),
		logger.String("to", newName),
		logger.String("category", cat.Key()))
	return newName, true
}

// MatchCategory returns the first category whose keyword appears in the
// document text (case-insensitive, first match wins in canonical order).
func MatchCategory(content string) (grades.Category, bool) {
	lower := strings.ToLower(content)
	for _, cat := range grades.Categories() {
		if strings.Contains(lower, cat.Keyword()) {
			return cat, true
		}
	}
	return "", false
}

// hasCategorySuffix reports whether the file stem already carries any
// category's suffix at its tail.
func hasCategorySuffix(stem string) bool {
	for _, cat := range grades.Categories() {
		if cat.MatchesStem(stem) {
			return true
		}
	}
	return false
}

// freeName picks the suffixed target name, keeping the document's own
// extension and appending an incrementing counter until no file with
// that name exists.
func freeName(dir, stem, ext string, cat grades.Category) string {
	candidate := stem + cat.Suffix() + ext
	for counter := 1; ; counter++ {
		if _, err := os.Stat(filepath.Join(dir, candidate)); os.IsNotExist(err) {
			return candidate
		}
		candidate = fmt.Sprintf("%s%s_%d%s", stem, cat.Suffix(), counter, ext)
	}
}
