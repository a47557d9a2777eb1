// Package pipeline orchestrates one stamping run: discover the roster,
// split it into per-category grade tables, classify the answer sheets and
// process every category independently.
package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"todiem/internal/classify"
	"todiem/internal/config"
	"todiem/internal/grades"
	"todiem/internal/logger"
	"todiem/internal/overlay"
	"todiem/internal/pdf"
	"todiem/internal/types"
)

// CategoryResult is one category's outcome. Processed counts documents
// stamped successfully; Err is set when the category as a whole failed
// (its grade table could not be loaded, or no documents matched).
type CategoryResult struct {
	Category  grades.Category
	Processed int
	Err       error
}

// Result summarizes a run. Per-document failures inside categories are
// logged, not escalated: the run succeeded once the roster was split.
type Result struct {
	Spreadsheet string
	Categories  []CategoryResult
}

// Pipeline drives one working directory through the stamping states.
type Pipeline struct {
	cfg  *config.Config
	info types.SupervisorInfo
	log  logger.Logger
}

// New creates a Pipeline.
func New(cfg *config.Config, info types.SupervisorInfo, log logger.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, info: info, log: log}
}

// Run executes Discover, SplitByCategory, Classify, ProcessCategories and
// Cleanup in order. Only the first two states are fatal; category workers
// are isolated failure domains. ctx cancellation is honored between
// states and between documents.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	dir := p.cfg.WorkDir

	roster, err := p.discoverSpreadsheet(dir)
	if err != nil {
		return nil, err
	}
	p.log.Info("roster discovered", logger.String("file", filepath.Base(roster)))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	available, err := grades.SplitByCategory(roster, dir, p.log)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := classify.New(p.log).Classify(dir); err != nil {
		// Best effort: unclassified documents simply match no category.
		p.log.Error("classification pass failed", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{
		Spreadsheet: roster,
		Categories:  make([]CategoryResult, len(available)),
	}
	p.processCategories(ctx, available, result)

	p.cleanup(dir)
	return result, nil
}

// discoverSpreadsheet picks the roster file. Listing order is made
// explicit by sorting; multiple candidates are a warning, the first one
// wins.
func (p *Pipeline) discoverSpreadsheet(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.xlsx"))
	if err != nil {
		return "", err
	}

	// Transient per-category tables from an aborted run are not rosters.
	candidates := matches[:0]
	for _, m := range matches {
		if !strings.HasPrefix(filepath.Base(m), "grade_") {
			candidates = append(candidates, m)
		}
	}

	if len(candidates) == 0 {
		return "", types.NewAppError(types.ErrNoSpreadsheetFound,
			"no roster spreadsheet found in "+dir, nil)
	}

	sort.Strings(candidates)
	if len(candidates) > 1 {
		p.log.Warn("multiple spreadsheets found, using the first in sorted order",
			logger.Int("count", len(candidates)),
			logger.String("picked", filepath.Base(candidates[0])))
	}
	return candidates[0], nil
}

// processCategories fans the available categories out over a bounded
// worker pool. Each worker writes only its own result slot, so success
// counts stay attributable regardless of completion order.
func (p *Pipeline) processCategories(ctx context.Context, available []grades.Category, result *Result) {
	limit := p.cfg.Concurrency
	if limit > len(available) {
		limit = len(available)
	}
	if limit < 1 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, cat := range available {
		g.Go(func() error {
			res := p.processCategory(gctx, cat)
			result.Categories[i] = res
			if res.Err != nil {
				p.log.Error("category failed", res.Err,
					logger.String("category", cat.Key()))
			} else {
				p.log.Info("category complete",
					logger.String("category", cat.Key()),
					logger.Int("processed", res.Processed))
			}
			// Worker errors stay in the result so one category cannot
			// cancel its siblings.
			return nil
		})
	}
	g.Wait()
}

// processCategory stamps every document matching one category.
func (p *Pipeline) processCategory(ctx context.Context, cat grades.Category) CategoryResult {
	res := CategoryResult{Category: cat}
	dir := p.cfg.WorkDir

	table, err := grades.LoadTable(filepath.Join(dir, cat.TableFileName()), p.log)
	if err != nil {
		res.Err = err
		return res
	}

	docs, err := p.categoryDocuments(dir, cat)
	if err != nil {
		res.Err = err
		return res
	}
	if len(docs) == 0 {
		p.log.Warn("no documents for category", logger.String("category", cat.Key()))
		return res
	}

	renderer := overlay.NewRenderer(table, p.info, p.log)
	merger := overlay.NewMerger(p.cfg.FontPath, p.log)

	for _, name := range docs {
		if err := ctx.Err(); err != nil {
			res.Err = err
			return res
		}
		if err := p.processDocument(dir, name, renderer, merger); err != nil {
			p.log.Error("document failed", err,
				logger.String("file", name),
				logger.String("category", cat.Key()))
			continue
		}
		res.Processed++
	}

	return res
}

// processDocument runs locate, render and merge for a single answer
// sheet.
func (p *Pipeline) processDocument(dir, name string, renderer *overlay.Renderer, merger *overlay.Merger) error {
	path := filepath.Join(dir, name)

	pageCount, err := pdf.PageCount(path)
	if err != nil {
		return err
	}
	pages, err := pdf.ExtractPages(path)
	if err != nil {
		return err
	}

	anchor := pdf.FindColumnAnchor(pages, p.log)
	positions := pdf.FindStudentPositions(pages, p.log)

	overlays, err := renderer.Render(anchor, positions, pageCount)
	if err != nil {
		return err
	}

	return merger.Merge(path, overlays, filepath.Join(dir, overlay.OutputName(name)))
}

// categoryDocuments lists the PDFs carrying the category's suffix,
// excluding already-stamped outputs.
func (p *Pipeline) categoryDocuments(dir string, cat grades.Category) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var docs []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.EqualFold(filepath.Ext(name), ".pdf") {
			continue
		}
		if strings.HasPrefix(name, "output_") {
			continue
		}
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		if cat.MatchesStem(stem) {
			docs = append(docs, name)
		}
	}
	sort.Strings(docs)
	return docs, nil
}

// cleanup removes the transient per-category tables and, unless the run
// keeps originals, the already-stamped input documents. Failures here are
// logged only.
func (p *Pipeline) cleanup(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		p.log.Error("cleanup listing failed", err)
		return
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			continue
		}

		transientTable := strings.HasPrefix(name, "grade_") && strings.HasSuffix(name, ".xlsx")
		original := !p.cfg.KeepOriginals &&
			strings.EqualFold(filepath.Ext(name), ".pdf") &&
			!strings.Contains(strings.ToLower(name), "output")

		if !transientTable && !original {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			p.log.Error("cleanup failed", err, logger.String("file", name))
			continue
		}
		p.log.Debug("removed", logger.String("file", name))
	}
}
