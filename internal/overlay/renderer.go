// Package overlay synthesizes per-page grade marks and merges them onto
// the original answer-sheet pages.
package overlay

import (
	"math"
	"strconv"

	"todiem/internal/grades"
	"todiem/internal/logger"
	"todiem/internal/pdf"
	"todiem/internal/types"
)

// Mark coordinates use canvas space: origin at the bottom-left of the
// page, y growing upward. The merger flips them into the output
// document's coordinate system.
const (
	// canvasHeight is the fixed reference height used to flip extracted
	// top-measured positions into canvas space
	canvasHeight = 832.0

	// Grade text sits left of the score column header.
	textOffsetX = -12.0

	// Integer bubble: x = columnX + circleBaseX + floor(score)*circleStepX.
	circleBaseX = 44.5
	circleStepX = 16.7
	// Half-point bubble column offset from the header.
	halfCircleX = 229.0
	// Bubbles sit slightly above the text baseline.
	circleOffsetY = 3.0
	// circleDiameter is 4 mm expressed in points.
	circleDiameter = 4 * 2.8346

	// First-page header coordinates.
	totalX       = 125.0
	totalY       = 93.5
	absentX      = 125.0
	absentY      = 75.0
	supervisorX  = 380.0
	graderX      = 505.0
	staffTopY    = 52.0
	staffBottomY = 15.0
)

// TextMark is a string drawn at a canvas-space position.
type TextMark struct {
	X, Y     float64
	Text     string
	Centered bool
}

// CircleMark is a filled bubble at a canvas-space center.
type CircleMark struct {
	X, Y   float64
	Radius float64
}

// PageOverlay holds all marks for one source page.
type PageOverlay struct {
	Texts   []TextMark
	Circles []CircleMark
}

// Renderer computes overlay marks for a document from its anchors and the
// category's grade table.
type Renderer struct {
	table *grades.Table
	info  types.SupervisorInfo
	log   logger.Logger
}

// NewRenderer creates a Renderer over one category's grade table.
func NewRenderer(table *grades.Table, info types.SupervisorInfo, log logger.Logger) *Renderer {
	return &Renderer{table: table, info: info, log: log}
}

// Render builds one overlay per source page. It fails when the document
// has no score column anchor or no located students; both are required
// for placement.
func (r *Renderer) Render(anchor *pdf.ColumnAnchor, positions map[string]pdf.AnchorPosition, pageCount int) ([]PageOverlay, error) {
	if anchor == nil {
		return nil, types.NewAppError(types.ErrAnchorNotFound,
			"score column header not found in document", nil)
	}
	if len(positions) == 0 {
		return nil, types.NewAppError(types.ErrNoStudentsFound,
			"no student IDs found in document", nil)
	}

	total, absent, missing := r.counts(positions)
	if missing > 0 {
		r.log.Warn("students in document missing from grade table",
			logger.Int("count", missing))
	}
	r.log.Info("rendering overlays",
		logger.Int("students", total),
		logger.Int("absent", absent),
		logger.Int("pages", pageCount))

	overlays := make([]PageOverlay, pageCount)
	if pageCount > 0 {
		r.headerMarks(&overlays[0], total, absent)
	}

	for _, pos := range positions {
		idx := pos.Page - 1
		if idx < 0 || idx >= pageCount {
			continue
		}
		r.studentMarks(&overlays[idx], anchor.X0, pos)
	}

	return overlays, nil
}

// counts returns total positioned students, how many of them are recorded
// absent, and how many are missing from the table entirely.
func (r *Renderer) counts(positions map[string]pdf.AnchorPosition) (total, absent, missing int) {
	total = len(positions)
	for id := range positions {
		score, ok := r.table.Lookup(id)
		if !ok {
			missing++
			continue
		}
		if score == nil {
			absent++
		}
	}
	return total, absent, missing
}

// headerMarks draws the first-page totals and staff names.
func (r *Renderer) headerMarks(o *PageOverlay, total, absent int) {
	o.Texts = append(o.Texts,
		TextMark{X: totalX, Y: totalY, Text: strconv.Itoa(total)},
		TextMark{X: absentX, Y: absentY, Text: strconv.Itoa(absent)},
		TextMark{X: supervisorX, Y: staffTopY, Text: r.info.Supervisor1, Centered: true},
		TextMark{X: supervisorX, Y: staffBottomY, Text: r.info.Supervisor2, Centered: true},
		TextMark{X: graderX, Y: staffTopY, Text: r.info.Grader1, Centered: true},
		TextMark{X: graderX, Y: staffBottomY, Text: r.info.Grader2, Centered: true},
	)
}

// studentMarks draws one student's grade words and, for valid scores, the
// position-encoded bubbles.
func (r *Renderer) studentMarks(o *PageOverlay, columnX float64, pos pdf.AnchorPosition) {
	score, ok := r.table.Lookup(pos.StudentID)
	if !ok {
		r.log.Debug("student not in grade table",
			logger.String("studentID", pos.StudentID))
		return
	}

	y := canvasHeight - pos.Top
	o.Texts = append(o.Texts, TextMark{
		X:    columnX + textOffsetX,
		Y:    y,
		Text: grades.Words(score),
	})

	if score == nil || math.IsNaN(*score) || *score < 0 || *score > 10 {
		return
	}

	radius := circleDiameter / 2
	o.Circles = append(o.Circles, CircleMark{
		X:      columnX + circleBaseX + math.Floor(*score)*circleStepX,
		Y:      y + circleOffsetY,
		Radius: radius,
	})
	if grades.IsHalf(*score) {
		o.Circles = append(o.Circles, CircleMark{
			X:      columnX + halfCircleX,
			Y:      y + circleOffsetY,
			Radius: radius,
		})
	}
}
