// Package pdf extracts positioned text from answer-sheet PDFs and locates
// the anchors (score column header, student ID tokens) that drive overlay
// placement.
package pdf

// Word is a whitespace-delimited token with its position on a page. X is
// the left edge, Top the distance from the page's top edge, both in
// points.
type Word struct {
	Text     string
	X        float64
	Top      float64
	FontSize float64
}

// Page is one page's extracted word stream in reading order.
type Page struct {
	Number int // 1-based
	Height float64
	Words  []Word
}

// ColumnAnchor locates the score column header token. Its X0 is the
// origin for all score-mark x-offsets on every page.
type ColumnAnchor struct {
	X0     float64
	Top    float64
	Bottom float64
}

// AnchorPosition is the first-seen location of one student ID.
type AnchorPosition struct {
	StudentID string
	X         float64
	Top       float64
	Page      int // 1-based
}
