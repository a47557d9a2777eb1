// Package grades loads student grade tables from Excel rosters and
// converts scores to their Vietnamese word form.
package grades

import "strings"

// Category is one of the three grading phases. Each category has its own
// score column in the roster, its own keyword in the answer-sheet text and
// its own filename suffix.
type Category string

const (
	// CategoryProcess is the continuous-assessment grade (quá trình)
	CategoryProcess Category = "qt"
	// CategoryMidterm is the midterm grade (giữa kỳ)
	CategoryMidterm Category = "gk"
	// CategoryFinal is the final-exam grade (cuối kỳ)
	CategoryFinal Category = "ck"
)

// Categories lists all known grading phases in roster column order.
func Categories() []Category {
	return []Category{CategoryProcess, CategoryMidterm, CategoryFinal}
}

// Key returns the short identifier used in transient file names
// (grade_<key>.xlsx).
func (c Category) Key() string {
	return string(c)
}

// Column returns the roster column header holding this category's scores.
func (c Category) Column() string {
	switch c {
	case CategoryProcess:
		return "Điểm quá trình"
	case CategoryMidterm:
		return "Điểm giữa kỳ"
	case CategoryFinal:
		return "Điểm cuối kỳ"
	default:
		return ""
	}
}

// Keyword returns the lowercase phrase that identifies this category in an
// answer sheet's text content.
func (c Category) Keyword() string {
	switch c {
	case CategoryProcess:
		return "quá trình"
	case CategoryMidterm:
		return "giữa kỳ"
	case CategoryFinal:
		return "cuối kỳ"
	default:
		return ""
	}
}

// Suffix returns the filename suffix appended to classified documents.
func (c Category) Suffix() string {
	return "_" + string(c)
}

// TableFileName returns the transient per-category spreadsheet name.
func (c Category) TableFileName() string {
	return "grade_" + string(c) + ".xlsx"
}

// MatchesStem reports whether a document stem carries this category's
// suffix at its tail, directly ("sheet_qt") or followed by a numeric
// disambiguator ("sheet_qt_1"). Anchoring to the tail keeps a stem that
// mentions another category's suffix mid-name out of this category.
func (c Category) MatchesStem(stem string) bool {
	if strings.HasSuffix(stem, c.Suffix()) {
		return true
	}
	if i := strings.LastIndex(stem, "_"); i >= 0 && isDigits(stem[i+1:]) {
		return strings.HasSuffix(stem[:i], c.Suffix())
	}
	return false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

