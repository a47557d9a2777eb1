package grades

import (
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"todiem/internal/logger"
	"todiem/internal/types"
)

const (
	// ColumnStudentID is the ID column header of a per-category table
	ColumnStudentID = "Mã SV"
	// ColumnScore is the score column header of a per-category table
	ColumnScore = "Điểm"

	// maxInvalidReported caps the number of out-of-range IDs listed in
	// the load warning
	maxInvalidReported = 5
)

// Table is a read-only mapping from student ID to score. A nil score
// means the student has no recorded grade (absent). Scores outside [0,10]
// are kept and flagged at load time, not dropped.
type Table struct {
	scores map[string]*float64
}

// Len returns the number of students in the table.
func (t *Table) Len() int {
	return len(t.scores)
}

// Lookup returns the score recorded for the student, and whether the
// student appears in the table at all.
func (t *Table) Lookup(studentID string) (*float64, bool) {
	score, ok := t.scores[strings.TrimSpace(studentID)]
	return score, ok
}

// LoadTable reads a two-column grade spreadsheet ("Mã SV", "Điểm") into a
// Table. IDs are trimmed and stringified; empty score cells become nil
// (absent) and unparsable cells become NaN so they render as invalid.
// Out-of-range scores are logged as a warning listing up to 5 IDs.
func LoadTable(path string, log logger.Logger) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, types.NewAppError(types.ErrSourceNotFound, "spreadsheet not found: "+path, err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, types.NewAppError(types.ErrSourceNotFound, "cannot open spreadsheet: "+path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, types.NewAppError(types.ErrSourceNotFound, "cannot read spreadsheet: "+path, err)
	}
	if len(rows) == 0 {
		return nil, types.NewAppError(types.ErrMissingColumns,
			"spreadsheet has no header row: "+path, nil)
	}

	idCol := columnIndex(rows[0], ColumnStudentID)
	scoreCol := columnIndex(rows[0], ColumnScore)
	if idCol < 0 || scoreCol < 0 {
		return nil, types.NewAppErrorWithDetails(types.ErrMissingColumns,
			"spreadsheet is missing required columns",
			ColumnStudentID+" / "+ColumnScore, nil)
	}

	table := &Table{scores: make(map[string]*float64)}
	var invalid []string

	for _, row := range rows[1:] {
		id := cellAt(row, idCol)
		if id == "" {
			continue
		}

		score := parseScore(cellAt(row, scoreCol))
		if score != nil && (*score < 0 || *score > 10) {
			invalid = append(invalid, id)
		}
		table.scores[id] = score
	}

	if len(invalid) > 0 {
		listed := invalid
		suffix := ""
		if len(listed) > maxInvalidReported {
			listed = listed[:maxInvalidReported]
			suffix = "..."
		}
		log.Warn("students with scores outside [0,10]",
			logger.Int("count", len(invalid)),
			logger.String("ids", strings.Join(listed, ", ")+suffix))
	}

	log.Info("grade table loaded",
		logger.String("file", path),
		logger.Int("students", table.Len()))
	return table, nil
}

// columnIndex returns the index of the named header, or -1.
func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

// cellAt returns the trimmed cell value, tolerating short rows.
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseScore maps a raw cell to a score pointer: empty cells are absent
// (nil), unparsable cells become NaN and later render as invalid.
func parseScore(cell string) *float64 {
	if cell == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", "."), 64)
	if err != nil {
		nan := math.NaN()
		return &nan
	}
	return &v
}
