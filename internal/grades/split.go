package grades

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"todiem/internal/logger"
	"todiem/internal/types"
)

// ColumnRosterID is the ID column header of the combined roster.
const ColumnRosterID = "StudentID"

// SplitByCategory reads the combined roster spreadsheet and writes one
// two-column grade table (grade_<key>.xlsx with "Mã SV"/"Điểm" headers)
// into dir for every category column present. It returns the categories
// that were found, in canonical order.
func SplitByCategory(path, dir string, log logger.Logger) ([]Category, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, types.NewAppError(types.ErrSourceNotFound, "roster not found: "+path, err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, types.NewAppError(types.ErrSourceNotFound, "cannot open roster: "+path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, types.NewAppError(types.ErrSourceNotFound, "cannot read roster: "+path, err)
	}
	if len(rows) == 0 {
		return nil, types.NewAppError(types.ErrMissingColumns,
			"roster has no header row: "+path, nil)
	}

	idCol := columnIndex(rows[0], ColumnRosterID)
	if idCol < 0 {
		return nil, types.NewAppErrorWithDetails(types.ErrMissingColumns,
			"roster is missing the ID column", ColumnRosterID, nil)
	}

	var available []Category
	for _, cat := range Categories() {
		scoreCol := columnIndex(rows[0], cat.Column())
		if scoreCol < 0 {
			continue
		}

		target := filepath.Join(dir, cat.TableFileName())
		if err := writeCategoryTable(target, rows[1:], idCol, scoreCol); err != nil {
			return nil, types.NewAppError(types.ErrWrite,
				"cannot write "+target, err)
		}

		log.Info("category grade table created",
			logger.String("category", cat.Key()),
			logger.String("file", filepath.Base(target)))
		available = append(available, cat)
	}

	if len(available) == 0 {
		return nil, types.NewAppErrorWithDetails(types.ErrNoCategoriesFound,
			"roster has no category score columns",
			strings.Join(categoryColumns(), " / "), nil)
	}
	return available, nil
}

// writeCategoryTable writes one two-column grade spreadsheet.
func writeCategoryTable(path string, rows [][]string, idCol, scoreCol int) error {
	out := excelize.NewFile()
	defer out.Close()

	sheet := out.GetSheetName(0)
	if err := out.SetCellValue(sheet, "A1", ColumnStudentID); err != nil {
		return err
	}
	if err := out.SetCellValue(sheet, "B1", ColumnScore); err != nil {
		return err
	}

	line := 2
	for _, row := range rows {
		id := cellAt(row, idCol)
		if id == "" {
			continue
		}
		idCell, err := excelize.CoordinatesToCellName(1, line)
		if err != nil {
			return err
		}
		scoreCell, err := excelize.CoordinatesToCellName(2, line)
		if err != nil {
			return err
		}
		if err := out.SetCellValue(sheet, idCell, id); err != nil {
			return err
		}
		if err := out.SetCellValue(sheet, scoreCell, cellAt(row, scoreCol)); err != nil {
			return err
		}
		line++
	}

	return out.SaveAs(path)
}

func categoryColumns() []string {
	cols := make([]string, 0, len(Categories()))
	for _, c := range Categories() {
		cols = append(cols, c.Column())
	}
	return cols
}
