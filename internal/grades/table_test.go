package grades

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"todiem/internal/logger"
	"todiem/internal/types"
)

// writeSheet builds a spreadsheet from a header row plus data rows.
func writeSheet(t *testing.T, path string, rows [][]interface{}) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
}

func TestLoadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grade_qt.xlsx")
	writeSheet(t, path, [][]interface{}{
		{"Mã SV", "Điểm"},
		{"100000001", 8.5},
		{" 100000002 ", ""},
		{"100000003", 12.0},
		{"100000004", "n/a"},
	})

	table, err := LoadTable(path, logger.NewNop())
	if err != nil {
		t.Fatalf("LoadTable() error: %v", err)
	}

	if table.Len() != 4 {
		t.Errorf("Len() = %d, want 4", table.Len())
	}

	s, ok := table.Lookup("100000001")
	if !ok || s == nil || *s != 8.5 {
		t.Errorf("Lookup(100000001) = %v, %v; want 8.5, true", s, ok)
	}

	// IDs are trimmed on load and on lookup.
	s, ok = table.Lookup("100000002")
	if !ok {
		t.Fatal("Lookup(100000002) missing, want present with absent score")
	}
	if s != nil {
		t.Errorf("Lookup(100000002) score = %v, want nil (absent)", *s)
	}

	// Out-of-range scores are retained, not dropped.
	s, ok = table.Lookup("100000003")
	if !ok || s == nil || *s != 12.0 {
		t.Errorf("Lookup(100000003) = %v, %v; want 12, true", s, ok)
	}

	// Unparsable cells surface as NaN so they render as invalid.
	s, ok = table.Lookup("100000004")
	if !ok || s == nil || !math.IsNaN(*s) {
		t.Errorf("Lookup(100000004) = %v, %v; want NaN, true", s, ok)
	}

	if _, ok := table.Lookup("999999999"); ok {
		t.Error("Lookup(999999999) = present, want absent")
	}
}

func TestLoadTableMissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grade_qt.xlsx")
	writeSheet(t, path, [][]interface{}{
		{"Student", "Score"},
		{"100000001", 8.0},
	})

	_, err := LoadTable(path, logger.NewNop())
	if !types.HasCode(err, types.ErrMissingColumns) {
		t.Errorf("LoadTable() error = %v, want MISSING_COLUMNS", err)
	}
}

func TestLoadTableSourceNotFound(t *testing.T) {
	_, err := LoadTable(filepath.Join(t.TempDir(), "missing.xlsx"), logger.NewNop())
	if !types.HasCode(err, types.ErrSourceNotFound) {
		t.Errorf("LoadTable() error = %v, want SOURCE_NOT_FOUND", err)
	}
}

func TestSplitByCategory(t *testing.T) {
	dir := t.TempDir()
	roster := filepath.Join(dir, "roster.xlsx")
	writeSheet(t, roster, [][]interface{}{
		{"StudentID", "Điểm quá trình", "Điểm cuối kỳ"},
		{"100000001", 7.0, 8.5},
		{"100000002", "", 4.0},
	})

	cats, err := SplitByCategory(roster, dir, logger.NewNop())
	if err != nil {
		t.Fatalf("SplitByCategory() error: %v", err)
	}

	want := []Category{CategoryProcess, CategoryFinal}
	if len(cats) != len(want) {
		t.Fatalf("categories = %v, want %v", cats, want)
	}
	for i := range want {
		if cats[i] != want[i] {
			t.Errorf("categories[%d] = %v, want %v", i, cats[i], want[i])
		}
	}

	// The emitted tables round-trip through LoadTable.
	table, err := LoadTable(filepath.Join(dir, CategoryFinal.TableFileName()), logger.NewNop())
	if err != nil {
		t.Fatalf("LoadTable(split output) error: %v", err)
	}
	if s, ok := table.Lookup("100000001"); !ok || s == nil || *s != 8.5 {
		t.Errorf("final table Lookup(100000001) = %v, %v; want 8.5, true", s, ok)
	}
	if s, ok := table.Lookup("100000002"); !ok || s != nil {
		t.Errorf("final table Lookup(100000002) = %v, %v; want absent, true", s, ok)
	}

	// The midterm column was not in the roster, so no table was written.
	if _, err := LoadTable(filepath.Join(dir, CategoryMidterm.TableFileName()), logger.NewNop()); err == nil {
		t.Error("midterm table exists, want none")
	}
}

func TestSplitByCategoryNoIDColumn(t *testing.T) {
	dir := t.TempDir()
	roster := filepath.Join(dir, "roster.xlsx")
	writeSheet(t, roster, [][]interface{}{
		{"Mã SV", "Điểm quá trình"},
		{"100000001", 7.0},
	})

	_, err := SplitByCategory(roster, dir, logger.NewNop())
	if !types.HasCode(err, types.ErrMissingColumns) {
		t.Errorf("SplitByCategory() error = %v, want MISSING_COLUMNS", err)
	}
}

func TestSplitByCategoryNoCategories(t *testing.T) {
	dir := t.TempDir()
	roster := filepath.Join(dir, "roster.xlsx")
	writeSheet(t, roster, [][]interface{}{
		{"StudentID", "Họ tên"},
		{"100000001", "Nguyễn Văn A"},
	})

	_, err := SplitByCategory(roster, dir, logger.NewNop())
	if !types.HasCode(err, types.ErrNoCategoriesFound) {
		t.Errorf("SplitByCategory() error = %v, want NO_CATEGORIES_FOUND", err)
	}
}
