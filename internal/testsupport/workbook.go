package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// WriteWorkbook saves rows into a new workbook at path. The first row is
// normally the header. An empty sheet name keeps excelize's default sheet.
// Nil cells are left unset.
func WriteWorkbook(t testing.TB, path, sheet string, rows [][]any) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	name := f.GetSheetName(0)
	if sheet != "" && sheet != name {
		if err := f.SetSheetName(name, sheet); err != nil {
			t.Fatalf("rename sheet: %v", err)
		}
		name = sheet
	}
	for r, row := range rows {
		for c, value := range row {
			if value == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue(name, cell, value); err != nil {
				t.Fatalf("set %s: %v", cell, err)
			}
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
}
