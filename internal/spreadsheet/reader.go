// Package spreadsheet reads a single worksheet into a tabular.Table.
package spreadsheet

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/xuri/excelize/v2"

	"glassinv/internal/services"
	"glassinv/internal/tabular"
)

const stage = "export"

// Read opens the workbook at path and returns the named sheet, or the first
// sheet when sheet is empty. The first row is the header; blank header cells
// become "Unnamed: N" (0-based), fully blank rows are dropped, and every cell
// is typed with tabular.Parse.
func Read(path, sheet string) (*tabular.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, stage, "open workbook", path, err)
		}
		return nil, services.Wrap(services.ErrParse, stage, "open workbook", path, err)
	}
	defer f.Close()

	name, err := resolveSheet(f, sheet)
	if err != nil {
		return nil, err
	}
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, services.Wrap(services.ErrParse, stage, "read rows", fmt.Sprintf("sheet %q", name), err)
	}
	return buildTable(rows), nil
}

func resolveSheet(f *excelize.File, requested string) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", services.Wrap(services.ErrParse, stage, "resolve sheet", "workbook has no sheets", nil)
	}
	requested = strings.TrimSpace(requested)
	if requested == "" {
		return sheets[0], nil
	}
	for _, name := range sheets {
		if strings.EqualFold(name, requested) {
			return name, nil
		}
	}
	return "", services.Wrap(services.ErrNotFound, stage, "resolve sheet",
		fmt.Sprintf("sheet %q not found (available: %s)", requested, strings.Join(sheets, ", ")), nil)
}

func buildTable(rows [][]string) *tabular.Table {
	if len(rows) == 0 {
		return tabular.NewTable(nil, nil)
	}
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}

	header := rows[0]
	columns := make([]string, width)
	for i := range columns {
		var name string
		if i < len(header) {
			name = strings.TrimSpace(header[i])
		}
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		columns[i] = name
	}

	table := tabular.NewTable(columns, nil)
	for _, raw := range rows[1:] {
		if isBlank(raw) {
			continue
		}
		cells := make([]tabular.Value, len(raw))
		for i, text := range raw {
			cells[i] = tabular.Parse(text)
		}
		table.Append(cells)
	}
	return table
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
