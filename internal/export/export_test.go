package export_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"glassinv/internal/export"
	"glassinv/internal/htmltable"
	"glassinv/internal/services"
	"glassinv/internal/testsupport"
)

func writeInventoryWorkbook(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inventory.xlsx")
	testsupport.WriteWorkbook(t, path, "", [][]any{
		{"ID", "wide", "height", "RESERV PROJET", "STOCKS38", "Rack", "Notes"},
		{1, 36, 48, "Queen Tower", 8, "A3", "north"},
		{2, 24, 30, nil, 0, nil, "south"},
		{3, 12, 10, nil, 4, "B1", "spare"},
	})
	return path
}

func TestDefaultOutputPath(t *testing.T) {
	if got := export.DefaultOutputPath("/data/inventory.xlsx"); got != "/data/inventory_table.html" {
		t.Fatalf("DefaultOutputPath = %q", got)
	}
}

func TestRunExportsSelectedColumns(t *testing.T) {
	source := writeInventoryWorkbook(t)
	cfg := testsupport.NewConfig(t)
	opts := export.OptionsFromConfig(cfg)
	opts.Source = source
	opts.Columns = []string{"WIDE", "height", "reserv projet", "Stocks38", "rack", "Missing", "wide"}
	opts.Now = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	report, err := export.Run(context.Background(), opts, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Output != filepath.Join(filepath.Dir(source), "inventory_table.html") {
		t.Fatalf("output = %q", report.Output)
	}
	if !reflect.DeepEqual(report.Columns, []string{"wide", "height", "RESERV PROJET", "STOCKS38", "Rack"}) {
		t.Fatalf("columns = %v", report.Columns)
	}
	if !reflect.DeepEqual(report.Missing, []string{"Missing"}) {
		t.Fatalf("missing = %v", report.Missing)
	}
	if report.Rows != 3 {
		t.Fatalf("rows = %d", report.Rows)
	}

	doc := testsupport.ReadFile(t, report.Output)
	for _, want := range []string{
		"<title>Data Table</title>",
		"<strong>Source:</strong> inventory.xlsx<br>",
		"<strong>Generated:</strong> 2024-01-02 03:04:05<br>",
		`<tr class="reserved">`,
		`<tr class="zero-stock">`,
		"Total rows: 3 |",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(doc, "<th>Notes</th>") || strings.Contains(doc, "<th>ID</th>") {
		t.Error("unselected columns must not be exported")
	}

	parsed, err := htmltable.Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("exported page should parse: %v", err)
	}
	if !reflect.DeepEqual(parsed.Columns, report.Columns) || parsed.Len() != 3 {
		t.Fatalf("parsed columns=%v rows=%d", parsed.Columns, parsed.Len())
	}
}

func TestRunFallsBackToAllColumns(t *testing.T) {
	source := writeInventoryWorkbook(t)
	output := filepath.Join(t.TempDir(), "out.html")
	report, err := export.Run(context.Background(), export.Options{
		Source:  source,
		Output:  output,
		Title:   "Glass Inventory",
		Columns: []string{"nope"},
	}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !report.FellBack || len(report.Columns) != 7 {
		t.Fatalf("expected fallback to all columns, got %+v", report)
	}
	if !strings.Contains(report.Describe(), "3 rows with 7 columns") {
		t.Fatalf("unexpected description %q", report.Describe())
	}
}

func TestRunMissingSourceWritesNothing(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out.html")
	_, err := export.Run(context.Background(), export.Options{
		Source: filepath.Join(dir, "absent.xlsx"),
		Output: output,
	}, nil)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Fatalf("output must not exist: %v", err)
	}
}

func TestRunCorruptWorkbookWritesNothing(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "broken.xlsx")
	testsupport.WriteFile(t, source, "definitely not a workbook")
	_, err := export.Run(context.Background(), export.Options{Source: source}, nil)
	if !errors.Is(err, services.ErrParse) {
		t.Fatalf("expected parse failure, got %v", err)
	}
	if _, err := os.Stat(export.DefaultOutputPath(source)); !os.IsNotExist(err) {
		t.Fatalf("output must not exist: %v", err)
	}
}
