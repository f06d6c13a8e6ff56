package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// ReadFile returns the contents of path as a string.
func ReadFile(t testing.TB, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

// WriteHTMLTable writes a minimal document containing one table whose header
// sits in <thead> and whose rows sit in <tbody>. Cells are written verbatim.
func WriteHTMLTable(t testing.TB, path string, columns []string, rows [][]string) {
	t.Helper()

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html><body>\n<table>\n<thead><tr>")
	for _, col := range columns {
		b.WriteString("<th>" + col + "</th>")
	}
	b.WriteString("</tr></thead>\n<tbody>\n")
	for _, row := range rows {
		b.WriteString("<tr>")
		for _, cell := range row {
			b.WriteString("<td>" + cell + "</td>")
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</tbody>\n</table>\n</body></html>\n")
	WriteFile(t, path, b.String())
}
