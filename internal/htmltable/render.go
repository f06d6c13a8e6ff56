package htmltable

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"glassinv/internal/tabular"
)

//go:embed table.html.tmpl
var pageTemplate string

var page = template.Must(template.New("table").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(pageTemplate))

// GeneratedLayout formats the timestamp shown in the page's info block.
const GeneratedLayout = "2006-01-02 15:04:05"

// RenderOptions describes the page around the table.
type RenderOptions struct {
	Title     string
	Source    string
	Generated time.Time
	Highlight Highlighter
}

type pageData struct {
	Title     string
	Generated string
	Source    string
	Columns   []string
	Rows      []pageRow
}

type pageRow struct {
	Class string
	Cells []string
}

// Render writes the complete document for table to w. The page is built in
// memory first so w never receives a partial document.
func Render(w io.Writer, table *tabular.Table, opts RenderOptions) error {
	generated := opts.Generated
	if generated.IsZero() {
		generated = time.Now()
	}
	data := pageData{
		Title:     opts.Title,
		Generated: generated.Format(GeneratedLayout),
		Source:    opts.Source,
		Columns:   table.Columns,
		Rows:      make([]pageRow, 0, table.Len()),
	}
	for _, row := range table.Rows {
		cells := row.Cells()
		text := make([]string, len(cells))
		for i, cell := range cells {
			text[i] = cell.String()
		}
		data.Rows = append(data.Rows, pageRow{
			Class: opts.Highlight.Classify(table.Columns, cells),
			Cells: text,
		})
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, data); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
