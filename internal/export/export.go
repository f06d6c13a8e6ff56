// Package export turns one worksheet of a workbook into a styled standalone
// HTML table.
package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"glassinv/internal/config"
	"glassinv/internal/fileutil"
	"glassinv/internal/htmltable"
	"glassinv/internal/logging"
	"glassinv/internal/preflight"
	"glassinv/internal/services"
	"glassinv/internal/spreadsheet"
)

const stage = "export"

// Options configures one export.
type Options struct {
	Source string
	// Output defaults to <source-dir>/<source-stem>_table.html.
	Output  string
	Title   string
	Sheet   string
	Columns []string
	// Highlight decides the reserved and zero-stock row classes.
	Highlight htmltable.Highlighter
	// Now stamps the page; zero uses the current time.
	Now time.Time
}

// OptionsFromConfig returns Options seeded with cfg's export settings.
func OptionsFromConfig(cfg *config.Config) Options {
	e := cfg.Export
	return Options{
		Title:   e.Title,
		Sheet:   e.Sheet,
		Columns: append([]string(nil), e.Columns...),
		Highlight: htmltable.Highlighter{
			ReservedKeywords: append([]string(nil), e.ReservedKeywords...),
			StockColumns:     append([]string(nil), e.StockColumns...),
		},
	}
}

// Report summarizes a completed export.
type Report struct {
	Source   string
	Output   string
	Sheet    string
	Rows     int
	Columns  []string
	Missing  []string
	FellBack bool
}

// DefaultOutputPath returns <dir>/<stem>_table.html for source.
func DefaultOutputPath(source string) string {
	dir, name := filepath.Split(source)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return filepath.Join(dir, stem+"_table.html")
}

// Run reads the workbook, selects the requested columns, renders the page, and
// writes it atomically. Nothing is written when any step fails.
func Run(ctx context.Context, opts Options, logger *slog.Logger) (*Report, error) {
	ctx = services.WithStage(ctx, stage)
	logger = logging.WithContext(ctx, logging.NewComponentLogger(logger, "export"))

	output := opts.Output
	if output == "" {
		output = DefaultOutputPath(opts.Source)
	}
	if err := preflight.Err(stage, preflight.Export(opts.Source, output)); err != nil {
		return nil, err
	}

	table, err := spreadsheet.Read(opts.Source, opts.Sheet)
	if err != nil {
		return nil, err
	}
	logger.Info("workbook read",
		logging.String("source", opts.Source),
		logging.Int("rows", table.Len()),
		logging.Int("columns", len(table.Columns)),
	)
	logger.Debug("available columns", logging.Any("columns", table.Columns))

	selection := table.Select(opts.Columns)
	for _, name := range selection.Missing {
		logging.WarnWithContext(logger, "requested column not found", "column_missing",
			logging.String("column", name),
			logging.String("available", strings.Join(table.Columns, ", ")),
			logging.String(logging.FieldImpact, "column omitted from the page"),
			logging.String(logging.FieldErrorHint, "check the spelling against the workbook header row"),
		)
	}
	if selection.FellBack {
		logging.WarnWithContext(logger, "no requested columns matched; exporting all columns", "columns_fallback",
			logging.String(logging.FieldImpact, "page contains every column"),
			logging.String(logging.FieldErrorHint, "pass -c with names from the header row"),
		)
	}
	projected := table.Project(selection.Columns)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = htmltable.Render(&buf, projected, htmltable.RenderOptions{
		Title:     opts.Title,
		Source:    filepath.Base(opts.Source),
		Generated: opts.Now,
		Highlight: opts.Highlight,
	})
	if err != nil {
		return nil, services.Wrap(services.ErrWrite, stage, "render", opts.Source, err)
	}
	if err := fileutil.WriteFileAtomic(output, buf.Bytes(), 0o644); err != nil {
		return nil, services.Wrap(services.ErrWrite, stage, "write", output, err)
	}

	report := &Report{
		Source:   opts.Source,
		Output:   output,
		Sheet:    opts.Sheet,
		Rows:     projected.Len(),
		Columns:  projected.Columns,
		Missing:  selection.Missing,
		FellBack: selection.FellBack,
	}
	logger.Info("html table written",
		logging.String("output", output),
		logging.Int("rows", report.Rows),
		logging.Int("columns", len(report.Columns)),
	)
	return report, nil
}

// Describe renders the one-line completion message printed by the CLI.
func (r *Report) Describe() string {
	return fmt.Sprintf("Processed %d rows with %d columns -> %s", r.Rows, len(r.Columns), r.Output)
}
