package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"glassinv/internal/config"
	"glassinv/internal/fileutil"
	"glassinv/internal/htmltable"
	"glassinv/internal/inventory"
	"glassinv/internal/logging"
	"glassinv/internal/preflight"
	"glassinv/internal/services"
)

const stage = "reconcile"

// Options configures one reconcile run.
type Options struct {
	HTMLPath string
	JSONPath string
	// OutputPath receives the merged store; empty writes back to JSONPath.
	OutputPath   string
	BackupSuffix string
	Merge        MergeOptions
	// DryRun parses, loads and merges without writing a backup or output.
	DryRun bool
}

// OptionsFromConfig returns Options populated from cfg's default paths and
// reconcile settings.
func OptionsFromConfig(cfg *config.Config) Options {
	r := cfg.Reconcile
	return Options{
		HTMLPath:     cfg.Paths.HTMLSource,
		JSONPath:     cfg.Paths.JSONTarget,
		BackupSuffix: r.BackupSuffix,
		Merge: MergeOptions{
			Columns: Columns{
				Width:       r.WidthColumn,
				Height:      r.HeightColumn,
				Reservation: r.ReservationColumn,
				Stock:       r.StockColumn,
				Rack:        r.RackColumn,
				Color:       r.ColorColumn,
			},
			KnownProjects: append([]string(nil), r.KnownProjects...),
		},
	}
}

// Report summarizes a reconcile run.
type Report struct {
	HTMLPath   string
	JSONPath   string
	OutputPath string
	// BackupPath is empty for dry runs.
	BackupPath string
	Rows       int
	Existing   int
	// LoadFailed is set when the stored inventory could not be read and the
	// merge started from an empty collection.
	LoadFailed bool
	DryRun     bool
	Result     *Result
}

// Run executes the reconcile workflow: preflight, backup, parse, load,
// merge, write. The backup is committed before the store is touched and
// survives any later failure.
func Run(ctx context.Context, opts Options, logger *slog.Logger) (*Report, error) {
	ctx = services.WithStage(ctx, stage)
	logger = logging.WithContext(ctx, logging.NewComponentLogger(logger, "reconcile"))

	output := opts.OutputPath
	if output == "" {
		output = opts.JSONPath
	}
	report := &Report{
		HTMLPath:   opts.HTMLPath,
		JSONPath:   opts.JSONPath,
		OutputPath: output,
		DryRun:     opts.DryRun,
	}

	if err := preflight.Err(stage, preflight.Reconcile(opts.HTMLPath, opts.JSONPath, output)); err != nil {
		return nil, err
	}

	if !opts.DryRun {
		backup, err := fileutil.Backup(opts.JSONPath, opts.BackupSuffix)
		if err != nil {
			return nil, services.Wrap(services.ErrWrite, stage, "backup", opts.JSONPath, err)
		}
		report.BackupPath = backup
		logger.Info("inventory backed up", logging.String("backup", backup))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(opts.HTMLPath)
	if err != nil {
		return nil, services.Wrap(services.ErrParse, stage, "open html", opts.HTMLPath, err)
	}
	table, err := htmltable.Parse(file)
	_ = file.Close()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opts.HTMLPath, err)
	}
	report.Rows = table.Len()
	logger.Info("html table parsed",
		logging.String("source", opts.HTMLPath),
		logging.Int("rows", table.Len()),
		logging.Int("columns", len(table.Columns)),
	)

	existing, err := inventory.Load(opts.JSONPath)
	if err != nil {
		report.LoadFailed = true
		existing = nil
		impact := "merge starts from an empty inventory; existing records are not carried forward"
		if report.BackupPath != "" {
			impact += "; original kept at " + report.BackupPath
		}
		logging.WarnWithContext(logger, "existing inventory unreadable; starting fresh", "inventory_load_failed",
			logging.String("target", opts.JSONPath),
			logging.Error(err),
			logging.String(logging.FieldImpact, impact),
			logging.String(logging.FieldErrorHint, "fix or restore the JSON file and rerun"),
		)
	}
	report.Existing = len(existing)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := Merge(existing, table, opts.Merge, logger)
	if err != nil {
		return nil, err
	}
	report.Result = result

	if !opts.DryRun {
		if err := inventory.Save(output, result.Records); err != nil {
			attrs := []logging.Attr{logging.Error(err)}
			if report.BackupPath != "" {
				attrs = append(attrs, logging.String(logging.FieldErrorHint, "restore from "+report.BackupPath))
			}
			logging.ErrorWithContext(logger, "inventory write failed", "inventory_write_failed", attrs...)
			return report, err
		}
	}

	logger.Info("inventory reconciled",
		logging.String("output", output),
		logging.Int("total", len(result.Records)),
		logging.Int("created", result.Created),
		logging.Int("updated", result.Updated),
		logging.Int("annotated", result.Annotated),
		logging.Int("unchanged", result.Unchanged),
		logging.Int("skipped_rows", result.Skipped),
		logging.Int("carried_forward", result.CarriedForward),
		logging.Bool("dry_run", opts.DryRun),
	)
	return report, nil
}
