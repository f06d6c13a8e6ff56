package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"glassinv/internal/reconcile"
)

type reconcileSummary struct {
	HTMLPath       string          `json:"html_path"`
	JSONPath       string          `json:"json_path"`
	OutputPath     string          `json:"output_path"`
	BackupPath     string          `json:"backup_path,omitempty"`
	DryRun         bool            `json:"dry_run"`
	LoadFailed     bool            `json:"load_failed"`
	Rows           int             `json:"rows"`
	Existing       int             `json:"existing"`
	Total          int             `json:"total"`
	Created        int             `json:"created"`
	Updated        int             `json:"updated"`
	Annotated      int             `json:"annotated"`
	Unchanged      int             `json:"unchanged"`
	Skipped        int             `json:"skipped"`
	CarriedForward int             `json:"carried_forward"`
	Duplicates     []string        `json:"duplicates,omitempty"`
	Changes        []changeSummary `json:"changes"`
}

type changeSummary struct {
	Action   string  `json:"action"`
	Key      string  `json:"key"`
	ID       string  `json:"id"`
	OldCount float64 `json:"old_count"`
	NewCount float64 `json:"new_count"`
}

func newReconcileCommand(ctx *commandContext) *cobra.Command {
	var output string
	var dryRun bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "reconcile [html] [json]",
		Short: "Merge an exported HTML table into the JSON inventory",
		Long: "Back up the JSON inventory, read the first table of the HTML page, and merge\n" +
			"its rows into the inventory by width, height and color.\n\n" +
			"Paths default to paths.html_source and paths.json_target from the config.",
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}

			opts := reconcile.OptionsFromConfig(cfg)
			if len(args) > 0 {
				opts.HTMLPath = args[0]
			}
			if len(args) > 1 {
				opts.JSONPath = args[1]
			}
			opts.OutputPath = strings.TrimSpace(output)
			opts.DryRun = dryRun

			report, err := reconcile.Run(ctx.runContext(cmd), opts, logger)
			if err != nil {
				return err
			}
			summary := summarizeReconcile(report)
			if jsonOutput {
				return writeJSON(cmd, summary)
			}
			printReconcileSummary(cmd, summary)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the merged inventory here instead of over the JSON input")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Merge and report without writing a backup or output")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the run summary as JSON")
	return cmd
}

func summarizeReconcile(report *reconcile.Report) reconcileSummary {
	res := report.Result
	summary := reconcileSummary{
		HTMLPath:       report.HTMLPath,
		JSONPath:       report.JSONPath,
		OutputPath:     report.OutputPath,
		BackupPath:     report.BackupPath,
		DryRun:         report.DryRun,
		LoadFailed:     report.LoadFailed,
		Rows:           report.Rows,
		Existing:       report.Existing,
		Total:          len(res.Records),
		Created:        res.Created,
		Updated:        res.Updated,
		Annotated:      res.Annotated,
		Unchanged:      res.Unchanged,
		Skipped:        res.Skipped,
		CarriedForward: res.CarriedForward,
		Duplicates:     res.Duplicates,
		Changes:        make([]changeSummary, 0, len(res.Changes)),
	}
	for _, change := range res.Changes {
		summary.Changes = append(summary.Changes, changeSummary{
			Action:   string(change.Action),
			Key:      change.Key,
			ID:       change.ID,
			OldCount: change.OldCount,
			NewCount: change.NewCount,
		})
	}
	return summary
}

func printReconcileSummary(cmd *cobra.Command, s reconcileSummary) {
	summary := newSummaryWriter(cmd.OutOrStdout())

	summary.header("Glass Inventory Update")
	summary.line(toneNote, "HTML source", s.HTMLPath)
	summary.line(toneNote, "JSON target", s.JSONPath)
	if s.DryRun {
		summary.line(toneNote, "Backup", "skipped (dry run)")
	} else {
		summary.line(toneDone, "Backup", s.BackupPath)
	}
	if s.LoadFailed {
		summary.line(toneAttention, "Existing records", "unreadable; started from an empty inventory")
	} else {
		summary.count("Existing records", s.Existing, toneNote)
	}
	summary.count("Rows read", s.Rows, toneNote)
	summary.count("New entries", s.Created, toneDone)
	summary.count("Updated entries", s.Updated, toneDone)
	summary.count("Annotated entries", s.Annotated, toneDone)
	summary.count("Unchanged entries", s.Unchanged, toneNote)
	summary.count("Skipped rows", s.Skipped, toneAttention)
	summary.count("Carried forward", s.CarriedForward, toneNote)
	if len(s.Duplicates) > 0 {
		summary.line(toneAttention, "Duplicate keys", strings.Join(s.Duplicates, ", "))
	}
	if s.DryRun {
		summary.line(toneNote, "Output", fmt.Sprintf("dry run; %d records not written", s.Total))
	} else {
		summary.line(toneDone, "Output", fmt.Sprintf("%s (%d records)", s.OutputPath, s.Total))
	}

	if len(s.Changes) == 0 {
		return
	}
	rows := make([][]string, 0, len(s.Changes))
	for _, change := range s.Changes {
		old := formatCount(change.OldCount)
		if change.Action == string(reconcile.ActionCreated) {
			old = "-"
		}
		rows = append(rows, []string{change.Action, change.ID, old, formatCount(change.NewCount)})
	}
	summary.text("", renderTable(
		[]string{"Action", "ID", "Old", "New"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight},
	))
}

func formatCount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
