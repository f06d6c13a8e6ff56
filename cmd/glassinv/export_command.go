package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"glassinv/internal/export"
)

const exportExamples = `Usage examples:
  glassinv export inventory.xlsx
  glassinv export inventory.xlsx -c Width -c Height -c Stock38 -c Rack
  glassinv export inventory.xlsx -o output.html -t 'Glass Inventory'
  glassinv export inventory.xlsx --sheet 'Sheet2'

For glass inventory specifically:
  glassinv export inventory.xlsx -c wide height 'RESERV PROJET' STOCKS38 Rack`

func newExportCommand(ctx *commandContext) *cobra.Command {
	var columns []string
	var output string
	var title string
	var sheet string

	cmd := &cobra.Command{
		Use:   "export [workbook] [column...]",
		Short: "Convert a spreadsheet into a styled HTML table",
		Long: "Read one worksheet of an Excel workbook and write a standalone HTML page\n" +
			"with reserved and zero-stock rows highlighted.\n\n" +
			"Names after the workbook are added to the -c column list.",
		Example: exportExamples,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				printExportUsage(cmd.OutOrStdout())
				return nil
			}
			columnsSet := cmd.Flags().Changed("columns")
			if len(args) > 1 && !columnsSet {
				return fmt.Errorf("unexpected arguments %q: pass column names with -c", args[1:])
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}

			opts := export.OptionsFromConfig(cfg)
			opts.Source = args[0]
			opts.Output = strings.TrimSpace(output)
			if columnsSet {
				opts.Columns = append(append([]string(nil), columns...), args[1:]...)
			}
			if cmd.Flags().Changed("title") {
				opts.Title = title
			}
			if cmd.Flags().Changed("sheet") {
				opts.Sheet = sheet
			}

			report, err := export.Run(ctx.runContext(cmd), opts, logger)
			if err != nil {
				return err
			}

			summary := newSummaryWriter(cmd.OutOrStdout())
			summary.line(toneDone, "HTML table", report.Output)
			if len(report.Missing) > 0 {
				summary.line(toneAttention, "Missing columns", strings.Join(report.Missing, ", "))
			}
			if report.FellBack {
				summary.line(toneAttention, "Columns", "none matched; exported all columns")
			}
			summary.text(report.Describe())
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&columns, "columns", "c", nil, "Column to include; repeat or list more names after the workbook")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output HTML file (default <workbook>_table.html)")
	cmd.Flags().StringVarP(&title, "title", "t", "", "HTML page title (default from config)")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Worksheet name (default first sheet)")
	return cmd
}

func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Excel to HTML Table Converter")
	fmt.Fprintln(w, strings.Repeat("=", 40))
	fmt.Fprintln(w)
	fmt.Fprintln(w, exportExamples)
}
