package commands

import (
	"context"

	"github.com/spf13/cobra"

	"salescli/internal/config"
	"salescli/internal/operations"
	"salescli/internal/report"
)

// Report flags, shared by run and report
var (
	topPairs  int
	peakHours int
	salesDate string
)

// runCmd is the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "run the full pipeline and print the report",
	Long: `Run every stage: merge the source files, clean the rows, derive the
calendar and location columns, answer the sales questions and write the
chart workbook and summary CSVs.

Outputs under the output directory:
  • all_data.csv        merged checkpoint
  • clean_data.csv      cleaned checkpoint
  • sales_report.xlsx   one sheet and chart per question
  • summaries/          one CSV per aggregate
  • manifest.json       stages, row counts and checkpoint digests`,
	Example: `  $ salescli run
  $ salescli run --data-dir ./extracts --top 5 --sales-date 2019-12-25`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	addReportFlags(runCmd)
}

func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&topPairs, "top", config.DefaultTopPairs, "number of product pairs to show (0 for all)")
	cmd.Flags().IntVar(&peakHours, "peak-hours", config.DefaultPeakHours, "number of busiest hours to report")
	cmd.Flags().StringVar(&salesDate, "sales-date", config.DefaultSalesDate, "date (YYYY-MM-DD) to total sales for")
}

func runRun(cmd *cobra.Command, args []string) error {
	return execute(cmd, operations.CommandRun, func(ctx context.Context, cmd *cobra.Command, p *operations.Pipeline) error {
		r, err := p.Run(ctx)
		if err != nil {
			return err
		}
		return report.Print(cmd.OutOrStdout(), r)
	})
}
