package commands

import (
	"context"

	"github.com/spf13/cobra"

	"salescli/internal/operations"
	"salescli/internal/report"
)

// reportCmd is the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "answer the sales questions from clean_data.csv",
	Long: `Read the cleaned checkpoint, derive the calendar and location columns,
print the answers and rewrite the chart workbook and summary CSVs. Run
clean (or run) first.`,
	Example: `  $ salescli report --peak-hours 3`,
	Args:    cobra.NoArgs,
	RunE:    runReport,
}

func init() {
	addReportFlags(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	return execute(cmd, operations.CommandReport, func(ctx context.Context, cmd *cobra.Command, p *operations.Pipeline) error {
		r, err := p.Report(ctx)
		if err != nil {
			return err
		}
		return report.Print(cmd.OutOrStdout(), r)
	})
}
