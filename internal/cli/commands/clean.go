package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"salescli/internal/operations"
)

// cleanCmd is the clean command
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "clean all_data.csv into clean_data.csv",
	Long: `Read the merged checkpoint, drop rows with a missing field and repeated
header rows, convert quantities, prices and dates, and write the cleaned
checkpoint. Run merge first.`,
	Example: `  $ salescli merge && salescli clean`,
	Args:    cobra.NoArgs,
	RunE:    runClean,
}

func runClean(cmd *cobra.Command, args []string) error {
	return execute(cmd, operations.CommandClean, func(ctx context.Context, cmd *cobra.Command, p *operations.Pipeline) error {
		clean, err := p.Clean(ctx)
		if err != nil {
			return err
		}
		info, _ := p.Runner().Manifest().Checkpoint(operations.CheckpointCleaned)
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d cleaned rows to %s\n", clean.Len(), info.Path)
		return err
	})
}
