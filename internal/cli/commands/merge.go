package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"salescli/internal/operations"
)

// mergeCmd is the merge command
var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "merge the source files into all_data.csv",
	Long: `Read every file in the data directory, in file-name order, check its
header and write all rows unchanged to the merged checkpoint.`,
	Example: `  $ salescli merge --data-dir ./extracts`,
	Args:    cobra.NoArgs,
	RunE:    runMerge,
}

func runMerge(cmd *cobra.Command, args []string) error {
	return execute(cmd, operations.CommandMerge, func(ctx context.Context, cmd *cobra.Command, p *operations.Pipeline) error {
		raw, err := p.Merge(ctx)
		if err != nil {
			return err
		}
		info, _ := p.Runner().Manifest().Checkpoint(operations.CheckpointMerged)
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Merged %d rows from %d files into %s\n", raw.Len(), len(raw.Files), info.Path)
		return err
	})
}
