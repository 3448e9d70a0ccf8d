package commands

import (
	"context"

	"github.com/spf13/cobra"

	"salescli/internal/config"
	"salescli/internal/operations"
	"salescli/internal/report"
)

// pairsCmd is the pairs command
var pairsCmd = &cobra.Command{
	Use:   "pairs",
	Short: "list the product pairs most often sold together",
	Long: `Read the cleaned checkpoint, group lines by order ID and count every
unordered pair of distinct products within an order. Pairs are printed as
"A, B  count", most frequent first.`,
	Example: `  $ salescli pairs
  $ salescli pairs --top 0`,
	Args: cobra.NoArgs,
	RunE: runPairs,
}

func init() {
	pairsCmd.Flags().IntVar(&topPairs, "top", config.DefaultTopPairs, "number of pairs to show (0 for all)")
}

func runPairs(cmd *cobra.Command, args []string) error {
	return execute(cmd, operations.CommandPairs, func(ctx context.Context, cmd *cobra.Command, p *operations.Pipeline) error {
		pairs, err := p.Pairs(ctx, p.Config().Pipeline.TopPairs)
		if err != nil {
			return err
		}
		return report.PrintPairs(cmd.OutOrStdout(), pairs)
	})
}
