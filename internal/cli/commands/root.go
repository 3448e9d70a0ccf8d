package commands

import (
	"context"

	"github.com/spf13/cobra"

	"salescli/internal/config"
	"salescli/pkg/contracts"
)

// Persistent flags shared by every command. They override the config file
// and the environment only when given.
var (
	configFile    string
	dataDir       string
	outputDir     string
	logLevel      string
	loaderWorkers int
	strictAddress bool
	tracing       bool
)

// rootCmd is the root command. Without a subcommand it runs the full pipeline.
var rootCmd = &cobra.Command{
	Use:     config.AppName,
	Short:   "Sales data analysis pipeline",
	Version: config.AppVersion,
	Long: `Merge monthly sales extracts, clean and enrich the rows, and answer the
fixed sales questions: best month, best date, best city, best advertising
hours, products most often sold together and best-selling product.

Every step writes its output under the output directory together with a
manifest.json describing the run.`,
	Example: `  # Run the whole pipeline on data/Sales_Data
  $ salescli

  # Run it on another directory and keep outputs elsewhere
  $ salescli run --data-dir ./extracts --output-dir ./out

  # Rebuild the report from the cleaned checkpoint
  $ salescli report

  # Show the 20 product pairs most often sold together
  $ salescli pairs --top 20`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRun,
}

// Execute executes the root command
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext executes the root command with ctx
func ExecuteContext(ctx context.Context) error {
	rootCmd.SetVersionTemplate(formatVersion())
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFile, "config", "c", "", "YAML config file (default: $SALES_CONFIG_FILE, ./config.yaml or ./configs/config.yaml)")
	flags.StringVarP(&dataDir, "data-dir", "d", config.DefaultDataDir, "directory holding the monthly sales CSV files")
	flags.StringVarP(&outputDir, "output-dir", "o", config.DefaultOutputDir, "directory for checkpoints, charts and the run manifest")
	flags.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")
	flags.IntVar(&loaderWorkers, "workers", config.DefaultLoaderWorkers, "number of source files parsed at once")
	flags.BoolVar(&strictAddress, "strict-address", false, "fail on addresses that do not match 'street, city, ST zip'")
	flags.BoolVar(&tracing, "trace", false, "write one span per stage to the trace file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(pairsCmd)
}

// formatVersion formats the version output
func formatVersion() string {
	return contracts.GetFullVersionString(config.AppName) + "\n"
}
