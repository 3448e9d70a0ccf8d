// Package dataprocessing turns monthly sales extracts into an analysis-ready
// table and answers grouped questions over it.
//
// # Stages
//
// The package is organized into the stages of the pipeline, each returning a
// new table and never mutating its input:
//
//  1. Loader: reads every matching CSV in a directory and concatenates them
//  2. Cleaner: drops incomplete and header-literal rows, then coerces types
//  3. Augmenter: derives Month, Date, Hour, Minute, City and State
//  4. Aggregator: GroupSum, GroupKeys, SortBy and SalesOnDate
//  5. Co-purchase: CountPairs and GroupedValueCounts over multi-line orders
//
// # Usage
//
//	loader := dataprocessing.NewLoader(logger, dataprocessing.LoaderConfig{Workers: 4})
//	raw, err := loader.Load(ctx, "data/Sales_Data")
//	if err != nil {
//	    return err
//	}
//
//	clean, report, err := dataprocessing.NewCleaner(logger, dataprocessing.CleanerConfig{}).Clean(ctx, raw)
//	augmented, _ := dataprocessing.Augment(ctx, clean)
//	byMonth, err := dataprocessing.GroupSum(augmented, domain.ColumnMonth)
//
// # Data Flow
//
//	CSV files → Loader → RawTable → Cleaner → CleanTable → Augmenter → AugmentedTable → Aggregator
//
// Checkpoint files are written by the caller; this package performs no output.
//
// # Error Handling
//
// Failures are reported with the errors package taxonomy:
//
//	- Malformed files, bad headers and unparseable values are PARSING errors
//	- Values that parse but violate a rule are VALIDATION errors
//	- Row-level failures are *errors.RowError naming file, line, column and value
package dataprocessing
