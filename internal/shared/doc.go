// Package shared holds helpers used across salescli packages that don't belong
// to any single pipeline stage.
//
// The testutil subpackage provides:
//
//	- a buffered slog handler for asserting on log output
//	- sales CSV fixture writers, including the three-row Dallas extract
//
// Example usage:
//
//	func TestLoad(t *testing.T) {
//	    dir := t.TempDir()
//	    testutil.WriteSalesCSV(t, dir, "Sales_April_2019.csv", testutil.DallasScenario()...)
//	    logger, handler := testutil.NewTestLogger(t)
//	    // ...
//	}
package shared
