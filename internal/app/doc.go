// Package app assembles the components one salescli command needs.
//
// NewApplication loads configuration (defaults, YAML file, SALES_*
// environment, then command-line overrides), initializes the global slog
// logger, resolves and creates the output paths, and starts OpenTelemetry.
// Each invocation gets a run ID that doubles as the log trace ID and the
// manifest ID.
//
// Stop must be called once the command finishes: it writes the Prometheus
// metrics file and closes the trace and log files. The app never calls
// os.Exit; main decides the exit code.
package app
