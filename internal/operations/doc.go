// Package operations runs the sales pipeline as an ordered chain of typed
// stages.
//
// A Stage[In, Out] takes the previous stage's output type, so the required
// order (clean before augment, augment before report) is checked by the
// compiler rather than at run time. Execute runs one stage through a Runner,
// which records:
//
//   - a StepState in the in-memory RunState
//   - a StageExecution in the RunManifest written to manifest.json
//   - an OpenTelemetry span named pipeline.stage.<id>
//   - stage duration, row and error metrics
//
// Pipeline wires the dataprocessing, report and exporter packages into the
// commands the CLI exposes: Run, Merge, Clean, Report and Pairs. Every
// command saves the manifest, including the BLAKE2b-256 digest of each
// checkpoint it wrote or read, and marks it failed when a stage fails.
//
// Stage failures are returned as *OperationError carrying the stage ID. The
// underlying error stays reachable through errors.Is and errors.As.
package operations
