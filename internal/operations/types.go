package operations

// Stage identifiers
const (
	StageIDLoad    = "load"
	StageIDClean   = "clean"
	StageIDAugment = "augment"
	StageIDReport  = "report"
	StageIDExport  = "export"
	StageIDPairs   = "pairs"
)

// Stage names
const (
	StageNameLoad    = "Merge Source Files"
	StageNameClean   = "Clean Rows"
	StageNameAugment = "Derive Columns"
	StageNameReport  = "Answer Questions"
	StageNameExport  = "Write Charts and Summaries"
	StageNamePairs   = "Count Product Pairs"
)

// Commands a manifest can be produced by
const (
	CommandRun    = "run"
	CommandMerge  = "merge"
	CommandClean  = "clean"
	CommandReport = "report"
	CommandPairs  = "pairs"
)

// Checkpoint names recorded in the manifest
const (
	CheckpointMerged  = "merged"
	CheckpointCleaned = "cleaned"
	CheckpointCharts  = "charts"
)

// Run statuses
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Drop reasons recorded in metrics
const (
	DropReasonIncomplete = "incomplete"
	DropReasonHeader     = "header"
)
