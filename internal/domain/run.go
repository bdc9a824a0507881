package domain

import "time"

// PipelineRun captures the ambient metadata around one execution of the
// detection pipeline: a stable identifier for audit/replay, timing, and the
// resulting report and graph export. It is never consulted by the core
// algorithms; it only wraps their result for the CLI, HTTP, and audit-store
// layers.
type PipelineRun struct {
	RunID       string
	StartedAt   time.Time
	FinishedAt  time.Time
	InputCount  int
	Report      Report
	GraphExport GraphExport
}
