// Package pipeline sequences the read-only detection stages into a single
// call, timing the run and producing both the canonical report and the
// auxiliary graph export projection. It never alters detector behavior; it
// only wires and measures the stages defined in internal/txgraph,
// internal/detect, internal/merge, internal/score, and internal/report.
package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/finshield/muleguard/internal/detect"
	"github.com/finshield/muleguard/internal/domain"
	"github.com/finshield/muleguard/internal/merge"
	"github.com/finshield/muleguard/internal/report"
	"github.com/finshield/muleguard/internal/score"
	"github.com/finshield/muleguard/internal/txgraph"
)

// StageEvent names one completed pipeline stage, used only by the ambient
// progress notifier (see internal/server); the core stages never read it.
type StageEvent string

const (
	StageGraphBuilt      StageEvent = "graph_built"
	StageCyclesDetected  StageEvent = "cycles_detected"
	StageSmurfingFound   StageEvent = "smurfing_detected"
	StageShellChains     StageEvent = "shell_chains_detected"
	StageRingsMerged     StageEvent = "rings_merged"
	StageAccountsScored  StageEvent = "scored"
	StageReportAssembled StageEvent = "assembled"
)

// Result bundles the two documents a completed run produces.
type Result struct {
	Report      domain.Report
	GraphExport domain.GraphExport
}

// Run executes the full detection pipeline over txs, invoking onStage (if
// non-nil) after each stage completes so a caller can narrate progress.
// onStage is called synchronously, so the next stage starts only after it
// returns; callers that need asynchronous delivery should make onStage
// non-blocking themselves.
func Run(txs []domain.Transaction, onStage func(StageEvent)) Result {
	start := time.Now()
	notify := func(e StageEvent) {
		if onStage != nil {
			onStage(e)
		}
	}

	g := txgraph.Build(txs)
	notify(StageGraphBuilt)

	cycles := detect.Cycles(g)
	notify(StageCyclesDetected)

	smurfing := detect.Smurfing(g)
	notify(StageSmurfingFound)

	shells := detect.ShellChains(g)
	notify(StageShellChains)

	evidence := domain.NewEvidenceMap()
	evidence.Merge(cycles.Evidence)
	evidence.Merge(smurfing.Evidence)
	evidence.Merge(shells.Evidence)

	var candidates []domain.RingCandidate
	candidates = append(candidates, cycles.Rings...)
	candidates = append(candidates, smurfing.Rings...)
	candidates = append(candidates, shells.Rings...)

	merged := merge.Rings(candidates)
	notify(StageRingsMerged)

	states := score.Accounts(g.Nodes(), merged, evidence)
	notify(StageAccountsScored)

	elapsed := time.Since(start)
	doc := report.Assemble(g.NodeCount(), merged, states, elapsed)
	notify(StageReportAssembled)

	return Result{Report: doc, GraphExport: g.Export()}
}

// RunTracked wraps Run, additionally assigning a run identifier and start/
// finish timestamps for the ambient CLI, HTTP, and audit-store layers. The
// core pipeline itself never sees or depends on the identifier.
func RunTracked(txs []domain.Transaction, onStage func(StageEvent)) domain.PipelineRun {
	startedAt := time.Now()
	result := Run(txs, onStage)
	return domain.PipelineRun{
		RunID:       uuid.NewString(),
		StartedAt:   startedAt,
		FinishedAt:  time.Now(),
		InputCount:  len(txs),
		Report:      result.Report,
		GraphExport: result.GraphExport,
	}
}
