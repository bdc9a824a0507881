// Package auditstore persists completed pipeline runs to the optional graph
// backend for analyst replay. It never influences detection: a store with no
// configured URI degrades to a no-op.
package auditstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/finshield/muleguard/internal/domain"
	"github.com/finshield/muleguard/internal/graph"
)

// Store records completed runs. A nil Client makes every method a no-op so
// callers never need to branch on whether persistence is configured.
type Store struct {
	client graph.Client
	logger *slog.Logger
}

// New constructs a Store. client may be nil, in which case Record and Probe
// both succeed trivially.
func New(client graph.Client, logger *slog.Logger) *Store {
	return &Store{client: client, logger: logger}
}

// Probe reports the backing graph client's connectivity, used by the health
// endpoint. A nil client is always healthy.
func (s *Store) Probe(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.VerifyConnectivity(ctx)
}

// Record persists one completed run: the run node with its summary, and one
// node per fraud ring (member accounts stored as a property) linked from the
// run by a DETECTED edge. Suspicious-account records and the graph export
// are not persisted. Failures are
// returned to the caller as plain errors; callers in the ambient layer are
// expected to log and continue rather than fail the response, since a
// completed report is always returned to its requester regardless of
// best-effort persistence.
func (s *Store) Record(ctx context.Context, run domain.PipelineRun) error {
	if s.client == nil {
		return nil
	}

	runParams := map[string]any{
		"runId":             run.RunID,
		"startedAt":         run.StartedAt.Unix(),
		"finishedAt":        run.FinishedAt.Unix(),
		"inputCount":        run.InputCount,
		"totalAccounts":     run.Report.Summary.TotalAccountsAnalyzed,
		"suspiciousFlagged": run.Report.Summary.SuspiciousAccountsFlagged,
		"ringsDetected":     run.Report.Summary.FraudRingsDetected,
		"processingSeconds": run.Report.Summary.ProcessingTimeSeconds,
	}
	const runCypher = `
MERGE (r:AuditRun {run_id: $runId})
SET r.started_at = $startedAt,
    r.finished_at = $finishedAt,
    r.input_count = $inputCount,
    r.total_accounts = $totalAccounts,
    r.suspicious_flagged = $suspiciousFlagged,
    r.rings_detected = $ringsDetected,
    r.processing_seconds = $processingSeconds`
	if _, err := s.client.ExecuteWrite(ctx, runCypher, runParams); err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	const ringCypher = `
MATCH (r:AuditRun {run_id: $runId})
MERGE (g:AuditRing {run_id: $runId, ring_id: $ringId})
SET g.pattern_type = $patternType,
    g.risk_score = $riskScore,
    g.member_accounts = $members
MERGE (r)-[:DETECTED]->(g)`
	for _, ring := range run.Report.FraudRings {
		params := map[string]any{
			"runId":       run.RunID,
			"ringId":      ring.RingID,
			"patternType": string(ring.PatternType),
			"riskScore":   ring.RiskScore,
			"members":     ring.MemberAccounts,
		}
		if _, err := s.client.ExecuteWrite(ctx, ringCypher, params); err != nil {
			return fmt.Errorf("record ring %s: %w", ring.RingID, err)
		}
	}

	return nil
}
