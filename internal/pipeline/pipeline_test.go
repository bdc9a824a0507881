package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finshield/muleguard/internal/domain"
)

func TestRunProducesConsistentReportAndExport(t *testing.T) {
	txs := []domain.Transaction{
		{Sender: "A", Receiver: "B", Amount: 100, Timestamp: 1000},
		{Sender: "B", Receiver: "C", Amount: 100, Timestamp: 1500},
		{Sender: "C", Receiver: "A", Amount: 100, Timestamp: 2000},
	}

	result := Run(txs, nil)
	require.Len(t, result.Report.FraudRings, 1)
	assert.Equal(t, domain.PatternCycle, result.Report.FraudRings[0].PatternType)
	assert.Equal(t, 3, result.Report.Summary.TotalAccountsAnalyzed)
	assert.Len(t, result.GraphExport.Nodes, 3)
}

func TestRunEmitsStagesInOrder(t *testing.T) {
	var seen []StageEvent
	Run(nil, func(e StageEvent) { seen = append(seen, e) })

	assert.Equal(t, []StageEvent{
		StageGraphBuilt,
		StageCyclesDetected,
		StageSmurfingFound,
		StageShellChains,
		StageRingsMerged,
		StageAccountsScored,
		StageReportAssembled,
	}, seen)
}

func TestRunTrackedAssignsRunID(t *testing.T) {
	run := RunTracked(nil, nil)
	assert.NotEmpty(t, run.RunID)
	assert.False(t, run.FinishedAt.Before(run.StartedAt))
}

func TestRunIsDeterministicAcrossInvocations(t *testing.T) {
	txs := []domain.Transaction{
		{Sender: "A", Receiver: "B", Amount: 100, Timestamp: 1000},
		{Sender: "B", Receiver: "C", Amount: 100, Timestamp: 1500},
		{Sender: "C", Receiver: "A", Amount: 100, Timestamp: 2000},
	}
	first := Run(txs, nil)
	second := Run(txs, nil)
	assert.Equal(t, first.Report.FraudRings, second.Report.FraudRings)
	assert.Equal(t, first.Report.SuspiciousAccounts, second.Report.SuspiciousAccounts)
}
