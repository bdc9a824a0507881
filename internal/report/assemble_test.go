package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finshield/muleguard/internal/domain"
)

func TestAssembleEmptyGraphYieldsZeroedSummaryAndEmptyLists(t *testing.T) {
	states := map[string]*domain.AccountScoreState{}
	doc := Assemble(0, nil, states, 0)

	assert.Equal(t, 0, doc.Summary.TotalAccountsAnalyzed)
	assert.Equal(t, 0, doc.Summary.SuspiciousAccountsFlagged)
	assert.Equal(t, 0, doc.Summary.FraudRingsDetected)
	assert.NotNil(t, doc.FraudRings)
	assert.NotNil(t, doc.SuspiciousAccounts)
	assert.Empty(t, doc.FraudRings)
	assert.Empty(t, doc.SuspiciousAccounts)
}

func TestAssembleAssignsDenseRingIDsInPatternPriorityOrder(t *testing.T) {
	rings := []domain.RingCandidate{
		{Pattern: domain.PatternLayeredShell, Members: []string{"X", "Y"}, Risk: 80},
		{Pattern: domain.PatternCycle, Members: []string{"A", "B", "C"}, Risk: 90},
	}
	states := map[string]*domain.AccountScoreState{
		"A": {Score: 70, Tags: map[string]struct{}{"cycle": {}}},
		"B": {Score: 65, Tags: map[string]struct{}{"cycle": {}}},
		"C": {Score: 61, Tags: map[string]struct{}{"cycle": {}}},
		"X": {Score: 60, Tags: map[string]struct{}{"cash_out": {}}},
		"Y": {Score: 60, Tags: map[string]struct{}{"source_funds": {}}},
	}
	doc := Assemble(5, rings, states, 250*time.Millisecond)

	require.Len(t, doc.FraudRings, 2)
	assert.Equal(t, "RING_001", doc.FraudRings[0].RingID)
	assert.Equal(t, domain.PatternCycle, doc.FraudRings[0].PatternType)
	assert.Equal(t, "RING_002", doc.FraudRings[1].RingID)
	assert.Equal(t, domain.PatternLayeredShell, doc.FraudRings[1].PatternType)
	assert.InDelta(t, 0.25, doc.Summary.ProcessingTimeSeconds, 0.001)
}

func TestAssembleFiltersAccountsBelowSuspicionThreshold(t *testing.T) {
	rings := []domain.RingCandidate{
		{Pattern: domain.PatternCycle, Members: []string{"A"}, Risk: 90},
	}
	states := map[string]*domain.AccountScoreState{
		"A": {Score: 59.9, Tags: map[string]struct{}{"cycle": {}}},
		"B": {Score: 0, Tags: map[string]struct{}{}},
	}
	doc := Assemble(2, rings, states, 0)
	assert.Empty(t, doc.SuspiciousAccounts)
}

func TestAssembleSortsSuspiciousAccountsByScoreDescending(t *testing.T) {
	rings := []domain.RingCandidate{
		{Pattern: domain.PatternCycle, Members: []string{"A", "B"}, Risk: 90},
	}
	states := map[string]*domain.AccountScoreState{
		"A": {Score: 65, Tags: map[string]struct{}{"cycle": {}}},
		"B": {Score: 90, Tags: map[string]struct{}{"cycle": {}}},
	}
	doc := Assemble(2, rings, states, 0)
	require.Len(t, doc.SuspiciousAccounts, 2)
	assert.Equal(t, "B", doc.SuspiciousAccounts[0].AccountID)
	assert.Equal(t, "A", doc.SuspiciousAccounts[1].AccountID)
}
