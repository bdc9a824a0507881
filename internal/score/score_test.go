package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finshield/muleguard/internal/domain"
)

func TestAccountsScoresOnlyRingMembers(t *testing.T) {
	rings := []domain.RingCandidate{
		{Pattern: domain.PatternCycle, Members: []string{"A", "B", "C"}, Risk: 90},
	}
	evidence := domain.NewEvidenceMap()
	evidence.Add("A", "cycle")
	evidence.Add("A", "cycle_length_3")
	evidence.Add("B", "cycle")
	evidence.Add("C", "cycle")

	states := Accounts([]string{"A", "B", "C", "D"}, rings, evidence)

	require.Contains(t, states, "D")
	assert.Equal(t, 0.0, states["D"].Score)
	assert.Empty(t, states["D"].Tags)

	assert.Greater(t, states["A"].Score, 0.0)
}

func TestAccountsPicksHighestRiskRingWhenMultipleMemberships(t *testing.T) {
	rings := []domain.RingCandidate{
		{Pattern: domain.PatternLayeredShell, Members: []string{"A", "B"}, Risk: 60},
		{Pattern: domain.PatternCycle, Members: []string{"A", "C"}, Risk: 95},
	}
	evidence := domain.NewEvidenceMap()
	evidence.Add("A", "cash_out")

	states := Accounts([]string{"A", "B", "C"}, rings, evidence)
	assert.Greater(t, states["A"].Score, states["B"].Score)
}

func TestBestRingTieBreaksBySignature(t *testing.T) {
	a := domain.RingCandidate{Pattern: domain.PatternCycle, Members: []string{"Z", "Y"}, Risk: 90}
	b := domain.RingCandidate{Pattern: domain.PatternCycle, Members: []string{"A", "B"}, Risk: 90}
	best := bestRing([]domain.RingCandidate{a, b})
	assert.Equal(t, b.Signature(), best.Signature())
}
