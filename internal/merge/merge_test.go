package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finshield/muleguard/internal/domain"
)

func candidate(pattern domain.PatternType, risk float64, members ...string) domain.RingCandidate {
	return domain.RingCandidate{Pattern: pattern, Members: members, Risk: risk}
}

func TestRingsMergesOverlappingSameLevelCandidates(t *testing.T) {
	candidates := []domain.RingCandidate{
		candidate(domain.PatternSmurfing, 80, "hub", "a", "b", "c", "d"),
		candidate(domain.PatternSmurfing, 85, "hub", "a", "b", "c", "e"),
	}
	merged := Rings(candidates)
	require.Len(t, merged, 1)
	assert.Equal(t, 85.0, merged[0].Risk)
}

func TestRingsKeepsDistinctPatternsSeparate(t *testing.T) {
	candidates := []domain.RingCandidate{
		candidate(domain.PatternCycle, 90, "A", "B", "C"),
		candidate(domain.PatternSmurfing, 80, "A", "B", "C"),
	}
	merged := Rings(candidates)
	assert.Len(t, merged, 2)
}

func TestRingsIsIdempotent(t *testing.T) {
	candidates := []domain.RingCandidate{
		candidate(domain.PatternCycle, 90, "A", "B", "C"),
		candidate(domain.PatternCycle, 70, "D", "E", "F"),
	}
	once := Rings(candidates)
	twice := Rings(once)
	assert.Equal(t, once, twice)
}

func TestRingsBelowThresholdStaySeparate(t *testing.T) {
	candidates := []domain.RingCandidate{
		candidate(domain.PatternCycle, 90, "A", "B", "C"),
		candidate(domain.PatternCycle, 80, "D", "E", "F"),
	}
	merged := Rings(candidates)
	assert.Len(t, merged, 2)
}
