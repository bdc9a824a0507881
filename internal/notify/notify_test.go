package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finshield/muleguard/internal/domain"
)

func TestNewWithNoBrokersIsNoOp(t *testing.T) {
	p, err := New(nil, "fraud.reports")
	require.NoError(t, err)
	assert.NoError(t, p.Publish(domain.PipelineRun{RunID: "run-1"}))
	assert.NoError(t, p.Close())
}

func TestTopRiskScorePicksMaximum(t *testing.T) {
	rings := []domain.FraudRing{
		{RingID: "RING_001", RiskScore: 70},
		{RingID: "RING_002", RiskScore: 95.4},
		{RingID: "RING_003", RiskScore: 40},
	}
	assert.Equal(t, 95.4, topRiskScore(rings))
}

func TestTopRiskScoreEmptyIsZero(t *testing.T) {
	assert.Equal(t, 0.0, topRiskScore(nil))
}
