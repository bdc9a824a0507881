package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finshield/muleguard/internal/domain"
	"github.com/finshield/muleguard/internal/txgraph"
)

func mustTx(sender, receiver string, amount float64, ts int64) domain.Transaction {
	return domain.Transaction{Sender: sender, Receiver: receiver, Amount: amount, Timestamp: ts}
}

func TestCyclesDetectsPureThreeCycle(t *testing.T) {
	g := txgraph.Build([]domain.Transaction{
		mustTx("A", "B", 100, 1000),
		mustTx("B", "C", 100, 1500),
		mustTx("C", "A", 100, 2000),
	})

	result := Cycles(g)
	require.Len(t, result.Rings, 1)
	ring := result.Rings[0]
	assert.Equal(t, domain.PatternCycle, ring.Pattern)
	assert.ElementsMatch(t, []string{"A", "B", "C"}, ring.Members)
	assert.Greater(t, ring.Risk, 0.0)

	for _, acc := range []string{"A", "B", "C"} {
		tags := result.Evidence.Tags(acc)
		assert.Contains(t, tags, "cycle")
		assert.Contains(t, tags, "cycle_length_3")
	}
}

func TestCyclesEmptyGraphYieldsNoRings(t *testing.T) {
	g := txgraph.Build(nil)
	result := Cycles(g)
	assert.Empty(t, result.Rings)
}

func TestCyclesDeduplicatesEachCycleOnce(t *testing.T) {
	g := txgraph.Build([]domain.Transaction{
		mustTx("A", "B", 100, 1000),
		mustTx("B", "C", 100, 1500),
		mustTx("C", "A", 100, 2000),
	})

	first := Cycles(g)
	second := Cycles(g)
	require.Len(t, first.Rings, 1)
	require.Len(t, second.Rings, 1)
	assert.Equal(t, first.Rings[0].Signature(), second.Rings[0].Signature())
}

func TestCyclesIgnoresChainsLongerThanFive(t *testing.T) {
	g := txgraph.Build([]domain.Transaction{
		mustTx("A", "B", 100, 1),
		mustTx("B", "C", 100, 2),
		mustTx("C", "D", 100, 3),
		mustTx("D", "E", 100, 4),
		mustTx("E", "F", 100, 5),
		mustTx("F", "A", 100, 6),
	})
	result := Cycles(g)
	assert.Empty(t, result.Rings)
}
