package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finshield/muleguard/internal/domain"
	"github.com/finshield/muleguard/internal/txgraph"
)

func TestShellChainsDetectsFourHopChain(t *testing.T) {
	g := txgraph.Build([]domain.Transaction{
		mustTx("source", "shell1", 1000, 1000),
		mustTx("shell1", "shell2", 990, 2000),
		mustTx("shell2", "precashout", 985, 3000),
		mustTx("precashout", "sink", 980, 4000),
	})

	result := ShellChains(g)
	require.Len(t, result.Rings, 1)
	ring := result.Rings[0]
	assert.Equal(t, domain.PatternLayeredShell, ring.Pattern)
	assert.Equal(t, []string{"source", "shell1", "shell2", "precashout", "sink"}, ring.Members)

	assert.Contains(t, result.Evidence.Tags("source"), "source_funds")
	assert.Contains(t, result.Evidence.Tags("shell1"), "low_activity_shell")
	assert.Contains(t, result.Evidence.Tags("shell2"), "low_activity_shell")
	assert.Contains(t, result.Evidence.Tags("precashout"), "pre_cashout")
	assert.Contains(t, result.Evidence.Tags("sink"), "cash_out")
}

func TestShellChainsRejectsHighDegreeIntermediate(t *testing.T) {
	g := txgraph.Build([]domain.Transaction{
		mustTx("source", "hub", 1000, 1000),
		mustTx("hub", "sink1", 500, 2000),
		mustTx("hub", "sink2", 500, 2100),
		mustTx("hub", "sink3", 500, 2200),
		mustTx("hub", "final", 500, 2300),
	})

	result := ShellChains(g)
	for _, ring := range result.Rings {
		for _, m := range ring.Members {
			assert.NotEqual(t, "hub", m, "high fan-out node should never anchor a shell chain")
		}
	}
}

func TestShellChainsRejectsTooFewEdges(t *testing.T) {
	g := txgraph.Build([]domain.Transaction{
		mustTx("A", "B", 1000, 1000),
		mustTx("B", "C", 990, 2000),
	})
	result := ShellChains(g)
	assert.Empty(t, result.Rings)
}
