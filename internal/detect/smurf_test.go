package detect

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finshield/muleguard/internal/domain"
	"github.com/finshield/muleguard/internal/txgraph"
)

// buildFanInFanOut constructs a hub receiving from n senders and forwarding
// to n receivers, all within a tight window, with consistent amounts.
func buildFanInFanOut(n int) []domain.Transaction {
	var txs []domain.Transaction
	baseTs := int64(1_000_000)
	for i := 0; i < n; i++ {
		sender := fmt.Sprintf("sender-%02d", i)
		txs = append(txs, mustTx(sender, "hub", 1000, baseTs+int64(i)*60))
	}
	for i := 0; i < n; i++ {
		receiver := fmt.Sprintf("receiver-%02d", i)
		txs = append(txs, mustTx("hub", receiver, 995, baseTs+int64(i)*60+3600))
	}
	return txs
}

func TestSmurfingDetectsHubFanInFanOut(t *testing.T) {
	g := txgraph.Build(buildFanInFanOut(smurfMinUnique))
	result := Smurfing(g)
	require.Len(t, result.Rings, 1)
	ring := result.Rings[0]
	assert.Equal(t, domain.PatternSmurfing, ring.Pattern)
	assert.Contains(t, ring.Members, "hub")
	assert.Contains(t, result.Evidence.Tags("hub"), "smurfing_fan_in")
	assert.Contains(t, result.Evidence.Tags("hub"), "smurfing_fan_out")
}

func TestSmurfingRequiresMinimumUniqueCounterparties(t *testing.T) {
	g := txgraph.Build(buildFanInFanOut(smurfMinUnique - 1))
	result := Smurfing(g)
	assert.Empty(t, result.Rings)
}

func TestSmurfingRespectsWindowBound(t *testing.T) {
	var txs []domain.Transaction
	for i := 0; i < smurfMinUnique; i++ {
		sender := fmt.Sprintf("sender-%02d", i)
		// Senders spread far beyond the 72h window from each other.
		txs = append(txs, mustTx(sender, "hub", 1000, int64(i)*smurfWindowSeconds*2))
	}
	for i := 0; i < smurfMinUnique; i++ {
		receiver := fmt.Sprintf("receiver-%02d", i)
		txs = append(txs, mustTx("hub", receiver, 995, int64(i)*smurfWindowSeconds*2))
	}
	g := txgraph.Build(txs)
	result := Smurfing(g)
	assert.Empty(t, result.Rings)
}
