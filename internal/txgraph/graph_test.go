package txgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finshield/muleguard/internal/domain"
)

func tx(id, sender, receiver string, amount float64, ts int64) domain.Transaction {
	return domain.Transaction{ID: id, Sender: sender, Receiver: receiver, Amount: amount, Timestamp: ts}
}

func TestBuildEmptyGraph(t *testing.T) {
	g := Build(nil)
	assert.Equal(t, 0, g.NodeCount())
	assert.Empty(t, g.Nodes())
	assert.False(t, g.HasNode("A"))
}

func TestBuildSkipsInvalidTransactions(t *testing.T) {
	txs := []domain.Transaction{
		tx("t1", "A", "B", 100, 1),
		tx("t2", "", "C", 50, 2),
		tx("t3", "D", "E", 0, 3),
	}
	g := Build(txs)
	assert.Equal(t, 2, g.NodeCount())
	assert.True(t, g.HasNode("A"))
	assert.True(t, g.HasNode("B"))
	assert.False(t, g.HasNode("C"))
	assert.False(t, g.HasNode("D"))
}

func TestNodesAreLexicographicallySorted(t *testing.T) {
	txs := []domain.Transaction{
		tx("t1", "zebra", "apple", 10, 1),
		tx("t2", "mango", "banana", 20, 2),
	}
	g := Build(txs)
	assert.Equal(t, []string{"apple", "banana", "mango", "zebra"}, g.Nodes())
}

func TestEdgeTxSortedByTimeThenIndex(t *testing.T) {
	txs := []domain.Transaction{
		tx("t1", "A", "B", 10, 100),
		tx("t2", "A", "B", 20, 50),
		tx("t3", "A", "B", 30, 50),
	}
	g := Build(txs)
	got := g.EdgeTx("A", "B")
	require.Len(t, got, 3)
	assert.Equal(t, "t2", got[0].ID)
	assert.Equal(t, "t3", got[1].ID)
	assert.Equal(t, "t1", got[2].ID)
}

func TestDegreeCounters(t *testing.T) {
	txs := []domain.Transaction{
		tx("t1", "A", "B", 10, 1),
		tx("t2", "A", "C", 10, 2),
		tx("t3", "B", "A", 10, 3),
	}
	g := Build(txs)
	assert.Equal(t, 2, g.OutDegree("A"))
	assert.Equal(t, 1, g.InDegree("A"))
	assert.Equal(t, 3, g.TotalDegree("A"))
	assert.True(t, g.HasEdge("A", "B"))
	assert.False(t, g.HasEdge("B", "C"))
}

func TestExportAggregatesParallelEdges(t *testing.T) {
	txs := []domain.Transaction{
		tx("t1", "A", "B", 10, 1),
		tx("t2", "A", "B", 15, 2),
	}
	export := Build(txs).Export()
	require.Len(t, export.Edges, 1)
	assert.Equal(t, 2, export.Edges[0].TxCount)
	assert.InDelta(t, 25, export.Edges[0].TotalAmount, 0.001)
	require.Len(t, export.Nodes, 2)
}
