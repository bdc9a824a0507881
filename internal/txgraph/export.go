package txgraph

import (
	"fmt"
	"math"
	"sort"

	"github.com/finshield/muleguard/internal/domain"
)

// Export produces the auxiliary, visualization-only projection of the
// graph: one node per account and one aggregated edge per (sender,
// receiver) pair carrying transaction count and total amount. It never
// participates in detection.
func (g *Graph) Export() domain.GraphExport {
	nodes := make([]domain.GraphExportNode, 0, len(g.nodes))
	for _, id := range g.Nodes() {
		nodes = append(nodes, domain.GraphExportNode{ID: id})
	}

	edges := make([]domain.GraphExportEdge, 0, len(g.edge))
	for key, txs := range g.edge {
		total := 0.0
		for _, tx := range txs {
			total += tx.Amount
		}
		edges = append(edges, domain.GraphExportEdge{
			ID:          fmt.Sprintf("%s__%s", key.from, key.to),
			Source:      key.from,
			Target:      key.to,
			TxCount:     len(txs),
			TotalAmount: round2(total),
		})
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })

	return domain.GraphExport{Nodes: nodes, Edges: edges}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
