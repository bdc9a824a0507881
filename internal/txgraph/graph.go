// Package txgraph builds the read-only transaction graph the detectors
// operate over. The builder is the graph's only writer; every downstream
// stage treats it as immutable once constructed.
package txgraph

import (
	"sort"

	"github.com/finshield/muleguard/internal/domain"
)

// edgeKey identifies a directed edge by its endpoints.
type edgeKey struct {
	from, to string
}

// Graph is the directed, time-ordered transaction graph. All slices are
// sorted ascending by timestamp (ties broken by original ingestion index)
// once Build returns.
type Graph struct {
	nodes map[string]struct{}
	out   map[string]map[string]struct{}
	in    map[string]map[string]struct{}

	outTx map[string][]domain.Transaction // sender -> transactions, time-ascending
	inTx  map[string][]domain.Transaction // receiver -> transactions, time-ascending
	edge  map[edgeKey][]domain.Transaction

	degree map[string]int
}

// Build ingests a transaction sequence and returns the resulting immutable
// graph. All per-node/per-edge lists are sorted by (timestamp, original
// index) before the graph is returned, so transactions with equal
// timestamps keep their input order.
func Build(txs []domain.Transaction) *Graph {
	g := &Graph{
		nodes:  make(map[string]struct{}),
		out:    make(map[string]map[string]struct{}),
		in:     make(map[string]map[string]struct{}),
		outTx:  make(map[string][]domain.Transaction),
		inTx:   make(map[string][]domain.Transaction),
		edge:   make(map[edgeKey][]domain.Transaction),
		degree: make(map[string]int),
	}

	for i, tx := range txs {
		if !tx.Valid() {
			continue
		}
		tx.Index = i

		g.nodes[tx.Sender] = struct{}{}
		g.nodes[tx.Receiver] = struct{}{}

		if g.out[tx.Sender] == nil {
			g.out[tx.Sender] = make(map[string]struct{})
		}
		g.out[tx.Sender][tx.Receiver] = struct{}{}

		if g.in[tx.Receiver] == nil {
			g.in[tx.Receiver] = make(map[string]struct{})
		}
		g.in[tx.Receiver][tx.Sender] = struct{}{}

		g.outTx[tx.Sender] = append(g.outTx[tx.Sender], tx)
		g.inTx[tx.Receiver] = append(g.inTx[tx.Receiver], tx)

		key := edgeKey{tx.Sender, tx.Receiver}
		g.edge[key] = append(g.edge[key], tx)

		g.degree[tx.Sender]++
		g.degree[tx.Receiver]++
	}

	for _, list := range g.outTx {
		sortByTime(list)
	}
	for _, list := range g.inTx {
		sortByTime(list)
	}
	for _, list := range g.edge {
		sortByTime(list)
	}

	return g
}

func sortByTime(txs []domain.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if txs[i].Timestamp != txs[j].Timestamp {
			return txs[i].Timestamp < txs[j].Timestamp
		}
		return txs[i].Index < txs[j].Index
	})
}

// Nodes returns the graph's node ids in lexicographic order.
func (g *Graph) Nodes() []string {
	nodes := make([]string, 0, len(g.nodes))
	for n := range g.nodes {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)
	return nodes
}

// NodeCount returns the total number of distinct accounts in the graph.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// HasNode reports whether id is a known account.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// OutNeighbors returns node's successors in lexicographic order.
func (g *Graph) OutNeighbors(node string) []string {
	return sortedKeys(g.out[node])
}

// InNeighbors returns node's predecessors in lexicographic order.
func (g *Graph) InNeighbors(node string) []string {
	return sortedKeys(g.in[node])
}

// OutDegree is the number of distinct successors of node.
func (g *Graph) OutDegree(node string) int {
	return len(g.out[node])
}

// InDegree is the number of distinct predecessors of node.
func (g *Graph) InDegree(node string) int {
	return len(g.in[node])
}

// TotalDegree is the count of incident transactions (in + out), not the
// count of distinct neighbors.
func (g *Graph) TotalDegree(node string) int {
	return g.degree[node]
}

// OutTx returns node's outbound transactions, time-ascending.
func (g *Graph) OutTx(node string) []domain.Transaction {
	return g.outTx[node]
}

// InTx returns node's inbound transactions, time-ascending.
func (g *Graph) InTx(node string) []domain.Transaction {
	return g.inTx[node]
}

// EdgeTx returns the transactions on the directed edge from -> to,
// time-ascending. Returns nil if no such edge exists.
func (g *Graph) EdgeTx(from, to string) []domain.Transaction {
	return g.edge[edgeKey{from, to}]
}

// HasEdge reports whether there is at least one transaction from -> to.
func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.out[from][to]
	return ok
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
