package detect

import (
	"strconv"
	"strings"

	"github.com/finshield/muleguard/internal/domain"
	"github.com/finshield/muleguard/internal/mathutil"
	"github.com/finshield/muleguard/internal/txgraph"
)

const (
	minCycleLen = 3
	maxCycleLen = 5
)

var cycleBaseRisk = map[int]float64{3: 89.3, 4: 87.7, 5: 85.0}

// Cycles enumerates directed simple cycles of length 3 through 5, each
// exactly once, and scores them by length and temporal tightness.
func Cycles(g *txgraph.Graph) domain.DetectionResult {
	nodes := g.Nodes()
	rank := make(map[string]int, len(nodes))
	for i, n := range nodes {
		rank[n] = i
	}

	seen := make(map[string]struct{})
	var rings []domain.RingCandidate
	evidence := domain.NewEvidenceMap()

	for _, start := range nodes {
		visited := map[string]bool{start: true}
		path := []string{start}
		walkCycles(g, rank, start, rank[start], path, visited, seen, &rings, evidence)
	}

	return domain.DetectionResult{Rings: rings, Evidence: evidence}
}

func walkCycles(
	g *txgraph.Graph,
	rank map[string]int,
	start string,
	startRank int,
	path []string,
	visited map[string]bool,
	seen map[string]struct{},
	rings *[]domain.RingCandidate,
	evidence domain.EvidenceMap,
) {
	u := path[len(path)-1]
	for _, v := range g.OutNeighbors(u) {
		if rank[v] < startRank {
			continue
		}
		if v == start {
			if len(path) >= minCycleLen {
				emitCycle(g, path, seen, rings, evidence)
			}
			continue
		}
		if visited[v] {
			continue
		}
		if len(path) >= maxCycleLen {
			continue
		}
		visited[v] = true
		path = append(path, v)
		walkCycles(g, rank, start, startRank, path, visited, seen, rings, evidence)
		path = path[:len(path)-1]
		visited[v] = false
	}
}

func emitCycle(
	g *txgraph.Graph,
	path []string,
	seen map[string]struct{},
	rings *[]domain.RingCandidate,
	evidence domain.EvidenceMap,
) {
	// path[0] is always the cycle's lexicographically smallest member: the
	// rank pruning in walkCycles forbids visiting any node ranked below the
	// start, so this is already the canonical rotation and no other start
	// node can rediscover the same cycle.
	sig := strings.Join(path, "|")
	if _, ok := seen[sig]; ok {
		return
	}
	seen[sig] = struct{}{}

	length := len(path)
	minFirst, maxLast, ok := cycleSpanBounds(g, path)
	span := int64(0)
	if ok {
		span = maxLast - minFirst
	}

	risk := cycleBaseRisk[length] + tightnessBonus(span)
	risk = mathutil.Clamp(risk, 0, 100)

	members := append([]string(nil), path...)
	*rings = append(*rings, domain.RingCandidate{
		Pattern: domain.PatternCycle,
		Members: members,
		Risk:    mathutil.Round1(risk),
	})

	lengthTag := "cycle_length_" + strconv.Itoa(length)
	for _, m := range members {
		evidence.Add(m, lengthTag)
		evidence.Add(m, "cycle")
	}
}

// cycleSpanBounds returns the minimum first-tx timestamp and maximum
// last-tx timestamp across every edge of the cycle described by path
// (closing edge path[len-1] -> path[0] included). ok is false only if the
// cycle has no edges with recorded transactions, which cannot happen for a
// cycle discovered by walking real edges but is handled defensively per the
// degrade-gracefully error policy.
func cycleSpanBounds(g *txgraph.Graph, path []string) (minFirst, maxLast int64, ok bool) {
	n := len(path)
	first := true
	for i := 0; i < n; i++ {
		from := path[i]
		to := path[(i+1)%n]
		txs := g.EdgeTx(from, to)
		if len(txs) == 0 {
			continue
		}
		lo := txs[0].Timestamp
		hi := txs[len(txs)-1].Timestamp
		if first {
			minFirst, maxLast = lo, hi
			first = false
			continue
		}
		if lo < minFirst {
			minFirst = lo
		}
		if hi > maxLast {
			maxLast = hi
		}
	}
	return minFirst, maxLast, !first
}

func tightnessBonus(spanSeconds int64) float64 {
	switch {
	case spanSeconds <= 3600:
		return 10
	case spanSeconds <= 6*3600:
		return 6
	case spanSeconds <= 24*3600:
		return 3
	default:
		return 0
	}
}
