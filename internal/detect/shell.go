package detect

import (
	"strings"

	"github.com/finshield/muleguard/internal/domain"
	"github.com/finshield/muleguard/internal/mathutil"
	"github.com/finshield/muleguard/internal/txgraph"
)

const (
	shellMinEdges       = 3
	shellMaxEdges       = 6
	shellMaxPerStart    = 25
	shellMinDegree      = 2
	shellMaxDegree      = 3
	shellReorderSlack   = 3600
	shellMaxGapSeconds  = 24 * 3600
	shellAmountRatioCap = 1.35
)

// shellWalker holds the per-start search state for the shell-chain DFS.
type shellWalker struct {
	g         *txgraph.Graph
	rings     *[]domain.RingCandidate
	evidence  domain.EvidenceMap
	seen      map[string]struct{}
	successes int
}

// ShellChains detects multi-hop chains of 3 to 6 edges through low-activity
// pass-through nodes with temporally and amount-wise consistent edges.
func ShellChains(g *txgraph.Graph) domain.DetectionResult {
	var rings []domain.RingCandidate
	evidence := domain.NewEvidenceMap()
	seen := make(map[string]struct{})

	for _, start := range g.Nodes() {
		w := &shellWalker{g: g, rings: &rings, evidence: evidence, seen: seen}
		visited := map[string]bool{start: true}
		w.walk([]string{start}, visited)
	}

	return domain.DetectionResult{Rings: rings, Evidence: evidence}
}

func isLowActivityShell(g *txgraph.Graph, node string) bool {
	d := g.TotalDegree(node)
	return d >= shellMinDegree && d <= shellMaxDegree
}

func (w *shellWalker) walk(path []string, visited map[string]bool) {
	if w.successes >= shellMaxPerStart {
		return
	}

	edgeDepth := len(path) - 1
	if edgeDepth >= shellMinEdges {
		if w.tryAccept(path) {
			w.successes++
			if w.successes >= shellMaxPerStart {
				return
			}
		}
	}

	if edgeDepth >= shellMaxEdges {
		return
	}

	cur := path[len(path)-1]
	// Once a node has been committed to the path beyond the start, using it
	// as a launch point for a further hop means it is now confirmed as an
	// intermediate; only low-activity nodes may serve that role.
	if edgeDepth >= 1 && !isLowActivityShell(w.g, cur) {
		return
	}

	for _, next := range w.g.OutNeighbors(cur) {
		if visited[next] {
			continue
		}
		visited[next] = true
		w.walk(append(path, next), visited)
		visited[next] = false

		if w.successes >= shellMaxPerStart {
			return
		}
	}
}

// tryAccept validates path (edge-depth = len(path)-1 >= 3) against the
// shell-chain acceptance test and, if it passes, emits the ring. Returns
// whether the path was accepted (used to count against the per-start cap).
func (w *shellWalker) tryAccept(path []string) bool {
	sig := strings.Join(path, "|")
	if _, ok := w.seen[sig]; ok {
		return false
	}

	L := len(path) - 1
	for i := 1; i < L; i++ {
		node := path[i]
		if !isLowActivityShell(w.g, node) {
			return false
		}
		if w.g.InDegree(node) != 1 || w.g.OutDegree(node) != 1 {
			return false
		}
	}

	edgeFirst := make([]int64, L+1) // 1-indexed
	edgeMedian := make([]float64, L+1)
	minFirst, maxLast := int64(0), int64(0)
	for i := 1; i <= L; i++ {
		txs := w.g.EdgeTx(path[i-1], path[i])
		if len(txs) == 0 {
			return false
		}
		lo := txs[0].Timestamp
		hi := txs[len(txs)-1].Timestamp
		if i == 1 {
			minFirst, maxLast = lo, hi
		} else {
			if lo < minFirst {
				minFirst = lo
			}
			if hi > maxLast {
				maxLast = hi
			}
		}
		edgeFirst[i] = lo
		amounts := make([]float64, len(txs))
		for j, t := range txs {
			amounts[j] = t.Amount
		}
		edgeMedian[i] = mathutil.Median(amounts)
	}

	for i := 2; i <= L; i++ {
		if edgeFirst[i]+shellReorderSlack < edgeFirst[i-1] {
			return false
		}
		gap := edgeFirst[i] - edgeFirst[i-1]
		if gap < 0 {
			gap = -gap
		}
		if gap > shellMaxGapSeconds {
			return false
		}
		if edgeMedian[i-1] > 0 && edgeMedian[i] > 0 {
			hi, lo := edgeMedian[i-1], edgeMedian[i]
			if hi < lo {
				hi, lo = lo, hi
			}
			if hi/lo > shellAmountRatioCap {
				return false
			}
		}
	}

	w.seen[sig] = struct{}{}
	w.emit(path, L, maxLast-minFirst)
	return true
}

func (w *shellWalker) emit(path []string, L int, span int64) {
	risk := 78 + 3.5*float64(L-3) + shellTightnessBonus(span)
	risk = mathutil.Clamp(risk, 0, 100)

	members := append([]string(nil), path...)
	*w.rings = append(*w.rings, domain.RingCandidate{
		Pattern: domain.PatternLayeredShell,
		Members: members,
		Risk:    mathutil.Round1(risk),
	})

	w.evidence.Add(path[0], "layered_shell_chain")
	w.evidence.Add(path[0], "source_funds")

	for i := 1; i <= L-2; i++ {
		w.evidence.Add(path[i], "layered_shell_chain")
		w.evidence.Add(path[i], "low_activity_shell")
	}

	preCashout := path[L-1]
	w.evidence.Add(preCashout, "layered_shell_chain")
	w.evidence.Add(preCashout, "pre_cashout")

	cashout := path[L]
	w.evidence.Add(cashout, "layered_shell_chain")
	w.evidence.Add(cashout, "cash_out")
}

func shellTightnessBonus(spanSeconds int64) float64 {
	switch {
	case spanSeconds <= 2*3600:
		return 10
	case spanSeconds <= 12*3600:
		return 6
	case spanSeconds <= 48*3600:
		return 3
	default:
		return 0
	}
}
