package detect

import (
	"sort"

	"github.com/finshield/muleguard/internal/domain"
	"github.com/finshield/muleguard/internal/mathutil"
	"github.com/finshield/muleguard/internal/txgraph"
)

const (
	smurfWindowSeconds = 72 * 3600
	smurfMinUnique     = 10
	smurfAmountTol     = 0.08
	smurfStrongIn      = 0.50
	smurfStrongOut     = 0.45
)

// window is the best qualifying two-pointer window found on one side (the
// in-list or the out-list) of a hub candidate.
type window struct {
	counterparties map[string]struct{}
	amounts        []float64
	minT, maxT     int64
	uniqueCount    int
}

// Smurfing identifies hub accounts exhibiting concurrent fan-in and fan-out
// within a 72-hour window, with amount-similarity evidence and an optional
// downstream cash-out sink.
func Smurfing(g *txgraph.Graph) domain.DetectionResult {
	var rings []domain.RingCandidate
	evidence := domain.NewEvidenceMap()

	for _, hub := range g.Nodes() {
		inTx := g.InTx(hub)
		outTx := g.OutTx(hub)
		if len(inTx) < smurfMinUnique || len(outTx) < smurfMinUnique {
			continue
		}

		inWin, ok := bestWindow(inTx, func(t domain.Transaction) string { return t.Sender })
		if !ok {
			continue
		}
		outWin, ok := bestWindow(outTx, func(t domain.Transaction) string { return t.Receiver })
		if !ok {
			continue
		}

		minT := inWin.minT
		if outWin.minT < minT {
			minT = outWin.minT
		}
		maxT := inWin.maxT
		if outWin.maxT > maxT {
			maxT = outWin.maxT
		}
		if maxT-minT > smurfWindowSeconds {
			continue
		}

		inCons := amountConsistency(inWin.amounts)
		outCons := amountConsistency(outWin.amounts)
		if inCons < smurfStrongIn && outCons < smurfStrongOut {
			continue
		}

		cashout, _ := findCashout(g, outWin.counterparties, minT, maxT)

		senders := sortedSet(inWin.counterparties)
		receivers := sortedSet(outWin.counterparties)

		members := dedupPreserveOrder(buildSmurfMembers(hub, senders, receivers, cashout))

		maxCons := inCons
		if outCons > maxCons {
			maxCons = outCons
		}
		risk := 70 + 1.2*float64(len(senders)) + 1.2*float64(len(receivers)) + 6*maxCons
		if cashout != "" {
			risk += 4
		}
		risk = mathutil.Clamp(risk, 0, 100)

		rings = append(rings, domain.RingCandidate{
			Pattern: domain.PatternSmurfing,
			Members: members,
			Risk:    mathutil.Round1(risk),
		})

		evidence.Add(hub, "smurfing_fan_in")
		evidence.Add(hub, "smurfing_fan_out")
		evidence.Add(hub, "temporal_72h")
		for _, s := range senders {
			evidence.Add(s, "smurfing_fan_in")
			evidence.Add(s, "temporal_72h")
		}
		for _, r := range receivers {
			evidence.Add(r, "smurfing_fan_out")
			evidence.Add(r, "temporal_72h")
		}
		if cashout != "" {
			evidence.Add(cashout, "smurfing_fan_out")
			evidence.Add(cashout, "temporal_72h")
			evidence.Add(cashout, "cash_out")
		}
	}

	return domain.DetectionResult{Rings: rings, Evidence: evidence}
}

// bestWindow runs the two-pointer sliding window over a time-ascending
// transaction list, tracking the counterparty extracted by counterparty(tx).
// It returns the window maximizing the unique counterparty count within
// smurfWindowSeconds, tie-broken by minimum span; ok is false if no window
// reaches smurfMinUnique unique counterparties.
func bestWindow(txs []domain.Transaction, counterparty func(domain.Transaction) string) (window, bool) {
	freq := make(map[string]int)
	left := 0
	var best window
	found := false

	for right := 0; right < len(txs); right++ {
		cp := counterparty(txs[right])
		freq[cp]++

		for txs[right].Timestamp-txs[left].Timestamp > smurfWindowSeconds {
			lcp := counterparty(txs[left])
			freq[lcp]--
			if freq[lcp] == 0 {
				delete(freq, lcp)
			}
			left++
		}

		unique := len(freq)
		if unique < smurfMinUnique {
			continue
		}

		span := txs[right].Timestamp - txs[left].Timestamp
		if !found || unique > best.uniqueCount || (unique == best.uniqueCount && span < best.maxT-best.minT) {
			cpSet := make(map[string]struct{}, unique)
			amounts := make([]float64, 0, right-left+1)
			for i := left; i <= right; i++ {
				cpSet[counterparty(txs[i])] = struct{}{}
				amounts = append(amounts, txs[i].Amount)
			}
			best = window{
				counterparties: cpSet,
				amounts:        amounts,
				minT:           txs[left].Timestamp,
				maxT:           txs[right].Timestamp,
				uniqueCount:    unique,
			}
			found = true
		}
	}

	return best, found
}

// amountConsistency is the fraction of amounts within +/-AMOUNT_TOL*median
// of the median.
func amountConsistency(amounts []float64) float64 {
	if len(amounts) == 0 {
		return 0
	}
	med := mathutil.Median(amounts)
	tol := smurfAmountTol * med
	within := 0
	for _, a := range amounts {
		if a >= med-tol && a <= med+tol {
			within++
		}
	}
	return float64(within) / float64(len(amounts))
}

// findCashout scans all graph nodes for the best downstream sink: an
// account whose in-list draws at least smurfMinUnique unique senders from
// receivers (the hub's fan-out counterparties) within [minT,maxT], and
// whose out-degree is sink-like (<=2).
func findCashout(g *txgraph.Graph, receivers map[string]struct{}, minT, maxT int64) (string, int) {
	best := ""
	bestCount := 0

	for _, c := range g.Nodes() {
		if g.OutDegree(c) > 2 {
			continue
		}
		seen := make(map[string]struct{})
		for _, tx := range g.InTx(c) {
			if tx.Timestamp < minT || tx.Timestamp > maxT {
				continue
			}
			if _, ok := receivers[tx.Sender]; !ok {
				continue
			}
			seen[tx.Sender] = struct{}{}
		}
		if len(seen) < smurfMinUnique {
			continue
		}
		if len(seen) > bestCount {
			bestCount = len(seen)
			best = c
		}
	}

	return best, bestCount
}

func buildSmurfMembers(hub string, senders, receivers []string, cashout string) []string {
	members := make([]string, 0, len(senders)+len(receivers)+2)
	members = append(members, hub)
	members = append(members, senders...)
	members = append(members, receivers...)
	if cashout != "" {
		members = append(members, cashout)
	}
	return members
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func dedupPreserveOrder(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}
