// Package report performs the final, deterministic assembly of the
// canonical output document: ring canonicalization and ID assignment,
// suspicious-account filtering, and summary computation.
package report

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/finshield/muleguard/internal/domain"
)

const suspicionThreshold = 60.0

// Assemble produces the canonical report from the merged, scored rings and
// per-account score states. elapsed is the pipeline's wall-clock duration,
// reported to three decimal places.
func Assemble(nodeCount int, mergedRings []domain.RingCandidate, states map[string]*domain.AccountScoreState, elapsed time.Duration) domain.Report {
	finalRings := canonicalizeRings(mergedRings)
	bestPerAccount := bestRingPerAccount(finalRings)

	suspicious := suspiciousAccounts(states, bestPerAccount)

	summary := domain.Summary{
		TotalAccountsAnalyzed:     nodeCount,
		SuspiciousAccountsFlagged: len(suspicious),
		FraudRingsDetected:        len(finalRings),
		ProcessingTimeSeconds:     round3(elapsed.Seconds()),
	}

	return domain.Report{
		Summary:            summary,
		FraudRings:         finalRings,
		SuspiciousAccounts: suspicious,
	}
}

// canonicalizeRings collapses candidates sharing a signature to the
// highest-risk one, orders them by pattern priority then signature, and
// assigns dense RING_NNN identifiers.
func canonicalizeRings(candidates []domain.RingCandidate) []domain.FraudRing {
	bestBySig := make(map[string]domain.RingCandidate)
	for _, c := range candidates {
		sig := c.Signature()
		if cur, ok := bestBySig[sig]; !ok || c.Risk > cur.Risk {
			bestBySig[sig] = c
		}
	}

	unique := make([]domain.RingCandidate, 0, len(bestBySig))
	for _, c := range bestBySig {
		unique = append(unique, c)
	}

	sort.Slice(unique, func(i, j int) bool {
		pi, pj := patternPriority(unique[i].Pattern), patternPriority(unique[j].Pattern)
		if pi != pj {
			return pi < pj
		}
		return unique[i].Signature() < unique[j].Signature()
	})

	rings := make([]domain.FraudRing, 0, len(unique))
	for i, c := range unique {
		rings = append(rings, domain.FraudRing{
			RingID:         fmt.Sprintf("RING_%03d", i+1),
			PatternType:    c.Pattern,
			MemberAccounts: emitMembers(c),
			RiskScore:      c.Risk,
		})
	}
	return rings
}

func patternPriority(p domain.PatternType) int {
	switch p {
	case domain.PatternCycle:
		return 1
	case domain.PatternSmurfing:
		return 2
	case domain.PatternLayeredShell:
		return 3
	default:
		return 9
	}
}

// emitMembers applies the pattern-specific final member ordering: cycles
// sort ascending (they are rotationally symmetric), everything else
// preserves detector order with duplicates removed by first occurrence.
func emitMembers(c domain.RingCandidate) []string {
	if c.Pattern == domain.PatternCycle {
		members := append([]string(nil), c.Members...)
		sort.Strings(members)
		return dedupPreserveOrder(members)
	}
	return dedupPreserveOrder(c.Members)
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

// bestRingPerAccount picks, for each account, the highest-risk final ring it
// belongs to, tie-broken by lexicographically smaller ring id.
func bestRingPerAccount(rings []domain.FraudRing) map[string]domain.FraudRing {
	best := make(map[string]domain.FraudRing)
	for _, r := range rings {
		for _, m := range r.MemberAccounts {
			cur, ok := best[m]
			if !ok || r.RiskScore > cur.RiskScore || (r.RiskScore == cur.RiskScore && r.RingID < cur.RingID) {
				best[m] = r
			}
		}
	}
	return best
}

func suspiciousAccounts(states map[string]*domain.AccountScoreState, bestPerAccount map[string]domain.FraudRing) []domain.SuspiciousAccount {
	out := make([]domain.SuspiciousAccount, 0)
	for account, state := range states {
		if len(state.Tags) == 0 || state.Score < suspicionThreshold {
			continue
		}
		var ringID *string
		if r, ok := bestPerAccount[account]; ok {
			id := r.RingID
			ringID = &id
		}
		out = append(out, domain.SuspiciousAccount{
			AccountID:        account,
			SuspicionScore:   state.Score,
			DetectedPatterns: state.SortedTags(),
			RingID:           ringID,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].SuspicionScore != out[j].SuspicionScore {
			return out[i].SuspicionScore > out[j].SuspicionScore
		}
		return out[i].AccountID < out[j].AccountID
	})

	return out
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
