// Package score assigns role-aware suspicion scores to accounts from the
// rings they belong to, after ring merging and before output assembly.
package score

import (
	"fmt"

	"github.com/finshield/muleguard/internal/domain"
	"github.com/finshield/muleguard/internal/mathutil"
)

// Accounts scores every graph node given the merged ring candidates (across
// all three patterns) and the unioned pre-scoring evidence map. Nodes with
// no participating ring keep score 0 and an empty tag set.
func Accounts(nodes []string, rings []domain.RingCandidate, evidence domain.EvidenceMap) map[string]*domain.AccountScoreState {
	states := make(map[string]*domain.AccountScoreState, len(nodes))
	for _, n := range nodes {
		states[n] = domain.NewAccountScoreState()
	}

	membership := make(map[string][]domain.RingCandidate)
	for _, r := range rings {
		for _, m := range r.Members {
			membership[m] = append(membership[m], r)
		}
	}

	for account, state := range states {
		candidates := membership[account]
		if len(candidates) == 0 {
			continue
		}

		best := bestRing(candidates)
		state.AddTags(evidence.Tags(account))

		j := mathutil.FNVJitter(fmt.Sprintf("%s|%s", account, best.Pattern))
		state.Score = mathutil.Round1(mathutil.Clamp(roleScore(account, best, state.Tags, j), 0, 100))
	}

	return states
}

// bestRing picks the highest-risk ring in candidates, tie-broken by the
// ring's signature (pattern|sorted-unique-members) for determinism.
func bestRing(candidates []domain.RingCandidate) domain.RingCandidate {
	best := candidates[0]
	bestSig := best.Signature()
	for _, c := range candidates[1:] {
		if c.Risk > best.Risk {
			best, bestSig = c, c.Signature()
			continue
		}
		if c.Risk == best.Risk {
			sig := c.Signature()
			if sig < bestSig {
				best, bestSig = c, sig
			}
		}
	}
	return best
}

func roleScore(account string, ring domain.RingCandidate, tags map[string]struct{}, j float64) float64 {
	has := func(tag string) bool {
		_, ok := tags[tag]
		return ok
	}

	switch ring.Pattern {
	case domain.PatternCycle:
		return ring.Risk - 3.1 + j

	case domain.PatternSmurfing:
		hub := len(ring.Members) > 0 && ring.Members[0] == account
		switch {
		case hub:
			return ring.Risk + 2.8
		case has("cash_out"):
			return ring.Risk + 1.7
		case has("smurfing_fan_out"):
			return ring.Risk - 5.9 + j
		case has("smurfing_fan_in"):
			return ring.Risk - 16.4 + j
		default:
			return ring.Risk - 10 + j
		}

	case domain.PatternLayeredShell:
		switch {
		case has("cash_out"):
			return ring.Risk + 2.2
		case has("low_activity_shell"):
			return ring.Risk + 0.4 + j
		case has("pre_cashout"):
			return ring.Risk - 1.7 + j
		case has("source_funds"):
			return ring.Risk - 5.4 + j
		default:
			return ring.Risk - 1.0 + j
		}
	}

	return 0
}
