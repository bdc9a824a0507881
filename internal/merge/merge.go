// Package merge consolidates near-duplicate ring candidates produced by a
// single detector into one representative per equivalence class.
package merge

import "github.com/finshield/muleguard/internal/domain"

// JaccardThreshold is the pipeline-wired similarity cutoff at or above which
// two same-pattern rings are considered duplicates. A different default (0.7)
// appears in some documentation of the underlying helper, but the pipeline
// wiring value below is authoritative.
const JaccardThreshold = 0.6

// Rings collapses near-duplicate candidates of the same pattern type by
// member-set Jaccard similarity, processing candidates in input order.
// Applying Rings to an already-merged slice is idempotent.
func Rings(candidates []domain.RingCandidate) []domain.RingCandidate {
	n := len(candidates)
	consumed := make([]bool, n)
	sets := make([]map[string]struct{}, n)
	for i, c := range candidates {
		sets[i] = toSet(c.Members)
	}

	var result []domain.RingCandidate
	for i := 0; i < n; i++ {
		if consumed[i] {
			continue
		}
		representative := candidates[i]
		consumed[i] = true

		for j := i + 1; j < n; j++ {
			if consumed[j] || candidates[j].Pattern != representative.Pattern {
				continue
			}
			if jaccard(sets[i], sets[j]) < JaccardThreshold {
				continue
			}
			consumed[j] = true
			if candidates[j].Risk > representative.Risk {
				representative = candidates[j]
			}
		}

		result = append(result, representative)
	}

	return result
}

func toSet(members []string) map[string]struct{} {
	set := make(map[string]struct{}, len(members))
	for _, m := range members {
		set[m] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	intersection := 0
	for m := range a {
		if _, ok := b[m]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
