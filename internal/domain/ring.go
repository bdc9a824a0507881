package domain

import (
	"sort"
	"strings"
)

// PatternType identifies which detector produced a ring candidate.
type PatternType string

const (
	PatternCycle        PatternType = "cycle"
	PatternSmurfing     PatternType = "smurfing"
	PatternLayeredShell PatternType = "layered_shell"
)

// RingCandidate is a detector's proposal for a suspected structure. It is
// produced by exactly one detector, may be discarded or merged by the ring
// merger, and is never mutated after a merge decision has been made about it.
type RingCandidate struct {
	Pattern PatternType
	// Members preserves the detector's semantic ordering (rotation order for
	// cycles prior to final sort, hub-first order for smurfing, path order
	// for layered shells).
	Members []string
	Risk    float64
}

// EvidenceMap accumulates, per account, the set of evidence tags contributed
// by a single detector run. Tags are drawn from the closed vocabulary
// documented in the glossary.
type EvidenceMap map[string]map[string]struct{}

// NewEvidenceMap constructs an empty evidence map.
func NewEvidenceMap() EvidenceMap {
	return make(EvidenceMap)
}

// Add records tag as evidence for account, creating the account's tag set on
// first use.
func (m EvidenceMap) Add(account, tag string) {
	set, ok := m[account]
	if !ok {
		set = make(map[string]struct{})
		m[account] = set
	}
	set[tag] = struct{}{}
}

// Merge unions src into m in place.
func (m EvidenceMap) Merge(src EvidenceMap) {
	for account, tags := range src {
		for tag := range tags {
			m.Add(account, tag)
		}
	}
}

// Tags returns the sorted tag list for account, or nil if the account has no
// recorded evidence.
func (m EvidenceMap) Tags(account string) []string {
	set, ok := m[account]
	if !ok {
		return nil
	}
	tags := make([]string, 0, len(set))
	for tag := range set {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// DetectionResult is what each of the three detectors returns: the ring
// candidates it found and the evidence it attaches to each member account.
type DetectionResult struct {
	Rings    []RingCandidate
	Evidence EvidenceMap
}

// Signature is the ring's canonicalization key: pattern joined with its
// sorted, deduplicated member list. Two candidates sharing a signature
// represent the same structure and collapse to whichever has higher risk.
func (r RingCandidate) Signature() string {
	members := append([]string(nil), r.Members...)
	sort.Strings(members)
	unique := make([]string, 0, len(members))
	for i, m := range members {
		if i > 0 && m == members[i-1] {
			continue
		}
		unique = append(unique, m)
	}
	return string(r.Pattern) + "|" + strings.Join(unique, ",")
}
