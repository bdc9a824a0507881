package domain

import "sort"

// tagRank is the closed evidence-tag vocabulary's fixed sort order. Tags not
// present here are unknown and sort after all known tags, then
// alphabetically among themselves.
var tagRank = map[string]int{
	"cycle_length_3":      0,
	"cycle_length_4":      1,
	"cycle_length_5":      2,
	"cycle":               3,
	"smurfing_fan_in":     4,
	"smurfing_fan_out":    5,
	"temporal_72h":        6,
	"layered_shell_chain": 7,
	"source_funds":        8,
	"low_activity_shell":  9,
	"pre_cashout":         10,
	"cash_out":            11,
}

const unknownTagRank = 1 << 30

// RankTags orders a tag set according to the closed evidence vocabulary.
func RankTags(tags map[string]struct{}) []string {
	out := make([]string, 0, len(tags))
	for t := range tags {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		ri, oki := tagRank[out[i]]
		rj, okj := tagRank[out[j]]
		if !oki {
			ri = unknownTagRank
		}
		if !okj {
			rj = unknownTagRank
		}
		if ri != rj {
			return ri < rj
		}
		return out[i] < out[j]
	})
	return out
}
