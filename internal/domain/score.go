package domain

// AccountScoreState is the scorer's mutable per-account working state. It is
// initialized with a zero score and an empty pattern set for every graph
// node, and after scoring is read-only. RingIDs stays empty: the scorer
// never fills it, and the output assembler owns final ring-id assignment.
type AccountScoreState struct {
	Score   float64
	Tags    map[string]struct{}
	RingIDs []string // not populated by the scorer
}

// NewAccountScoreState builds the initial, zero-valued state for a node.
func NewAccountScoreState() *AccountScoreState {
	return &AccountScoreState{Tags: make(map[string]struct{})}
}

// AddTags unions the provided tags into the account's pattern set.
func (s *AccountScoreState) AddTags(tags []string) {
	for _, t := range tags {
		s.Tags[t] = struct{}{}
	}
}

// SortedTags returns the account's tags in evidence-vocabulary rank order,
// unknown tags following in alphabetical order.
func (s *AccountScoreState) SortedTags() []string {
	return RankTags(s.Tags)
}
