package domain

// Transaction is a single directed money movement between two accounts.
// It is produced by an external parser and treated as immutable thereafter.
type Transaction struct {
	ID        string  `json:"id,omitempty"`
	Sender    string  `json:"sender"`
	Receiver  string  `json:"receiver"`
	Amount    float64 `json:"amount"`
	Timestamp int64   `json:"timestamp"` // epoch seconds
	// Index preserves the original position in the ingested sequence so that
	// timestamp ties can be broken deterministically without depending on
	// the stability of any particular sort implementation. It is assigned on
	// ingestion, never carried over the wire.
	Index int `json:"-"`
}

// Valid reports whether the transaction satisfies the data model invariants:
// non-empty sender and receiver and a strictly positive amount.
func (t Transaction) Valid() bool {
	return t.Sender != "" && t.Receiver != "" && t.Amount > 0
}
