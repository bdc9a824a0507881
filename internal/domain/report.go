package domain

// FraudRing is one entry of the canonical output's fraud_rings array. IDs
// are dense from RING_001, assigned by the deterministic ring order defined
// by the output assembler.
type FraudRing struct {
	RingID         string      `json:"ring_id"`
	PatternType    PatternType `json:"pattern_type"`
	MemberAccounts []string    `json:"member_accounts"`
	RiskScore      float64     `json:"risk_score"`
}

// SuspiciousAccount is one entry of the canonical output's
// suspicious_accounts array. It is only emitted for accounts with a
// non-empty tag set and a final score of at least 60.
type SuspiciousAccount struct {
	AccountID        string   `json:"account_id"`
	SuspicionScore   float64  `json:"suspicion_score"`
	DetectedPatterns []string `json:"detected_patterns"`
	RingID           *string  `json:"ring_id"`
}

// Summary aggregates run-level counters and timing for the canonical output.
type Summary struct {
	TotalAccountsAnalyzed     int     `json:"total_accounts_analyzed"`
	SuspiciousAccountsFlagged int     `json:"suspicious_accounts_flagged"`
	FraudRingsDetected        int     `json:"fraud_rings_detected"`
	ProcessingTimeSeconds     float64 `json:"processing_time_seconds"`
}

// Report is the canonical, deterministic document produced by the output
// assembler and consumed by downstream HTTP/UI layers.
type Report struct {
	Summary            Summary             `json:"summary"`
	FraudRings         []FraudRing         `json:"fraud_rings"`
	SuspiciousAccounts []SuspiciousAccount `json:"suspicious_accounts"`
}

// GraphExportNode is one node in the auxiliary graph export projection.
type GraphExportNode struct {
	ID string `json:"id"`
}

// GraphExportEdge is one aggregated edge in the auxiliary graph export
// projection: every transaction between the same ordered pair collapses
// into a single edge with a transaction count and total amount.
type GraphExportEdge struct {
	ID          string  `json:"id"`
	Source      string  `json:"source"`
	Target      string  `json:"target"`
	TxCount     int     `json:"tx_count"`
	TotalAmount float64 `json:"total_amount"`
}

// GraphExport is a pure projection of the built graph for visualization; it
// plays no part in detection.
type GraphExport struct {
	Nodes []GraphExportNode `json:"nodes"`
	Edges []GraphExportEdge `json:"edges"`
}
