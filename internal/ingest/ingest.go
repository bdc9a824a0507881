// Package ingest decodes and defensively normalizes a transaction batch
// before it reaches the graph builder. It never participates in detection;
// it only enforces the precondition the graph builder is entitled to assume.
package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/finshield/muleguard/internal/domain"
)

// Decode reads a JSON array of transactions from r, validates each entry,
// and sorts the batch ascending by (timestamp, sender, receiver) if it is
// not already in that order. The pipeline stages themselves assign Index
// once the batch reaches the graph builder.
func Decode(r io.Reader) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	if err := json.NewDecoder(r).Decode(&txs); err != nil {
		return nil, fmt.Errorf("decode transaction batch: %w", err)
	}

	for i, tx := range txs {
		if !tx.Valid() {
			return nil, fmt.Errorf("transaction at position %d is invalid: sender/receiver must be non-empty and amount positive", i)
		}
	}

	sort.SliceStable(txs, func(i, j int) bool {
		if txs[i].Timestamp != txs[j].Timestamp {
			return txs[i].Timestamp < txs[j].Timestamp
		}
		if txs[i].Sender != txs[j].Sender {
			return txs[i].Sender < txs[j].Sender
		}
		return txs[i].Receiver < txs[j].Receiver
	})

	return txs, nil
}
