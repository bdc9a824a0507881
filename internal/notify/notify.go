// Package notify publishes a compact summary of a completed run to Kafka for
// downstream case-management consumers. Publication is best-effort: a
// Publisher with no configured brokers is a no-op.
package notify

import (
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"

	"github.com/finshield/muleguard/internal/domain"
)

// Summary is the compact payload published for each completed run.
type Summary struct {
	RunID                     string  `json:"run_id"`
	FraudRingsDetected        int     `json:"fraud_rings_detected"`
	SuspiciousAccountsFlagged int     `json:"suspicious_accounts_flagged"`
	TopRiskScore              float64 `json:"top_risk_score"`
}

// Publisher sends run summaries to a Kafka topic. A nil producer makes
// Publish a no-op.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
}

// New constructs a Publisher backed by brokers/topic. If brokers is empty,
// the returned Publisher is a no-op and no producer is created.
func New(brokers []string, topic string) (*Publisher, error) {
	if len(brokers) == 0 {
		return &Publisher{}, nil
	}

	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect kafka producer: %w", err)
	}
	return &Publisher{producer: producer, topic: topic}, nil
}

// Close releases the underlying producer, if any.
func (p *Publisher) Close() error {
	if p.producer == nil {
		return nil
	}
	return p.producer.Close()
}

// Publish sends a run's summary. It is a no-op when the publisher was
// constructed with no brokers.
func (p *Publisher) Publish(run domain.PipelineRun) error {
	if p.producer == nil {
		return nil
	}

	summary := Summary{
		RunID:                     run.RunID,
		FraudRingsDetected:        run.Report.Summary.FraudRingsDetected,
		SuspiciousAccountsFlagged: run.Report.Summary.SuspiciousAccountsFlagged,
		TopRiskScore:              topRiskScore(run.Report.FraudRings),
	}

	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal notify summary: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(run.RunID),
		Value: sarama.ByteEncoder(payload),
	}
	if _, _, err := p.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("publish run summary: %w", err)
	}
	return nil
}

func topRiskScore(rings []domain.FraudRing) float64 {
	var top float64
	for _, r := range rings {
		if r.RiskScore > top {
			top = r.RiskScore
		}
	}
	return top
}
