// Package kafka publishes audit events to the audit topic so downstream
// consumers can persist or analyze them independently of the serving path.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"sahaay/internal/platform/kafka"
	"sahaay/internal/platform/kafka/producer"
	audit "sahaay/pkg/platform/audit"
)

// Producer is the subset of the kafka producer the publisher needs.
type Producer interface {
	ProduceAsync(msg *producer.Message) error
}

// Publisher implements audit.Emitter over a Kafka topic. Delivery is
// asynchronous: audit emission must never block a citizen-facing request.
type Publisher struct {
	producer Producer
	topic    string
	logger   *slog.Logger
}

// New creates a Kafka-backed audit publisher.
func New(p Producer, logger *slog.Logger) *Publisher {
	if p == nil {
		panic("kafka.New: producer is required")
	}
	return &Publisher{
		producer: p,
		topic:    kafka.TopicAudit,
		logger:   logger,
	}
}

// payload is the wire format for audit events on the topic.
type payload struct {
	Timestamp string `json:"timestamp"`
	SessionID string `json:"session_id,omitempty"`
	ProgramID string `json:"program_id,omitempty"`
	Subject   string `json:"subject,omitempty"`
	Action    string `json:"action"`
	Decision  string `json:"decision,omitempty"`
	Reason    string `json:"reason,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	ClientIP  string `json:"client_ip,omitempty"`
}

func (p *Publisher) Emit(_ context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	var sessionID string
	if !event.SessionID.IsNil() {
		sessionID = event.SessionID.String()
	}

	value, err := json.Marshal(payload{
		Timestamp: event.Timestamp.Format(time.RFC3339Nano),
		SessionID: sessionID,
		ProgramID: event.ProgramID.String(),
		Subject:   event.Subject,
		Action:    event.Action,
		Decision:  event.Decision,
		Reason:    event.Reason,
		RequestID: event.RequestID,
		ClientIP:  event.ClientIP,
	})
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	// Events for one session are keyed together so consumers see them in
	// submission order.
	return p.producer.ProduceAsync(&producer.Message{
		Topic: p.topic,
		Key:   []byte(sessionID),
		Value: value,
	})
}
