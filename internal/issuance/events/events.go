// Package events publishes credential lifecycle events for downstream
// consumers (HR systems, audit pipelines).
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/admin-bn/company-controller/internal/platform/kafka/producer"
	id "github.com/admin-bn/company-controller/pkg/domain"
)

type Type string

const (
	InvitationCreated Type = "invitation_created"
	OfferSent         Type = "offer_sent"
	CredentialIssued  Type = "credential_issued"
	CredentialRevoked Type = "credential_revoked"
	CredentialResent  Type = "credential_resent"
)

// Event is the JSON value written to the lifecycle topic.
type Event struct {
	ID                   string    `json:"id"`
	Type                 Type      `json:"type"`
	EmployeeID           string    `json:"employee_id"`
	ConnectionID         string    `json:"connection_id,omitempty"`
	CredentialExchangeID string    `json:"credential_exchange_id,omitempty"`
	OccurredAt           time.Time `json:"occurred_at"`
}

func New(t Type, employeeID id.EmployeeID, at time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		EmployeeID: employeeID.String(),
		OccurredAt: at.UTC(),
	}
}

// Producer is satisfied by *producer.Producer.
type Producer interface {
	Produce(ctx context.Context, msg *producer.Message) error
}

// KafkaPublisher writes events keyed by employee id so that every event for
// one employee lands on the same partition.
type KafkaPublisher struct {
	producer Producer
	topic    string
}

func NewKafkaPublisher(p Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: p, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", e.Type, err)
	}
	return p.producer.Produce(ctx, &producer.Message{
		Topic: p.topic,
		Key:   []byte(e.EmployeeID),
		Value: value,
		Headers: map[string]string{
			"event_id":   e.ID,
			"event_type": string(e.Type),
		},
	})
}

// LogPublisher is used when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, e Event) error {
	p.logger.InfoContext(ctx, "lifecycle event",
		"event_id", e.ID,
		"event_type", e.Type,
		"employee_id", e.EmployeeID,
		"connection_id", e.ConnectionID,
		"credential_exchange_id", e.CredentialExchangeID,
	)
	return nil
}
