package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/pulsetrack/whatsapp-agent/internal/model"
)

const (
	// StreamName is the name of the lead-activity stream.
	StreamName = "LEADS"

	// SubjectPrefix is the prefix for all lead-activity subjects.
	SubjectPrefix = "leads"
)

// EventPublisher publishes conversation lifecycle events to JetStream so
// downstream consumers can follow lead activity without polling the store.
type EventPublisher struct {
	client *Client
}

// NewEventPublisher creates a publisher on an existing client.
func NewEventPublisher(client *Client) *EventPublisher {
	return &EventPublisher{client: client}
}

// EnsureStream ensures the lead-activity stream exists.
func (p *EventPublisher) EnsureStream(ctx context.Context) error {
	js := p.client.JetStream()

	_, err := js.Stream(ctx, StreamName)
	if err == nil {
		return nil // Stream already exists
	}

	_, err = js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{fmt.Sprintf("%s.>", SubjectPrefix)},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      90 * 24 * time.Hour,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Compression: jetstream.S2Compression,
		Description: "Conversation pipeline outcomes per tenant",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}

	return nil
}

// EventSubject returns the subject for a conversation event.
func EventSubject(tenantID, phone string, eventType model.EventType) string {
	return fmt.Sprintf("%s.%s.%s.%s", SubjectPrefix, tenantID, phone, eventType)
}

// Publish sends one conversation event. Callers treat failures as
// best-effort: events never gate the messaging pipeline.
func (p *EventPublisher) Publish(ctx context.Context, event *model.ConversationEvent) error {
	subject := EventSubject(event.TenantID, event.PhoneNumber, event.Type)

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := p.client.JetStream().Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
