package model

import (
	"time"
)

// EventType represents the outcome of one webhook pipeline run.
type EventType string

const (
	EventTypeDelivered EventType = "delivered"
	EventTypeFailed    EventType = "failed"
)

// ConversationEvent is published to JetStream after each pipeline run so
// downstream consumers (dashboards, CRM sync) can follow lead activity
// without touching the store.
type ConversationEvent struct {
	ID             string    `json:"id"`
	TenantID       string    `json:"tenant_id"`
	ConversationID string    `json:"conversation_id"`
	PhoneNumber    string    `json:"phone_number"`
	Type           EventType `json:"type"`
	Reason         string    `json:"reason,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
