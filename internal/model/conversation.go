package model

import (
	"time"
)

// Role represents the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a conversation transcript.
type Turn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationActive is the status of a conversation still in qualification.
const ConversationActive = "active"

// Conversation is the transcript owned by one (tenant, phone number) pair.
// Turns are append-only and keep strict append order; the pipeline appends
// exactly one user turn per inbound message and, when the completion call
// succeeds, one assistant turn.
type Conversation struct {
	ID          string            `json:"id" gorm:"primaryKey;size:36"`
	TenantID    string            `json:"tenant_id" gorm:"index:idx_conv_tenant_phone,unique"`
	PhoneNumber string            `json:"phone_number" gorm:"index:idx_conv_tenant_phone,unique"`
	Turns       []Turn            `json:"turns" gorm:"serializer:json"`
	LeadData    map[string]string `json:"lead_data" gorm:"serializer:json"`
	Status      string            `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ListConversationsResponse is the admin response for listing conversations.
type ListConversationsResponse struct {
	Conversations []Conversation `json:"conversations"`
	Total         int            `json:"total"`
}
