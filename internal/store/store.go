// Package store provides persistence for tenants, properties and conversations.
package store

import (
	"context"
	"errors"

	"github.com/pulsetrack/whatsapp-agent/internal/model"
)

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("store: not found")

// TenantStore manages tenant records.
type TenantStore interface {
	// FindActiveByInstanceID resolves the tenant configured with the given
	// Green API instance ID, requiring the tenant be active.
	FindActiveByInstanceID(ctx context.Context, instanceID string) (*model.Tenant, error)

	// FindTenantByID retrieves a tenant by primary key.
	FindTenantByID(ctx context.Context, id string) (*model.Tenant, error)

	// UpsertTenant inserts or updates a tenant keyed by WhatsApp number and
	// returns the stored record.
	UpsertTenant(ctx context.Context, tenant *model.Tenant) (*model.Tenant, error)
}

// PropertyStore manages catalog listings.
type PropertyStore interface {
	// ActiveProperties returns a tenant's active listings in creation order.
	ActiveProperties(ctx context.Context, tenantID string) ([]model.Property, error)

	// ReplaceProperties swaps a tenant's full property set atomically.
	ReplaceProperties(ctx context.Context, tenantID string, properties []model.Property) error
}

// ConversationStore manages conversation transcripts.
type ConversationStore interface {
	// FindConversation returns the conversation owned by (tenantID, phone),
	// or ErrNotFound.
	FindConversation(ctx context.Context, tenantID, phone string) (*model.Conversation, error)

	// FindConversationByID retrieves a conversation by primary key.
	FindConversationByID(ctx context.Context, id string) (*model.Conversation, error)

	// SaveConversation persists the conversation's full current state.
	SaveConversation(ctx context.Context, conv *model.Conversation) error

	// ListConversations returns all conversations for a tenant, most
	// recently updated first.
	ListConversations(ctx context.Context, tenantID string) ([]model.Conversation, error)
}

// Store aggregates all persistence concerns behind one dependency.
type Store interface {
	TenantStore
	PropertyStore
	ConversationStore

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
}
