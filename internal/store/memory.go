package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pulsetrack/whatsapp-agent/internal/model"
)

// MemoryStore is an in-memory Store used in tests and local development.
type MemoryStore struct {
	mu            sync.RWMutex
	tenants       map[string]*model.Tenant
	properties    map[string][]model.Property // keyed by tenant ID, insertion order
	conversations map[string]*model.Conversation
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tenants:       make(map[string]*model.Tenant),
		properties:    make(map[string][]model.Property),
		conversations: make(map[string]*model.Conversation),
	}
}

// Ping always succeeds.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// FindActiveByInstanceID resolves an active tenant by gateway instance ID.
func (s *MemoryStore) FindActiveByInstanceID(ctx context.Context, instanceID string) (*model.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, tenant := range s.tenants {
		if tenant.GreenAPIInstanceID == instanceID && tenant.Active {
			copied := *tenant
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

// FindTenantByID retrieves a tenant by primary key.
func (s *MemoryStore) FindTenantByID(ctx context.Context, id string) (*model.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tenant, ok := s.tenants[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *tenant
	return &copied, nil
}

// UpsertTenant inserts or updates a tenant keyed by WhatsApp number.
func (s *MemoryStore) UpsertTenant(ctx context.Context, tenant *model.Tenant) (*model.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.tenants {
		if existing.WhatsAppNumber == tenant.WhatsAppNumber {
			tenant.ID = existing.ID
			tenant.CreatedAt = existing.CreatedAt
			tenant.UpdatedAt = time.Now()
			copied := *tenant
			s.tenants[tenant.ID] = &copied
			return tenant, nil
		}
	}

	if tenant.ID == "" {
		tenant.ID = uuid.Must(uuid.NewV7()).String()
	}
	tenant.CreatedAt = time.Now()
	tenant.UpdatedAt = tenant.CreatedAt
	copied := *tenant
	s.tenants[tenant.ID] = &copied
	return tenant, nil
}

// ActiveProperties returns a tenant's active listings in insertion order.
func (s *MemoryStore) ActiveProperties(ctx context.Context, tenantID string) ([]model.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var active []model.Property
	for _, p := range s.properties[tenantID] {
		if p.Active {
			active = append(active, p)
		}
	}
	return active, nil
}

// ReplaceProperties swaps a tenant's full property set.
func (s *MemoryStore) ReplaceProperties(ctx context.Context, tenantID string, properties []model.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	replaced := make([]model.Property, len(properties))
	now := time.Now()
	for i, p := range properties {
		p.TenantID = tenantID
		if p.ID == "" {
			p.ID = uuid.Must(uuid.NewV7()).String()
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now.Add(time.Duration(i) * time.Microsecond)
		}
		replaced[i] = p
	}
	s.properties[tenantID] = replaced
	return nil
}

// FindConversation returns the conversation owned by (tenantID, phone).
func (s *MemoryStore) FindConversation(ctx context.Context, tenantID, phone string) (*model.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, conv := range s.conversations {
		if conv.TenantID == tenantID && conv.PhoneNumber == phone {
			return cloneConversation(conv), nil
		}
	}
	return nil, ErrNotFound
}

// FindConversationByID retrieves a conversation by primary key.
func (s *MemoryStore) FindConversationByID(ctx context.Context, id string) (*model.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneConversation(conv), nil
}

// SaveConversation persists the conversation's full current state.
func (s *MemoryStore) SaveConversation(ctx context.Context, conv *model.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conversations[conv.ID] = cloneConversation(conv)
	return nil
}

// ListConversations returns all conversations for a tenant.
func (s *MemoryStore) ListConversations(ctx context.Context, tenantID string) ([]model.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var convs []model.Conversation
	for _, conv := range s.conversations {
		if conv.TenantID == tenantID {
			convs = append(convs, *cloneConversation(conv))
		}
	}
	return convs, nil
}

func cloneConversation(conv *model.Conversation) *model.Conversation {
	copied := *conv
	copied.Turns = make([]model.Turn, len(conv.Turns))
	copy(copied.Turns, conv.Turns)
	if conv.LeadData != nil {
		copied.LeadData = make(map[string]string, len(conv.LeadData))
		for k, v := range conv.LeadData {
			copied.LeadData[k] = v
		}
	}
	return &copied
}
