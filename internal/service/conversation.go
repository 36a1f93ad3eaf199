package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pulsetrack/whatsapp-agent/internal/model"
	"github.com/pulsetrack/whatsapp-agent/internal/store"
	"github.com/pulsetrack/whatsapp-agent/pkg/logger"
	"github.com/pulsetrack/whatsapp-agent/pkg/metrics"
)

// ConversationService handles conversation transcript operations.
type ConversationService struct {
	store  store.ConversationStore
	logger *logger.Logger
}

// NewConversationService creates a new conversation service.
func NewConversationService(s store.ConversationStore, log *logger.Logger) *ConversationService {
	return &ConversationService{
		store:  s,
		logger: log,
	}
}

// FindOrCreate returns the conversation owned by (tenantID, phone), creating
// an empty active one on first contact. The new conversation is not persisted
// until Save; the first Save writes it together with its first user turn.
func (s *ConversationService) FindOrCreate(ctx context.Context, tenantID, phone string) (*model.Conversation, error) {
	conv, err := s.store.FindConversation(ctx, tenantID, phone)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("conversation lookup failed: %w", err)
	}

	now := time.Now()
	return &model.Conversation{
		ID:          uuid.Must(uuid.NewV7()).String(),
		TenantID:    tenantID,
		PhoneNumber: phone,
		Turns:       []model.Turn{},
		LeadData:    map[string]string{},
		Status:      model.ConversationActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// AppendTurn adds one turn to the transcript in memory. Turns are append-only
// and keep strict call order; persistence happens in Save.
func (s *ConversationService) AppendTurn(conv *model.Conversation, role model.Role, text string, at time.Time) {
	conv.Turns = append(conv.Turns, model.Turn{
		Role:      role,
		Content:   text,
		Timestamp: at,
	})
	metrics.ConversationTurnsTotal.WithLabelValues(conv.TenantID, string(role)).Inc()
}

// Save persists the conversation's full current state and bumps UpdatedAt.
// There is no version field: concurrent writers last-write-win, which is why
// the orchestrator serializes processing per (tenant, phone) key.
func (s *ConversationService) Save(ctx context.Context, conv *model.Conversation) error {
	conv.UpdatedAt = time.Now()
	if err := s.store.SaveConversation(ctx, conv); err != nil {
		return fmt.Errorf("conversation save failed: %w", err)
	}
	return nil
}

// Get retrieves a conversation by primary key.
func (s *ConversationService) Get(ctx context.Context, id string) (*model.Conversation, error) {
	return s.store.FindConversationByID(ctx, id)
}

// List returns all conversations for a tenant.
func (s *ConversationService) List(ctx context.Context, tenantID string) (*model.ListConversationsResponse, error) {
	convs, err := s.store.ListConversations(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return &model.ListConversationsResponse{
		Conversations: convs,
		Total:         len(convs),
	}, nil
}
