package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pulsetrack/whatsapp-agent/internal/greenapi"
	"github.com/pulsetrack/whatsapp-agent/internal/llm"
	"github.com/pulsetrack/whatsapp-agent/internal/model"
	"github.com/pulsetrack/whatsapp-agent/internal/prompt"
	"github.com/pulsetrack/whatsapp-agent/internal/store"
	"github.com/pulsetrack/whatsapp-agent/pkg/logger"
	"github.com/pulsetrack/whatsapp-agent/pkg/metrics"
)

// ErrFiltered marks events that terminate without side effects: non-message
// kinds, underivable senders, unknown or inactive tenants.
var ErrFiltered = errors.New("event filtered")

// EventPublisher publishes pipeline outcomes. Implementations must be safe
// for concurrent use; publishing is best-effort and never gates the pipeline.
type EventPublisher interface {
	Publish(ctx context.Context, event *model.ConversationEvent) error
}

// WebhookConfig tunes the pipeline.
type WebhookConfig struct {
	CatalogLimit      int
	CompletionModel   string
	MaxTokens         int
	CompletionTimeout time.Duration
}

// WebhookService drives an inbound webhook event through the full pipeline:
// normalize, resolve tenant, record the user turn, assemble the prompt, call
// the completion service, persist the reply and deliver it. It runs after the
// HTTP response was already written, so its errors terminate in logs and
// metrics, never at the webhook caller.
type WebhookService struct {
	tenants       store.TenantStore
	conversations *ConversationService
	catalog       *CatalogService
	composer      *prompt.Composer
	llm           llm.Client
	sender        greenapi.Sender
	events        EventPublisher
	logger        *logger.Logger
	cfg           WebhookConfig

	locks *keyedLocks
}

// NewWebhookService wires the pipeline. events may be nil when no JetStream
// is configured.
func NewWebhookService(
	tenants store.TenantStore,
	conversations *ConversationService,
	catalog *CatalogService,
	composer *prompt.Composer,
	llmClient llm.Client,
	sender greenapi.Sender,
	events EventPublisher,
	log *logger.Logger,
	cfg WebhookConfig,
) *WebhookService {
	if cfg.CatalogLimit <= 0 {
		cfg.CatalogLimit = 10
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1000
	}
	if cfg.CompletionTimeout <= 0 {
		cfg.CompletionTimeout = 60 * time.Second
	}
	return &WebhookService{
		tenants:       tenants,
		conversations: conversations,
		catalog:       catalog,
		composer:      composer,
		llm:           llmClient,
		sender:        sender,
		events:        events,
		logger:        log,
		cfg:           cfg,
		locks:         newKeyedLocks(),
	}
}

// Process runs the pipeline for one inbound event. The returned error is for
// the caller's log line only; nothing downstream of the webhook ack can
// surface to the gateway.
func (s *WebhookService) Process(ctx context.Context, instanceID string, event *model.WebhookEvent) error {
	inbound, ok := Normalize(event)
	if !ok {
		metrics.RecordWebhookOutcome(metrics.OutcomeFiltered)
		s.logger.Debug("webhook event filtered", zap.String("instance_id", instanceID))
		return ErrFiltered
	}

	tenant, err := s.tenants.FindActiveByInstanceID(ctx, instanceID)
	if err != nil {
		metrics.RecordWebhookOutcome(metrics.OutcomeFiltered)
		if errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("no active tenant for instance", zap.String("instance_id", instanceID))
			return ErrFiltered
		}
		s.logger.Error("tenant lookup failed", zap.String("instance_id", instanceID), zap.Error(err))
		return err
	}

	log := s.logger.WithConversation(tenant.ID, inbound.Sender)

	// Serialize per (tenant, phone) so two quick messages from the same
	// sender cannot interleave their read-modify-write on the transcript.
	release := s.locks.acquire(tenant.ID + "/" + inbound.Sender)
	defer release()

	conv, err := s.conversations.FindOrCreate(ctx, tenant.ID, inbound.Sender)
	if err != nil {
		return s.fail(ctx, log, tenant, conv, err)
	}

	s.conversations.AppendTurn(conv, model.RoleUser, inbound.Text, time.Now())

	// Persist before calling out: the user's message survives a completion
	// failure.
	if err := s.conversations.Save(ctx, conv); err != nil {
		return s.fail(ctx, log, tenant, conv, err)
	}

	summary, err := s.catalog.Active(ctx, tenant.ID, s.cfg.CatalogLimit)
	if err != nil {
		return s.fail(ctx, log, tenant, conv, err)
	}

	systemPrompt := s.composer.Compose(tenant, summary.Properties, summary.Total)

	reply, err := s.complete(ctx, systemPrompt, conv.Turns)
	if err != nil {
		return s.fail(ctx, log, tenant, conv, err)
	}

	s.conversations.AppendTurn(conv, model.RoleAssistant, reply, time.Now())
	if err := s.conversations.Save(ctx, conv); err != nil {
		return s.fail(ctx, log, tenant, conv, err)
	}

	if err := s.sender.SendMessage(ctx, tenant.GreenAPIInstanceID, tenant.GreenAPIToken, inbound.Sender, reply); err != nil {
		metrics.OutboundSendsTotal.WithLabelValues("error").Inc()
		// The reply is already part of the transcript; delivery failure is
		// logged for this invocation only.
		return s.fail(ctx, log, tenant, conv, err)
	}
	metrics.OutboundSendsTotal.WithLabelValues("ok").Inc()

	metrics.RecordWebhookOutcome(metrics.OutcomeDelivered)
	log.Info("reply delivered", zap.Int("turns", len(conv.Turns)))
	s.publish(ctx, tenant, conv, model.EventTypeDelivered, "")

	return nil
}

// complete invokes the completion service with the system prompt and the
// ordered role/content history. Timestamps are stripped; the completion call
// carries its own timeout.
func (s *WebhookService) complete(ctx context.Context, systemPrompt string, turns []model.Turn) (string, error) {
	messages := make([]llm.ChatMessage, len(turns))
	for i, turn := range turns {
		messages[i] = llm.ChatMessage{
			Role:    string(turn.Role),
			Content: turn.Content,
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.CompletionTimeout)
	defer cancel()

	resp, err := s.llm.Complete(ctx, &llm.CompletionRequest{
		Model:     s.cfg.CompletionModel,
		System:    systemPrompt,
		Messages:  messages,
		MaxTokens: s.cfg.MaxTokens,
	})
	if err != nil {
		metrics.CompletionDuration.WithLabelValues(s.cfg.CompletionModel, "error").Observe(0)
		return "", err
	}

	metrics.RecordCompletion(resp.Model, "success", float64(resp.LatencyMs)/1000.0, resp.TokensIn, resp.TokensOut)
	return resp.Content, nil
}

// fail records a terminal pipeline failure. The error, including any nested
// completion-service body, goes to the log; the user simply gets no reply.
func (s *WebhookService) fail(ctx context.Context, log *logger.Logger, tenant *model.Tenant, conv *model.Conversation, err error) error {
	metrics.RecordWebhookOutcome(metrics.OutcomeFailed)
	log.Error("webhook pipeline failed", zap.Error(err))
	if conv != nil {
		s.publish(ctx, tenant, conv, model.EventTypeFailed, err.Error())
	}
	return err
}

func (s *WebhookService) publish(ctx context.Context, tenant *model.Tenant, conv *model.Conversation, eventType model.EventType, reason string) {
	if s.events == nil {
		return
	}
	event := &model.ConversationEvent{
		ID:             uuid.Must(uuid.NewV7()).String(),
		TenantID:       tenant.ID,
		ConversationID: conv.ID,
		PhoneNumber:    conv.PhoneNumber,
		Type:           eventType,
		Reason:         reason,
		CreatedAt:      time.Now(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", zap.Error(err))
	}
}
