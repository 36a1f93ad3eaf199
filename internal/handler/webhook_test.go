package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsetrack/whatsapp-agent/internal/llm"
	"github.com/pulsetrack/whatsapp-agent/internal/model"
	"github.com/pulsetrack/whatsapp-agent/internal/prompt"
	"github.com/pulsetrack/whatsapp-agent/internal/service"
	"github.com/pulsetrack/whatsapp-agent/internal/store"
	"github.com/pulsetrack/whatsapp-agent/pkg/logger"
)

type stubLLM struct{}

func (stubLLM) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	return &llm.CompletionResponse{Content: "ok"}, nil
}

func (stubLLM) Name() string { return "stub" }

type stubSender struct{}

func (stubSender) SendMessage(ctx context.Context, instanceID, token, phone, text string) error {
	return nil
}

func newTestWebhookHandler(t *testing.T) *WebhookHandler {
	t.Helper()
	log := logger.NewNop()
	st := store.NewMemoryStore()
	pipeline := service.NewWebhookService(
		st,
		service.NewConversationService(st, log),
		service.NewCatalogService(st),
		prompt.NewComposer(nil),
		stubLLM{},
		stubSender{},
		nil,
		log,
		service.WebhookConfig{},
	)
	return NewWebhookHandler(pipeline, log)
}

func webhookRouter(h *WebhookHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/webhook/{instanceID}", h.Receive)
	return r
}

func TestWebhookReceiveAcksImmediately(t *testing.T) {
	h := newTestWebhookHandler(t)

	var gotInstance string
	var gotEvent *model.WebhookEvent
	h.process = func(instanceID string, event *model.WebhookEvent) {
		gotInstance = instanceID
		gotEvent = event
	}

	body := `{
		"typeWebhook": "incomingMessageReceived",
		"senderData": {"chatId": "59899123456@c.us", "senderName": "Ana"},
		"messageData": {"typeMessage": "textMessage", "textMessageData": {"textMessage": "Hola"}}
	}`
	req := httptest.NewRequest(http.MethodPost, "/webhook/7103000001", strings.NewReader(body))
	w := httptest.NewRecorder()
	webhookRouter(h).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var ack model.WebhookAck
	require.NoError(t, json.NewDecoder(w.Body).Decode(&ack))
	assert.True(t, ack.Received)

	assert.Equal(t, "7103000001", gotInstance)
	require.NotNil(t, gotEvent)
	assert.Equal(t, model.WebhookTypeIncomingMessage, gotEvent.TypeWebhook)
	assert.Equal(t, "59899123456@c.us", gotEvent.SenderData.ChatID)
}

func TestWebhookReceiveUndecodableBody(t *testing.T) {
	h := newTestWebhookHandler(t)

	called := false
	h.process = func(string, *model.WebhookEvent) { called = true }

	req := httptest.NewRequest(http.MethodPost, "/webhook/7103000001", strings.NewReader("not json at all"))
	w := httptest.NewRecorder()
	webhookRouter(h).ServeHTTP(w, req)

	// The gateway retries non-200 responses forever; garbage is acked too.
	assert.Equal(t, http.StatusOK, w.Code)

	var ack model.WebhookAck
	require.NoError(t, json.NewDecoder(w.Body).Decode(&ack))
	assert.True(t, ack.Received)
	assert.False(t, called)
}

func TestWebhookReceiveStatusEventAcked(t *testing.T) {
	h := newTestWebhookHandler(t)

	var gotEvent *model.WebhookEvent
	h.process = func(_ string, event *model.WebhookEvent) { gotEvent = event }

	body := `{"typeWebhook": "outgoingMessageStatus", "status": "delivered"}`
	req := httptest.NewRequest(http.MethodPost, "/webhook/7103000001", strings.NewReader(body))
	w := httptest.NewRecorder()
	webhookRouter(h).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	// Classification happens in the pipeline, not at the HTTP edge.
	require.NotNil(t, gotEvent)
	assert.Equal(t, "outgoingMessageStatus", gotEvent.TypeWebhook)
}
