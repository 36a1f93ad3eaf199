// Package handler provides HTTP handlers for the API.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pulsetrack/whatsapp-agent/internal/model"
	"github.com/pulsetrack/whatsapp-agent/internal/service"
	"github.com/pulsetrack/whatsapp-agent/pkg/logger"
)

// WebhookHandler receives Green API notifications.
type WebhookHandler struct {
	pipeline *service.WebhookService
	logger   *logger.Logger

	// background produces the context the pipeline runs under once the
	// request context is gone. Overridable in tests to run synchronously.
	process func(instanceID string, event *model.WebhookEvent)
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(pipeline *service.WebhookService, log *logger.Logger) *WebhookHandler {
	h := &WebhookHandler{
		pipeline: pipeline,
		logger:   log,
	}
	h.process = func(instanceID string, event *model.WebhookEvent) {
		go func() {
			// The request context dies with the ack; the pipeline gets its own.
			err := pipeline.Process(context.Background(), instanceID, event)
			if err != nil && !errors.Is(err, service.ErrFiltered) {
				// Already logged inside the pipeline with full detail.
				_ = err
			}
		}()
	}
	return h
}

// Receive handles POST /webhook/{instanceID}. The gateway requires a fast
// acknowledgment regardless of processing outcome, so the 200 carries no
// information beyond receipt and the pipeline continues on its own goroutine.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	instanceID := chi.URLParam(r, "instanceID")

	var event model.WebhookEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		// Even undecodable bodies are acknowledged; the gateway retries
		// anything else and the payload will not improve.
		h.logger.Warn("undecodable webhook payload")
		writeJSON(w, http.StatusOK, model.WebhookAck{Received: true})
		return
	}

	writeJSON(w, http.StatusOK, model.WebhookAck{Received: true})

	h.process(instanceID, &event)
}
