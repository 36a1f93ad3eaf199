package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/pulsetrack/whatsapp-agent/internal/greenapi"
	"github.com/pulsetrack/whatsapp-agent/internal/middleware"
	"github.com/pulsetrack/whatsapp-agent/internal/model"
	"github.com/pulsetrack/whatsapp-agent/internal/service"
	"github.com/pulsetrack/whatsapp-agent/internal/store"
	"github.com/pulsetrack/whatsapp-agent/pkg/logger"
)

// AdminHandler serves the onboarding and inspection endpoints: tenant
// upserts, catalog replacement, conversation views and manual sends.
type AdminHandler struct {
	store         store.Store
	conversations *service.ConversationService
	sender        greenapi.Sender
	logger        *logger.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(s store.Store, convSvc *service.ConversationService, sender greenapi.Sender, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		store:         s,
		conversations: convSvc,
		sender:        sender,
		logger:        log,
	}
}

// UpsertTenant handles POST /admin/tenants — onboarding keyed by WhatsApp
// number, mirroring the original bulk-onboarding flow.
func (h *AdminHandler) UpsertTenant(w http.ResponseWriter, r *http.Request) {
	var req model.UpsertTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateTenantName(req.Name); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := middleware.ValidatePhoneNumber(req.WhatsAppNumber); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	tenant, err := h.store.UpsertTenant(r.Context(), &model.Tenant{
		Name:               req.Name,
		WhatsAppNumber:     req.WhatsAppNumber,
		GreenAPIInstanceID: req.GreenAPIInstanceID,
		GreenAPIToken:      req.GreenAPIToken,
		Country:            req.Country,
		Active:             active,
	})
	if err != nil {
		h.logger.Error("tenant upsert failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save tenant")
		return
	}

	writeJSON(w, http.StatusOK, tenant)
}

// ReplaceProperties handles PUT /admin/tenants/{id}/properties — full catalog
// swap for a tenant.
func (h *AdminHandler) ReplaceProperties(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "id")
	if err := middleware.ValidateTenantID(tenantID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.store.FindTenantByID(r.Context(), tenantID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "tenant not found")
			return
		}
		h.logger.Error("tenant lookup failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load tenant")
		return
	}

	var req model.ReplacePropertiesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	for i := range req.Properties {
		if err := middleware.ValidateProperty(&req.Properties[i]); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	if err := h.store.ReplaceProperties(r.Context(), tenantID, req.Properties); err != nil {
		h.logger.Error("property replace failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to replace properties")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"properties": len(req.Properties)})
}

// ListConversations handles GET /admin/tenants/{id}/conversations.
func (h *AdminHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "id")
	if err := middleware.ValidateTenantID(tenantID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.conversations.List(r.Context(), tenantID)
	if err != nil {
		h.logger.Error("conversation list failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list conversations")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetConversation handles GET /admin/conversations/{id}.
func (h *AdminHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "id")
	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	conv, err := h.conversations.Get(r.Context(), conversationID)
	if err != nil {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}

	writeJSON(w, http.StatusOK, conv)
}

// SendRequest is the body for the manual send endpoint.
type SendRequest struct {
	TenantID string `json:"tenant_id"`
	Phone    string `json:"phone"`
	Message  string `json:"message"`
}

// Send handles POST /admin/send — a manual outbound message for testing a
// tenant's gateway credentials.
func (h *AdminHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidatePhoneNumber(req.Phone); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := middleware.ValidateMessageText(req.Message); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tenant, err := h.store.FindTenantByID(r.Context(), req.TenantID)
	if err != nil {
		writeError(w, http.StatusNotFound, "tenant not found")
		return
	}

	if err := h.sender.SendMessage(r.Context(), tenant.GreenAPIInstanceID, tenant.GreenAPIToken, req.Phone, req.Message); err != nil {
		h.logger.Error("manual send failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "send failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}
