package middleware

import (
	"errors"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/pulsetrack/whatsapp-agent/internal/model"
)

// ValidatePhoneNumber validates a bare phone number (digits, optional
// leading +).
func ValidatePhoneNumber(phone string) error {
	if len(phone) < 6 || len(phone) > 20 {
		return errors.New("phone number must be 6-20 characters")
	}
	for i, r := range phone {
		if r == '+' && i == 0 {
			continue
		}
		if !unicode.IsDigit(r) {
			return errors.New("phone number must contain only digits")
		}
	}
	return nil
}

// ValidateConversationID validates a conversation ID.
func ValidateConversationID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New("invalid conversation ID format")
	}
	return nil
}

// ValidateTenantID validates a tenant ID.
func ValidateTenantID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New("invalid tenant ID format")
	}
	return nil
}

// ValidateTenantName validates a tenant display name.
func ValidateTenantName(name string) error {
	if len(name) == 0 {
		return errors.New("name cannot be empty")
	}
	if len(name) > 128 {
		return errors.New("name exceeds maximum length")
	}
	if !utf8.ValidString(name) {
		return errors.New("name must be valid UTF-8")
	}
	return nil
}

// ValidateProperty validates a catalog listing submitted via the admin API.
// The same invariants gate catalog reads, so rejecting here keeps bad rows
// out of the store entirely.
func ValidateProperty(p *model.Property) error {
	if p.Reference == "" {
		return errors.New("property reference cannot be empty")
	}
	if p.Price <= 0 {
		return errors.New("property price must be positive")
	}
	if !model.KnownOperation(p.Operation) {
		return errors.New("unrecognized property operation")
	}
	return nil
}

// ValidateMessageText validates outbound message text for the manual send
// endpoint.
func ValidateMessageText(text string) error {
	if len(text) == 0 {
		return errors.New("message cannot be empty")
	}
	if len(text) > 65536 {
		return errors.New("message exceeds maximum length")
	}
	if !utf8.ValidString(text) {
		return errors.New("message must be valid UTF-8")
	}
	return nil
}
