// Package service provides business logic for the WhatsApp agent.
package service

import (
	"strings"

	"github.com/pulsetrack/whatsapp-agent/internal/model"
)

const (
	chatSuffix  = "@c.us"
	groupSuffix = "@g.us"
)

// InboundMessage is the normalized form of an inbound webhook event: the
// sender's bare phone number and the message text, which may be empty.
type InboundMessage struct {
	Sender string
	Text   string
}

// chatIDSources lists the payload locations that may carry the chat
// identifier, in the order they are tried. Gateway revisions disagree on
// where the field lives, so extraction is a strategy chain rather than
// a pair of nested conditionals.
var chatIDSources = []func(*model.WebhookEvent) string{
	func(e *model.WebhookEvent) string {
		if e.MessageData != nil {
			return e.MessageData.ChatID
		}
		return ""
	},
	func(e *model.WebhookEvent) string {
		if e.SenderData != nil {
			return e.SenderData.ChatID
		}
		return ""
	},
}

// textSources lists the payload locations that may carry the message text,
// in the order they are tried. First non-empty wins.
var textSources = []func(*model.WebhookEvent) string{
	func(e *model.WebhookEvent) string {
		if e.MessageData != nil && e.MessageData.TextMessageData != nil {
			return e.MessageData.TextMessageData.TextMessage
		}
		return ""
	},
	func(e *model.WebhookEvent) string {
		if e.MessageData != nil && e.MessageData.ExtendedTextMessageData != nil {
			return e.MessageData.ExtendedTextMessageData.Text
		}
		return ""
	},
}

// Normalize classifies an inbound webhook event and extracts sender and text.
// It returns false when the event is not an incoming chat message worth
// processing: a non-message event kind, a group chat, or a payload the sender
// cannot be derived from. Missing text degrades to an empty string, never to
// a failure.
func Normalize(event *model.WebhookEvent) (*InboundMessage, bool) {
	if event == nil || event.TypeWebhook != model.WebhookTypeIncomingMessage {
		return nil, false
	}

	var chatID string
	for _, source := range chatIDSources {
		if chatID = source(event); chatID != "" {
			break
		}
	}
	if chatID == "" || strings.HasSuffix(chatID, groupSuffix) {
		return nil, false
	}

	var text string
	for _, source := range textSources {
		if text = source(event); text != "" {
			break
		}
	}

	return &InboundMessage{
		Sender: strings.TrimSuffix(chatID, chatSuffix),
		Text:   text,
	}, true
}
