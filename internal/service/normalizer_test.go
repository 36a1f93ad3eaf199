package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsetrack/whatsapp-agent/internal/model"
)

func incomingEvent(chatID, text string) *model.WebhookEvent {
	return &model.WebhookEvent{
		TypeWebhook: model.WebhookTypeIncomingMessage,
		SenderData: &model.SenderData{
			ChatID: chatID,
		},
		MessageData: &model.MessageData{
			TypeMessage: "textMessage",
			TextMessageData: &model.TextMessageData{
				TextMessage: text,
			},
		},
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name       string
		event      *model.WebhookEvent
		wantOK     bool
		wantSender string
		wantText   string
	}{
		{
			name:       "plain text message",
			event:      incomingEvent("59899123456@c.us", "Hola, busco casa"),
			wantOK:     true,
			wantSender: "59899123456",
			wantText:   "Hola, busco casa",
		},
		{
			name:   "group chat dropped",
			event:  incomingEvent("120363041234567890@g.us", "mensaje de grupo"),
			wantOK: false,
		},
		{
			name: "status event dropped",
			event: &model.WebhookEvent{
				TypeWebhook: "outgoingMessageStatus",
			},
			wantOK: false,
		},
		{
			name:   "nil event dropped",
			event:  nil,
			wantOK: false,
		},
		{
			name: "missing chat identifier dropped",
			event: &model.WebhookEvent{
				TypeWebhook: model.WebhookTypeIncomingMessage,
				MessageData: &model.MessageData{
					TextMessageData: &model.TextMessageData{TextMessage: "hola"},
				},
			},
			wantOK: false,
		},
		{
			name: "chat identifier from message data preferred",
			event: &model.WebhookEvent{
				TypeWebhook: model.WebhookTypeIncomingMessage,
				SenderData:  &model.SenderData{ChatID: "59899000000@c.us"},
				MessageData: &model.MessageData{
					ChatID:          "59899111111@c.us",
					TextMessageData: &model.TextMessageData{TextMessage: "hola"},
				},
			},
			wantOK:     true,
			wantSender: "59899111111",
			wantText:   "hola",
		},
		{
			name: "extended text fallback",
			event: &model.WebhookEvent{
				TypeWebhook: model.WebhookTypeIncomingMessage,
				SenderData:  &model.SenderData{ChatID: "59899123456@c.us"},
				MessageData: &model.MessageData{
					TypeMessage: "extendedTextMessage",
					ExtendedTextMessageData: &model.ExtendedTextMessageData{
						Text: "Vi esta propiedad: https://example.com/ref-204",
					},
				},
			},
			wantOK:     true,
			wantSender: "59899123456",
			wantText:   "Vi esta propiedad: https://example.com/ref-204",
		},
		{
			name: "media message degrades to empty text",
			event: &model.WebhookEvent{
				TypeWebhook: model.WebhookTypeIncomingMessage,
				SenderData:  &model.SenderData{ChatID: "59899123456@c.us"},
				MessageData: &model.MessageData{
					TypeMessage: "imageMessage",
				},
			},
			wantOK:     true,
			wantSender: "59899123456",
			wantText:   "",
		},
		{
			name: "sender without chat suffix kept verbatim",
			event: &model.WebhookEvent{
				TypeWebhook: model.WebhookTypeIncomingMessage,
				SenderData:  &model.SenderData{ChatID: "59899123456"},
				MessageData: &model.MessageData{
					TextMessageData: &model.TextMessageData{TextMessage: "hola"},
				},
			},
			wantOK:     true,
			wantSender: "59899123456",
			wantText:   "hola",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inbound, ok := Normalize(tt.event)
			if !tt.wantOK {
				assert.False(t, ok)
				assert.Nil(t, inbound)
				return
			}
			require.True(t, ok)
			require.NotNil(t, inbound)
			assert.Equal(t, tt.wantSender, inbound.Sender)
			assert.Equal(t, tt.wantText, inbound.Text)
		})
	}
}
