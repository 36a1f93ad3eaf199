package model

// Green API webhook envelope types. Field coverage follows the notification
// shapes the gateway actually delivers; everything is optional so a partial
// payload decodes instead of failing.

// WebhookTypeIncomingMessage is the event kind for inbound chat messages.
// Every other kind (outgoing statuses, state changes, ...) is acknowledged
// and dropped.
const WebhookTypeIncomingMessage = "incomingMessageReceived"

// WebhookEvent is the top-level notification body posted to /webhook/{instanceID}.
type WebhookEvent struct {
	TypeWebhook  string        `json:"typeWebhook"`
	InstanceData *InstanceData `json:"instanceData,omitempty"`
	Timestamp    int64         `json:"timestamp,omitempty"`
	IDMessage    string        `json:"idMessage,omitempty"`
	SenderData   *SenderData   `json:"senderData,omitempty"`
	MessageData  *MessageData  `json:"messageData,omitempty"`
}

// InstanceData identifies the gateway instance that received the message.
type InstanceData struct {
	IDInstance int64  `json:"idInstance,omitempty"`
	Wid        string `json:"wid,omitempty"`
}

// SenderData describes the message sender. ChatID is a WhatsApp chat
// identifier such as "59899123456@c.us" (or "...@g.us" for groups).
type SenderData struct {
	ChatID     string `json:"chatId,omitempty"`
	Sender     string `json:"sender,omitempty"`
	SenderName string `json:"senderName,omitempty"`
}

// MessageData holds the message content. Some gateway revisions also repeat
// the chat identifier here, so the normalizer checks both locations.
type MessageData struct {
	TypeMessage             string                   `json:"typeMessage,omitempty"`
	ChatID                  string                   `json:"chatId,omitempty"`
	TextMessageData         *TextMessageData         `json:"textMessageData,omitempty"`
	ExtendedTextMessageData *ExtendedTextMessageData `json:"extendedTextMessageData,omitempty"`
}

// TextMessageData carries a plain text message body.
type TextMessageData struct {
	TextMessage string `json:"textMessage,omitempty"`
}

// ExtendedTextMessageData carries quoted/link-preview message text.
type ExtendedTextMessageData struct {
	Text        string `json:"text,omitempty"`
	Description string `json:"description,omitempty"`
	Title       string `json:"title,omitempty"`
}

// WebhookAck is the unconditional 200 body returned before any processing.
type WebhookAck struct {
	Received bool `json:"received"`
}
