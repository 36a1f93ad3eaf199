// Package greenapi is the outbound WhatsApp delivery client for the Green API
// messaging gateway. Each tenant addresses the gateway with its own instance
// ID and access token.
package greenapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pulsetrack/whatsapp-agent/pkg/logger"
)

// DefaultBaseURL is the public Green API endpoint.
const DefaultBaseURL = "https://api.green-api.com"

// Sender delivers one WhatsApp message to a recipient phone number.
type Sender interface {
	SendMessage(ctx context.Context, instanceID, token, phone, text string) error
}

// Client posts messages via the Green API HTTP interface.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

var _ Sender = (*Client)(nil)

// NewClient builds a sender against the given base URL (DefaultBaseURL when
// empty).
func NewClient(baseURL string, log *logger.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = logger.Global()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: log,
	}
}

type sendMessageRequest struct {
	ChatID  string `json:"chatId"`
	Message string `json:"message"`
}

// SendMessage delivers one message. The recipient phone number is the bare
// digit form; the chat identifier suffix is added here. A failure is returned
// to the caller for logging only; there is no retry.
func (c *Client) SendMessage(ctx context.Context, instanceID, token, phone, text string) error {
	if instanceID == "" || token == "" {
		return errors.New("greenapi: instance credentials required")
	}
	if phone == "" {
		return errors.New("greenapi: recipient phone required")
	}
	if strings.TrimSpace(text) == "" {
		return errors.New("greenapi: message text required")
	}

	url := fmt.Sprintf("%s/waInstance%s/sendMessage/%s", c.baseURL, instanceID, token)

	body, err := json.Marshal(sendMessageRequest{
		ChatID:  phone + "@c.us",
		Message: text,
	})
	if err != nil {
		return fmt.Errorf("greenapi: failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("greenapi: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("greenapi: send failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
		var errorBody map[string]interface{}
		if len(respBody) > 0 && json.Unmarshal(respBody, &errorBody) == nil {
			return fmt.Errorf("greenapi: send failed: status %d, body: %v", resp.StatusCode, errorBody)
		}
		return fmt.Errorf("greenapi: send failed: status %d", resp.StatusCode)
	}

	c.logger.Info("whatsapp message sent", zap.String("instance_id", instanceID), zap.String("to", phone))
	return nil
}
