package greenapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsetrack/whatsapp-agent/pkg/logger"
)

func TestSendMessage(t *testing.T) {
	var gotPath string
	var gotBody sendMessageRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"idMessage":"BAE5F4886F6F2D05"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, logger.NewNop())
	err := c.SendMessage(context.Background(), "7103000001", "secret-token", "59899123456", "Hola desde el asistente")
	require.NoError(t, err)

	assert.Equal(t, "/waInstance7103000001/sendMessage/secret-token", gotPath)
	assert.Equal(t, "59899123456@c.us", gotBody.ChatID)
	assert.Equal(t, "Hola desde el asistente", gotBody.Message)
}

func TestSendMessageErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(466)
		w.Write([]byte(`{"invokeStatus":{"method":"sendMessage"},"correspondentsStatus":{"description":"Monthly quota exceeded"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, logger.NewNop())
	err := c.SendMessage(context.Background(), "7103000001", "secret-token", "59899123456", "Hola")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 466")
	assert.Contains(t, err.Error(), "Monthly quota exceeded")
}

func TestSendMessageNonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, logger.NewNop())
	err := c.SendMessage(context.Background(), "7103000001", "secret-token", "59899123456", "Hola")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestSendMessageValidation(t *testing.T) {
	c := NewClient("http://localhost:0", logger.NewNop())
	ctx := context.Background()

	assert.Error(t, c.SendMessage(ctx, "", "token", "59899123456", "Hola"))
	assert.Error(t, c.SendMessage(ctx, "7103000001", "", "59899123456", "Hola"))
	assert.Error(t, c.SendMessage(ctx, "7103000001", "token", "", "Hola"))
	assert.Error(t, c.SendMessage(ctx, "7103000001", "token", "59899123456", "   "))
}

func TestNewClientDefaultBaseURL(t *testing.T) {
	c := NewClient("", logger.NewNop())
	assert.Equal(t, DefaultBaseURL, c.baseURL)

	trimmed := NewClient("https://api.example.com/", logger.NewNop())
	assert.Equal(t, "https://api.example.com", trimmed.baseURL)
}
