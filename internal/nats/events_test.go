package nats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pulsetrack/whatsapp-agent/internal/model"
)

func TestEventSubject(t *testing.T) {
	subject := EventSubject("tenant-1", "59899123456", model.EventTypeDelivered)
	assert.Equal(t, "leads.tenant-1.59899123456.delivered", subject)

	subject = EventSubject("tenant-1", "59899123456", model.EventTypeFailed)
	assert.Equal(t, "leads.tenant-1.59899123456.failed", subject)
}
