package middleware

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/pulsetrack/whatsapp-agent/internal/model"
)

func TestValidatePhoneNumber(t *testing.T) {
	assert.NoError(t, ValidatePhoneNumber("59899123456"))
	assert.NoError(t, ValidatePhoneNumber("+59899123456"))
	assert.Error(t, ValidatePhoneNumber("123"))
	assert.Error(t, ValidatePhoneNumber("59899123456@c.us"))
	assert.Error(t, ValidatePhoneNumber("598-99-123456"))
	assert.Error(t, ValidatePhoneNumber(strings.Repeat("9", 21)))
	assert.Error(t, ValidatePhoneNumber("598+99123456"))
}

func TestValidateIDs(t *testing.T) {
	assert.NoError(t, ValidateTenantID(uuid.NewString()))
	assert.Error(t, ValidateTenantID("tenant-1"))
	assert.NoError(t, ValidateConversationID(uuid.NewString()))
	assert.Error(t, ValidateConversationID(""))
}

func TestValidateTenantName(t *testing.T) {
	assert.NoError(t, ValidateTenantName("Fincas del Este"))
	assert.Error(t, ValidateTenantName(""))
	assert.Error(t, ValidateTenantName(strings.Repeat("a", 129)))
}

func TestValidateProperty(t *testing.T) {
	valid := model.Property{Reference: "VE-101", Operation: model.OperationSale, Price: 350000}
	assert.NoError(t, ValidateProperty(&valid))

	noRef := valid
	noRef.Reference = ""
	assert.Error(t, ValidateProperty(&noRef))

	freebie := valid
	freebie.Price = 0
	assert.Error(t, ValidateProperty(&freebie))

	weirdOp := valid
	weirdOp.Operation = "exchange"
	assert.Error(t, ValidateProperty(&weirdOp))
}

func TestValidateMessageText(t *testing.T) {
	assert.NoError(t, ValidateMessageText("Hola"))
	assert.Error(t, ValidateMessageText(""))
	assert.Error(t, ValidateMessageText(strings.Repeat("a", 65537)))
	assert.Error(t, ValidateMessageText(string([]byte{0xff, 0xfe})))
}
