package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsetrack/whatsapp-agent/internal/model"
)

func TestMemoryStoreTenants(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	tenant, err := st.UpsertTenant(ctx, &model.Tenant{
		Name:               "Fincas del Este",
		WhatsAppNumber:     "59899000000",
		GreenAPIInstanceID: "7103000001",
		Active:             true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, tenant.ID)

	found, err := st.FindActiveByInstanceID(ctx, "7103000001")
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, found.ID)

	_, err = st.FindActiveByInstanceID(ctx, "0000000000")
	assert.ErrorIs(t, err, ErrNotFound)

	byID, err := st.FindTenantByID(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fincas del Este", byID.Name)

	// Deactivation hides the tenant from instance lookup.
	tenant.Active = false
	_, err = st.UpsertTenant(ctx, tenant)
	require.NoError(t, err)

	_, err = st.FindActiveByInstanceID(ctx, "7103000001")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreUpsertKeyedByNumber(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	first, err := st.UpsertTenant(ctx, &model.Tenant{Name: "A", WhatsAppNumber: "59899000000"})
	require.NoError(t, err)

	second, err := st.UpsertTenant(ctx, &model.Tenant{Name: "B", WhatsAppNumber: "59899000000"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)

	other, err := st.UpsertTenant(ctx, &model.Tenant{Name: "C", WhatsAppNumber: "59899111111"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestMemoryStoreProperties(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	props := []model.Property{
		{Reference: "VE-101", Operation: model.OperationSale, Price: 350000, Active: true},
		{Reference: "VE-102", Operation: model.OperationSale, Price: 200000, Active: false},
		{Reference: "VE-103", Operation: model.OperationSale, Price: 150000, Active: true},
	}
	require.NoError(t, st.ReplaceProperties(ctx, "tenant-1", props))

	active, err := st.ActiveProperties(ctx, "tenant-1")
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "VE-101", active[0].Reference)
	assert.Equal(t, "VE-103", active[1].Reference)
	assert.NotEmpty(t, active[0].ID)
	assert.Equal(t, "tenant-1", active[0].TenantID)

	// Replacement is total.
	require.NoError(t, st.ReplaceProperties(ctx, "tenant-1", props[:1]))
	active, err = st.ActiveProperties(ctx, "tenant-1")
	require.NoError(t, err)
	assert.Len(t, active, 1)

	other, err := st.ActiveProperties(ctx, "tenant-2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestMemoryStoreConversations(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	conv := &model.Conversation{
		ID:          "conv-1",
		TenantID:    "tenant-1",
		PhoneNumber: "59899123456",
		Turns:       []model.Turn{{Role: model.RoleUser, Content: "Hola"}},
		Status:      model.ConversationActive,
	}
	require.NoError(t, st.SaveConversation(ctx, conv))

	// Mutating the caller's copy does not touch the stored one.
	conv.Turns = append(conv.Turns, model.Turn{Role: model.RoleAssistant, Content: "Hola!"})

	stored, err := st.FindConversation(ctx, "tenant-1", "59899123456")
	require.NoError(t, err)
	assert.Len(t, stored.Turns, 1)

	_, err = st.FindConversation(ctx, "tenant-1", "59899999999")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = st.FindConversation(ctx, "tenant-2", "59899123456")
	assert.ErrorIs(t, err, ErrNotFound)

	byID, err := st.FindConversationByID(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, "59899123456", byID.PhoneNumber)

	list, err := st.ListConversations(ctx, "tenant-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
