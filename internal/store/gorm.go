package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pulsetrack/whatsapp-agent/internal/model"
)

// GormStore is the Postgres-backed store.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

// OpenPostgres connects to Postgres and migrates the schema.
func OpenPostgres(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("store: failed to open postgres: %w", err)
	}

	if err := db.AutoMigrate(&model.Tenant{}, &model.Property{}, &model.Conversation{}); err != nil {
		return nil, fmt.Errorf("store: migration failed: %w", err)
	}

	return &GormStore{db: db}, nil
}

// Ping verifies database connectivity.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// FindActiveByInstanceID resolves an active tenant by gateway instance ID.
func (s *GormStore) FindActiveByInstanceID(ctx context.Context, instanceID string) (*model.Tenant, error) {
	var tenant model.Tenant
	err := s.db.WithContext(ctx).
		Where("green_api_instance_id = ? AND active = ?", instanceID, true).
		First(&tenant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

// FindTenantByID retrieves a tenant by primary key.
func (s *GormStore) FindTenantByID(ctx context.Context, id string) (*model.Tenant, error) {
	var tenant model.Tenant
	err := s.db.WithContext(ctx).First(&tenant, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

// UpsertTenant inserts or updates a tenant keyed by WhatsApp number.
func (s *GormStore) UpsertTenant(ctx context.Context, tenant *model.Tenant) (*model.Tenant, error) {
	db := s.db.WithContext(ctx)

	var existing model.Tenant
	err := db.Where("whats_app_number = ?", tenant.WhatsAppNumber).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if tenant.ID == "" {
			tenant.ID = uuid.Must(uuid.NewV7()).String()
		}
		tenant.CreatedAt = time.Now()
		tenant.UpdatedAt = tenant.CreatedAt
		if err := db.Create(tenant).Error; err != nil {
			return nil, err
		}
		return tenant, nil
	case err != nil:
		return nil, err
	}

	tenant.ID = existing.ID
	tenant.CreatedAt = existing.CreatedAt
	tenant.UpdatedAt = time.Now()
	if err := db.Save(tenant).Error; err != nil {
		return nil, err
	}
	return tenant, nil
}

// ActiveProperties returns a tenant's active listings in creation order.
func (s *GormStore) ActiveProperties(ctx context.Context, tenantID string) ([]model.Property, error) {
	var properties []model.Property
	err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND active = ?", tenantID, true).
		Order("created_at ASC").
		Find(&properties).Error
	if err != nil {
		return nil, err
	}
	return properties, nil
}

// ReplaceProperties swaps a tenant's full property set in one transaction.
func (s *GormStore) ReplaceProperties(ctx context.Context, tenantID string, properties []model.Property) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ?", tenantID).Delete(&model.Property{}).Error; err != nil {
			return err
		}
		now := time.Now()
		for i := range properties {
			properties[i].TenantID = tenantID
			if properties[i].ID == "" {
				properties[i].ID = uuid.Must(uuid.NewV7()).String()
			}
			if properties[i].CreatedAt.IsZero() {
				// Preserve submission order under a created_at sort.
				properties[i].CreatedAt = now.Add(time.Duration(i) * time.Microsecond)
			}
		}
		if len(properties) == 0 {
			return nil
		}
		return tx.Create(&properties).Error
	})
}

// FindConversation returns the conversation owned by (tenantID, phone).
func (s *GormStore) FindConversation(ctx context.Context, tenantID, phone string) (*model.Conversation, error) {
	var conv model.Conversation
	err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND phone_number = ?", tenantID, phone).
		First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// FindConversationByID retrieves a conversation by primary key.
func (s *GormStore) FindConversationByID(ctx context.Context, id string) (*model.Conversation, error) {
	var conv model.Conversation
	err := s.db.WithContext(ctx).First(&conv, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// SaveConversation persists the conversation's full current state.
func (s *GormStore) SaveConversation(ctx context.Context, conv *model.Conversation) error {
	return s.db.WithContext(ctx).Save(conv).Error
}

// ListConversations returns all conversations for a tenant, most recently
// updated first.
func (s *GormStore) ListConversations(ctx context.Context, tenantID string) ([]model.Conversation, error) {
	var convs []model.Conversation
	err := s.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("updated_at DESC").
		Find(&convs).Error
	if err != nil {
		return nil, err
	}
	return convs, nil
}
