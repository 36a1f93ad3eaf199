// Package model defines data structures for the WhatsApp agent platform.
package model

import (
	"time"
)

// Tenant is a client business (typically a real-estate agency) served by the
// shared agent under its own Green API credentials. Inbound webhooks are
// matched to a tenant by the instance ID in the webhook path.
type Tenant struct {
	ID                 string    `json:"id" gorm:"primaryKey;size:36"`
	Name               string    `json:"name"`
	WhatsAppNumber     string    `json:"whatsapp_number" gorm:"uniqueIndex"`
	GreenAPIInstanceID string    `json:"green_api_instance_id" gorm:"index"`
	GreenAPIToken      string    `json:"-"`
	Country            string    `json:"country"`
	Active             bool      `json:"active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// UpsertTenantRequest is the admin request to onboard or update a tenant,
// keyed by WhatsApp number.
type UpsertTenantRequest struct {
	Name               string `json:"name"`
	WhatsAppNumber     string `json:"whatsapp_number"`
	GreenAPIInstanceID string `json:"green_api_instance_id"`
	GreenAPIToken      string `json:"green_api_token"`
	Country            string `json:"country"`
	Active             *bool  `json:"active,omitempty"`
}
