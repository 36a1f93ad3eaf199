package model

import (
	"time"
)

// Operation is the kind of deal a property is listed for.
type Operation string

const (
	OperationSale         Operation = "sale"
	OperationSeasonalRent Operation = "seasonal_rental"
	OperationAnnualRent   Operation = "annual_rental"
)

// KnownOperation reports whether op is one of the recognized operation kinds.
// Catalog reads exclude properties with anything else.
func KnownOperation(op Operation) bool {
	switch op {
	case OperationSale, OperationSeasonalRent, OperationAnnualRent:
		return true
	}
	return false
}

// Label returns the Spanish-facing label used in prompts and admin views.
func (op Operation) Label() string {
	switch op {
	case OperationSale:
		return "Venta"
	case OperationSeasonalRent:
		return "Alquiler Temporario"
	case OperationAnnualRent:
		return "Alquiler Anual"
	}
	return string(op)
}

// RentalTerms carries the rental-specific sub-record. It is only present for
// rental operations; sale listings leave it nil.
type RentalTerms struct {
	Period           string   `json:"period,omitempty"`
	IncludedServices []string `json:"included_services,omitempty"`
	MonthlyFees      float64  `json:"monthly_fees,omitempty"`
	PetsAllowed      bool     `json:"pets_allowed,omitempty"`
	Garage           bool     `json:"garage,omitempty"`
}

// Property is one catalog listing owned by a tenant. The catalog is bulk
// replaced by the admin ingestion endpoint and read-only everywhere else.
type Property struct {
	ID          string       `json:"id" gorm:"primaryKey;size:36"`
	TenantID    string       `json:"tenant_id" gorm:"index"`
	Reference   string       `json:"reference"`
	Type        string       `json:"type"`
	Location    string       `json:"location"`
	Price       float64      `json:"price"`
	Operation   Operation    `json:"operation" gorm:"size:32"`
	Bedrooms    int          `json:"bedrooms"`
	Bathrooms   int          `json:"bathrooms"`
	Area        float64      `json:"area"`
	Description string       `json:"description"`
	Active      bool         `json:"active"`
	Rental      *RentalTerms `json:"rental,omitempty" gorm:"serializer:json"`
	CreatedAt   time.Time    `json:"created_at"`
}

// Listable reports whether the property may appear in a catalog read:
// active, positively priced, with a recognized operation kind.
func (p *Property) Listable() bool {
	return p.Active && p.Price > 0 && KnownOperation(p.Operation)
}

// ReplacePropertiesRequest is the admin request to swap a tenant's full
// property set, mirroring the bulk onboarding flow.
type ReplacePropertiesRequest struct {
	Properties []Property `json:"properties"`
}
