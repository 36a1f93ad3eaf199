package service

import (
	"context"
	"fmt"

	"github.com/pulsetrack/whatsapp-agent/internal/model"
	"github.com/pulsetrack/whatsapp-agent/internal/store"
	"github.com/pulsetrack/whatsapp-agent/pkg/metrics"
)

// CatalogSummary is a bounded catalog read: the first N listable properties
// in creation order, plus the true listable total so prompt consumers know
// more exist beyond the cap.
type CatalogSummary struct {
	Properties []model.Property
	Total      int
}

// CatalogService reads bounded property catalogs. It is not a search index:
// no relevance filtering, simply "first N active".
type CatalogService struct {
	store store.PropertyStore
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(s store.PropertyStore) *CatalogService {
	return &CatalogService{store: s}
}

// Active returns a tenant's listable properties capped at limit. Records with
// a non-positive price or unrecognized operation kind are excluded before the
// cap is applied, so a bad record never displaces a good one.
func (s *CatalogService) Active(ctx context.Context, tenantID string, limit int) (*CatalogSummary, error) {
	properties, err := s.store.ActiveProperties(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("catalog read failed: %w", err)
	}

	listable := make([]model.Property, 0, len(properties))
	for _, p := range properties {
		if p.Listable() {
			listable = append(listable, p)
		}
	}

	metrics.CatalogSize.WithLabelValues(tenantID).Set(float64(len(listable)))

	capped := listable
	if limit > 0 && len(capped) > limit {
		capped = capped[:limit]
	}

	return &CatalogSummary{
		Properties: capped,
		Total:      len(listable),
	}, nil
}
