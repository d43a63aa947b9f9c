package acl

import (
	"context"

	"github.com/google/uuid"
)

// ItemEnrichment is display metadata backfilled onto a receipt line. It is
// never required for correctness of quantities or state.
type ItemEnrichment struct {
	CanonicalName string
	ImageURL      string
	CurrentStock  string
}

// CatalogService is the port to the Catalog collaborator. Lookups are
// best-effort: callers degrade gracefully when the catalog is unreachable
// and proceed without enrichment.
type CatalogService interface {
	// GetItem looks up enrichment by catalog item reference
	GetItem(ctx context.Context, itemID uuid.UUID) (*ItemEnrichment, error)

	// FindItemByName looks up enrichment by fuzzy name match
	FindItemByName(ctx context.Context, name string) (*ItemEnrichment, error)
}
