package service

import (
	"context"

	"github.com/zivgin/canonical-product-builder/internal/models"
)

// ListingStore is the read-only catalog of imported per-chain listings.
type ListingStore interface {
	Find(ctx context.Context, namePattern, excludePattern string, limit int) ([]models.Listing, error)
}

// ChainStore is the chain registry backing store.
type ChainStore interface {
	ListChains(ctx context.Context) ([]models.Chain, error)
	ListSubChains(ctx context.Context) ([]models.SubChain, error)
}

// CanonicalStore persists canonical product records. InsertUnique must
// enforce barcode uniqueness atomically at the storage layer.
type CanonicalStore interface {
	MaxBarcode(ctx context.Context) (int64, bool, error)
	FindByBarcode(ctx context.Context, barcode int64) (*models.CanonicalProduct, error)
	InsertUnique(ctx context.Context, p *models.CanonicalProduct) error
}
