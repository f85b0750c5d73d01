package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zivgin/canonical-product-builder/internal/models"
	"github.com/zivgin/canonical-product-builder/internal/utils"
)

// BarcodeFloor is the first canonical barcode issued when the store holds no
// canonical products yet.
const BarcodeFloor = 100001

// BuilderService validates and assembles canonical product records and
// submits them for storage.
type BuilderService struct {
	canonical CanonicalStore
}

// NewBuilderService constructs a BuilderService.
func NewBuilderService(canonical CanonicalStore) *BuilderService {
	return &BuilderService{canonical: canonical}
}

// NextBarcode suggests the next canonical barcode: one past the current
// maximum, or BarcodeFloor for an empty store. The suggestion is advisory;
// the operator may override it with any unused positive integer at save time.
func (s *BuilderService) NextBarcode(ctx context.Context) (int64, error) {
	max, ok, err := s.canonical.MaxBarcode(ctx)
	if err != nil {
		return 0, err
	}
	if !ok {
		return BarcodeFloor, nil
	}
	return max + 1, nil
}

// Preview validates the workflow inputs and assembles the canonical product
// document without persisting it. Name and category must be non-blank and at
// least one sub-chain must be assigned, otherwise ErrMissingRequiredField is
// returned. Two sub-chains resolving to the same display name would silently
// collapse to one chains entry, losing a barcode; Preview rejects that with
// ErrDisplayNameCollision instead.
func (s *BuilderService) Preview(name, category, subCategory string, selected map[string]models.Listing, registry *RegistrySnapshot) (*models.CanonicalProduct, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name", utils.ErrMissingRequiredField)
	}
	if strings.TrimSpace(category) == "" {
		return nil, fmt.Errorf("%w: category", utils.ErrMissingRequiredField)
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("%w: no sub-chain assignments", utils.ErrMissingRequiredField)
	}

	chains := make(models.ChainBarcodes, len(selected))
	owner := make(map[string]string, len(selected))
	for key, listing := range selected {
		displayName := registry.ResolveDisplayName(key)
		if prev, ok := owner[displayName]; ok {
			return nil, fmt.Errorf("%w: %q is the display name of both %s and %s",
				utils.ErrDisplayNameCollision, displayName, prev, key)
		}
		owner[displayName] = key
		chains[displayName] = listing.ItemCode
	}

	return &models.CanonicalProduct{
		Name:        name,
		Category:    category,
		SubCategory: subCategory,
		Chains:      chains,
	}, nil
}

// Save validates and persists the canonical product under the given barcode.
// The pre-insert lookup gives the operator a clean DuplicateBarcode error for
// the common case; the store's unique constraint closes the remaining race
// against a concurrent session.
func (s *BuilderService) Save(ctx context.Context, name, category, subCategory string, selected map[string]models.Listing, registry *RegistrySnapshot, barcode int64) (*models.CanonicalProduct, error) {
	if barcode <= 0 {
		return nil, fmt.Errorf("%w: canonical barcode must be a positive integer", utils.ErrInvalidBarcode)
	}

	product, err := s.Preview(name, category, subCategory, selected, registry)
	if err != nil {
		return nil, err
	}

	existing, err := s.canonical.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, utils.ErrDuplicateBarcode
	}

	product.CanonicalBarcode = barcode
	product.CreatedAt = time.Now().UTC()
	if err := s.canonical.InsertUnique(ctx, product); err != nil {
		return nil, err
	}

	log.Info().
		Int64("barcode", barcode).
		Str("name", product.Name).
		Int("chains", len(product.Chains)).
		Msg("canonical product saved")
	return product, nil
}
