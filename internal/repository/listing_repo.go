package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/zivgin/canonical-product-builder/internal/models"
	"github.com/zivgin/canonical-product-builder/internal/utils"
)

// ListingRepository handles read access to the imported per-chain listings.
// The listings table is fed by an external price-file importer; this service
// never writes to it.
type ListingRepository struct {
	db *sqlx.DB
}

// NewListingRepository creates a new ListingRepository.
func NewListingRepository(db *sqlx.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

// Find returns listings whose name matches namePattern (case-insensitive
// POSIX regex). When excludePattern is non-empty, listings whose name matches
// it are rejected before the positive match. Results are capped at limit and
// ordered by item code for a stable scan order.
func (r *ListingRepository) Find(ctx context.Context, namePattern, excludePattern string, limit int) ([]models.Listing, error) {
	const q = `
        SELECT item_code, item_name, COALESCE(manufacturer_name, '') AS manufacturer_name, file_name
        FROM listings
        WHERE ($2 = '' OR item_name !~* $2)
        AND item_name ~* $1
        ORDER BY item_code
        LIMIT $3`

	var listings []models.Listing
	if err := r.db.SelectContext(ctx, &listings, q, namePattern, excludePattern, limit); err != nil {
		return nil, fmt.Errorf("%w: listing search: %v", utils.ErrStoreUnavailable, err)
	}
	return listings, nil
}

// DistinctCategories returns every category used by a saved canonical
// product, sorted. The vocabulary is derived rather than managed: a category
// exists once some product was saved with it.
func (r *ListingRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "category")
}

// DistinctSubCategories returns every non-empty sub-category in use, sorted.
func (r *ListingRepository) DistinctSubCategories(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "sub_category")
}

func (r *ListingRepository) distinct(ctx context.Context, column string) ([]string, error) {
	// column is one of two fixed identifiers above, never user input.
	q := fmt.Sprintf(`
        SELECT DISTINCT %s FROM canonical_products
        WHERE %s <> '' ORDER BY %s`, column, column, column)

	var values []string
	if err := r.db.SelectContext(ctx, &values, q); err != nil {
		return nil, fmt.Errorf("%w: distinct %s: %v", utils.ErrStoreUnavailable, column, err)
	}
	return values, nil
}
