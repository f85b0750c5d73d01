package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/zivgin/canonical-product-builder/internal/models"
	"github.com/zivgin/canonical-product-builder/internal/utils"
)

// uniqueViolation is the PostgreSQL error code raised when the unique
// constraint on canonical_barcode rejects an insert.
const uniqueViolation = "23505"

// CanonicalRepository handles storage of canonical product records.
type CanonicalRepository struct {
	db *sqlx.DB
}

// NewCanonicalRepository creates a new CanonicalRepository.
func NewCanonicalRepository(db *sqlx.DB) *CanonicalRepository {
	return &CanonicalRepository{db: db}
}

// MaxBarcode returns the highest canonical barcode in the store, or
// (0, false) when no canonical product exists yet.
func (r *CanonicalRepository) MaxBarcode(ctx context.Context) (int64, bool, error) {
	const q = `SELECT MAX(canonical_barcode) FROM canonical_products`

	var max sql.NullInt64
	if err := r.db.GetContext(ctx, &max, q); err != nil {
		return 0, false, fmt.Errorf("%w: max barcode: %v", utils.ErrStoreUnavailable, err)
	}
	if !max.Valid {
		return 0, false, nil
	}
	return max.Int64, true, nil
}

// FindByBarcode returns the canonical product with the given barcode, or nil
// when none exists.
func (r *CanonicalRepository) FindByBarcode(ctx context.Context, barcode int64) (*models.CanonicalProduct, error) {
	const q = `
        SELECT canonical_barcode, name, category, COALESCE(sub_category, '') AS sub_category, chains, created_at
        FROM canonical_products
        WHERE canonical_barcode = $1`

	var p models.CanonicalProduct
	if err := r.db.GetContext(ctx, &p, q, barcode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: find barcode: %v", utils.ErrStoreUnavailable, err)
	}
	return &p, nil
}

// InsertUnique inserts a canonical product. Barcode uniqueness is enforced by
// the store's unique constraint, closing the race between two sessions that
// previewed the same barcode; a violation maps to ErrDuplicateBarcode.
func (r *CanonicalRepository) InsertUnique(ctx context.Context, p *models.CanonicalProduct) error {
	const q = `
        INSERT INTO canonical_products (canonical_barcode, name, category, sub_category, chains, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, q,
		p.CanonicalBarcode, p.Name, p.Category, p.SubCategory, p.Chains, p.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return utils.ErrDuplicateBarcode
		}
		return fmt.Errorf("%w: insert canonical product: %v", utils.ErrStoreUnavailable, err)
	}
	return nil
}
