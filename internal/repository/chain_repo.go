package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/zivgin/canonical-product-builder/internal/models"
	"github.com/zivgin/canonical-product-builder/internal/utils"
)

// ChainRepository handles read access to the chain registry tables.
type ChainRepository struct {
	db *sqlx.DB
}

// NewChainRepository creates a new ChainRepository.
func NewChainRepository(db *sqlx.DB) *ChainRepository {
	return &ChainRepository{db: db}
}

// ListChains returns all configured chains.
func (r *ChainRepository) ListChains(ctx context.Context) ([]models.Chain, error) {
	const q = `SELECT id, chain_name FROM chains ORDER BY id`

	var chains []models.Chain
	if err := r.db.SelectContext(ctx, &chains, q); err != nil {
		return nil, fmt.Errorf("%w: list chains: %v", utils.ErrStoreUnavailable, err)
	}
	return chains, nil
}

// ListSubChains returns all configured sub-chains.
func (r *ChainRepository) ListSubChains(ctx context.Context) ([]models.SubChain, error) {
	const q = `SELECT chain_id, id, COALESCE(sub_chain_name, '') AS sub_chain_name FROM sub_chains ORDER BY chain_id, id`

	var subChains []models.SubChain
	if err := r.db.SelectContext(ctx, &subChains, q); err != nil {
		return nil, fmt.Errorf("%w: list sub-chains: %v", utils.ErrStoreUnavailable, err)
	}
	return subChains, nil
}
