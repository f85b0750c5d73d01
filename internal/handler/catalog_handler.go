package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zivgin/canonical-product-builder/internal/repository"
	"github.com/zivgin/canonical-product-builder/internal/utils"
)

// CatalogHandler serves the vocabulary lookups the operator UI needs to
// populate its inputs: categories, sub-categories and the chain list.
type CatalogHandler struct {
	listings *repository.ListingRepository
	chains   *repository.ChainRepository
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(listings *repository.ListingRepository, chains *repository.ChainRepository) *CatalogHandler {
	return &CatalogHandler{listings: listings, chains: chains}
}

// GetCategories returns all categories used by saved canonical products.
// GET /v1/catalog/categories
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	categories, err := h.listings.DistinctCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithTotal(c, http.StatusOK, "Successfully retrieved categories", categories, len(categories))
}

// GetSubCategories returns all sub-categories used by saved canonical products.
// GET /v1/catalog/sub-categories
func (h *CatalogHandler) GetSubCategories(c *gin.Context) {
	subCategories, err := h.listings.DistinctSubCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithTotal(c, http.StatusOK, "Successfully retrieved sub-categories", subCategories, len(subCategories))
}

// GetChains returns all configured chains.
// GET /v1/catalog/chains
func (h *CatalogHandler) GetChains(c *gin.Context) {
	chains, err := h.chains.ListChains(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithTotal(c, http.StatusOK, "Successfully retrieved chains", chains, len(chains))
}
