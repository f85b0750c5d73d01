package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zivgin/canonical-product-builder/internal/service"
	"github.com/zivgin/canonical-product-builder/internal/utils"
)

// CanonicalHandler exposes preview and save of canonical products for a
// workflow session.
type CanonicalHandler struct {
	sessions *service.SessionManager
}

// NewCanonicalHandler creates a new CanonicalHandler.
func NewCanonicalHandler(sessions *service.SessionManager) *CanonicalHandler {
	return &CanonicalHandler{sessions: sessions}
}

// PreviewRequest carries the operator-entered product fields.
type PreviewRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	SubCategory string `json:"subCategory"`
}

// Preview assembles the canonical product document without persisting it.
// POST /v1/sessions/:id/preview
func (h *CanonicalHandler) Preview(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid preview payload")
		return
	}

	product, err := h.sessions.Preview(c.Param("id"), req.Name, req.Category, req.SubCategory)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Canonical product preview", product)
}

// SaveRequest carries the product fields plus an optional barcode override.
// A zero barcode means "use the session's suggested barcode".
type SaveRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	SubCategory string `json:"subCategory"`
	Barcode     int64  `json:"barcode"`
}

// Save validates and persists the canonical product, then resets the
// session's assignment state for the next product.
// POST /v1/sessions/:id/save
func (h *CanonicalHandler) Save(c *gin.Context) {
	var req SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid save payload")
		return
	}
	if req.Barcode < 0 {
		utils.Error(c, http.StatusBadRequest, "INVALID_BARCODE", "barcode must be a positive integer")
		return
	}

	product, err := h.sessions.Save(c.Request.Context(), c.Param("id"), req.Name, req.Category, req.SubCategory, req.Barcode)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "Canonical product saved", product)
}
