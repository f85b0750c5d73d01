package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zivgin/canonical-product-builder/internal/models"
	"github.com/zivgin/canonical-product-builder/internal/service"
	"github.com/zivgin/canonical-product-builder/internal/utils"
)

// SessionHandler exposes the workflow session operations: search, assignment
// and lifecycle. It is a thin layer over the session manager.
type SessionHandler struct {
	sessions *service.SessionManager
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions *service.SessionManager) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// CreateSession starts a new workflow session.
// POST /v1/sessions
func (h *SessionHandler) CreateSession(c *gin.Context) {
	status, err := h.sessions.Create(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "Session created", status)
}

// GetSession returns the session's current assignment status.
// GET /v1/sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	status, err := h.sessions.Status(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Session status", status)
}

// DeleteSession discards the session.
// DELETE /v1/sessions/:id
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	if err := h.sessions.Discard(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Session discarded", nil)
}

// SearchRequest is the payload for a session-scoped catalog search.
type SearchRequest struct {
	Term         string   `json:"term" binding:"required"`
	ExcludeWords []string `json:"excludeWords"`
}

// Search runs a catalog search excluding already-assigned sub-chains.
// POST /v1/sessions/:id/search
func (h *SessionHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "term is required")
		return
	}

	candidates, err := h.sessions.Search(c.Request.Context(), c.Param("id"), req.Term, req.ExcludeWords)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithTotal(c, http.StatusOK, "Search results", candidates, len(candidates))
}

// AssignRequest selects one listing for one sub-chain.
type AssignRequest struct {
	SubChainKey string         `json:"subChainKey" binding:"required"`
	Listing     models.Listing `json:"listing" binding:"required"`
}

// Assign records a listing as the sub-chain's representative.
// POST /v1/sessions/:id/assign
func (h *SessionHandler) Assign(c *gin.Context) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "subChainKey and listing are required")
		return
	}

	if err := h.sessions.Assign(c.Param("id"), req.SubChainKey, req.Listing); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Listing assigned", nil)
}

// UnassignRequest clears one sub-chain's selection.
type UnassignRequest struct {
	SubChainKey string `json:"subChainKey" binding:"required"`
}

// Unassign removes the selection for a sub-chain. Idempotent.
// POST /v1/sessions/:id/unassign
func (h *SessionHandler) Unassign(c *gin.Context) {
	var req UnassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "subChainKey is required")
		return
	}

	if err := h.sessions.Unassign(c.Param("id"), req.SubChainKey); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Listing unassigned", nil)
}

// AutoAssignRequest triggers exact-name auto-assignment.
type AutoAssignRequest struct {
	Name string `json:"name" binding:"required"`
}

// AutoAssign assigns every exact-name match whose sub-chain is unassigned.
// POST /v1/sessions/:id/auto-assign
func (h *SessionHandler) AutoAssign(c *gin.Context) {
	var req AutoAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "name is required")
		return
	}

	assigned, err := h.sessions.AutoAssign(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Auto-assignment completed", gin.H{"assigned": assigned})
}

// Reset clears all selections in the session.
// POST /v1/sessions/:id/reset
func (h *SessionHandler) Reset(c *gin.Context) {
	if err := h.sessions.Reset(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Session reset", nil)
}
