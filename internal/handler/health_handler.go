package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/zivgin/canonical-product-builder/internal/utils"
)

// HealthHandler reports service health.
type HealthHandler struct {
	db *sqlx.DB
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *sqlx.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// GetHealth returns service status including store reachability.
// GET /v1/health
func (h *HealthHandler) GetHealth(c *gin.Context) {
	status := "ok"
	code := http.StatusOK

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.PingContext(ctx); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	utils.Success(c, code, "health check", gin.H{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	})
}
