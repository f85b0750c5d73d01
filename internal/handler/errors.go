package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/zivgin/canonical-product-builder/internal/utils"
)

// respondError translates application errors into the standard envelope.
// Every core error surfaces to the operator; nothing is swallowed.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrSessionNotFound):
		utils.Error(c, http.StatusNotFound, "SESSION_NOT_FOUND", "Session does not exist or has expired")
	case errors.Is(err, utils.ErrAssignmentConflict):
		utils.Error(c, http.StatusConflict, "ASSIGNMENT_CONFLICT", err.Error())
	case errors.Is(err, utils.ErrDuplicateBarcode):
		utils.Error(c, http.StatusConflict, "DUPLICATE_BARCODE", "Canonical barcode already exists")
	case errors.Is(err, utils.ErrMissingRequiredField):
		utils.Error(c, http.StatusBadRequest, "MISSING_REQUIRED_FIELD", err.Error())
	case errors.Is(err, utils.ErrDisplayNameCollision):
		utils.Error(c, http.StatusConflict, "DISPLAY_NAME_COLLISION", err.Error())
	case errors.Is(err, utils.ErrInvalidBarcode):
		utils.Error(c, http.StatusBadRequest, "INVALID_BARCODE", err.Error())
	case errors.Is(err, utils.ErrUnknownSubChain):
		utils.Error(c, http.StatusBadRequest, "UNKNOWN_SUB_CHAIN", "Listing does not belong to the stated sub-chain")
	case errors.Is(err, utils.ErrStoreUnavailable):
		log.Error().Err(err).Msg("store unavailable")
		utils.Error(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Backing store is unreachable, try again")
	default:
		log.Error().Err(err).Msg("unhandled error")
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}
