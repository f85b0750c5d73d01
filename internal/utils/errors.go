package utils

import "errors"

// Common application errors used across services.
var (
	ErrStoreUnavailable     = errors.New("STORE_UNAVAILABLE")
	ErrDuplicateBarcode     = errors.New("DUPLICATE_BARCODE")
	ErrMissingRequiredField = errors.New("MISSING_REQUIRED_FIELD")
	ErrAssignmentConflict   = errors.New("ASSIGNMENT_CONFLICT")
	ErrDisplayNameCollision = errors.New("DISPLAY_NAME_COLLISION")
	ErrInvalidBarcode       = errors.New("INVALID_BARCODE")
	ErrSessionNotFound      = errors.New("SESSION_NOT_FOUND")
	ErrUnknownSubChain      = errors.New("UNKNOWN_SUB_CHAIN")
)
