package services

import "errors"

// Service-level error taxonomy. Handlers translate these into HTTP statuses:
// ErrValidation -> 400, ErrNotFound -> 404, ErrDuplicate and ErrConflict -> 409.
// Anything else surfaces as 500 with a generic message.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("record not found")
	ErrDuplicate  = errors.New("duplicate record")
	ErrConflict   = errors.New("conflicting state")
)
