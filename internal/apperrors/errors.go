package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidState indicates an operation was attempted from a status that does not allow it.
var ErrInvalidState = errors.New("invalid state for operation")

// ErrDiscrepancyPending indicates receiver verification found discrepancies that the caller
// has not yet confirmed. The concrete error carries the discrepancy list.
var ErrDiscrepancyPending = errors.New("discrepancies require confirmation")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")
