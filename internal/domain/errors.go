package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// camp does not exist in the record store.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when a camp violates a domain invariant
// (missing required field, inverted age or date range, bad URL).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrUnauthorized is returned when the admin secret is missing or wrong.
// Handlers should map this to HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")
