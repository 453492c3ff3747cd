package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// journey does not exist or belongs to someone else. The two cases are
// indistinguishable. Handlers map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. empty location list, latitude out of range).
// Handlers map this to HTTP 400 Bad Request.
var ErrValidation = errors.New("validation error")

// ErrUnauthorized is returned when an operation that requires an
// authenticated caller runs without one. Handlers map this to HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")

// ErrNotConfigured is returned when an external service credential is
// missing from the server configuration. Handlers map this to HTTP 500.
var ErrNotConfigured = errors.New("not configured")
