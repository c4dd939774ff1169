package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. check-out not after check-in, guest count above capacity).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when a room or some of its dates cannot be reserved:
// the room is out of service, a date is already taken, or a concurrent booking
// claimed the dates first. Clients should offer "pick different dates".
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("room not available for dates")

// ErrIllegalTransition is returned when a booking status change is not allowed
// from its current status (e.g. cancelling a completed booking).
// Handlers should map this to HTTP 409.
var ErrIllegalTransition = errors.New("illegal status transition")

// ErrDuplicate is returned by repos when an insert violates a unique constraint
// (booking reference number, username, email).
var ErrDuplicate = errors.New("duplicate")

// ErrUnauthorized is returned when credentials or a bearer token are missing or invalid.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden is returned when the principal may not act on the resource.
var ErrForbidden = errors.New("forbidden")
