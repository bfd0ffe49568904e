package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrOwnerNotFound     = errors.New("owner not found")
	ErrGeocodeFailure    = errors.New("address could not be resolved")
	ErrConsistency       = errors.New("linked write could not be committed")
	ErrInvalidInput      = errors.New("invalid input")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrDependencyTimeout = errors.New("dependency timed out")

	// Token verification failures. The auth middleware collapses all three
	// into a single 401 so callers cannot tell them apart.
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token invalid")
	ErrTokenMalformed = errors.New("token malformed")
)
