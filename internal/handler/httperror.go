package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jcabrera-io/wayfarer/internal/domain"
)

// respondError maps a failure to its external classification and writes
// exactly one {"message": ...} error body. Every handler funnels failures it
// does not special-case through here, so nothing is reported twice or
// swallowed.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeMessage(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrDuplicateEmail):
		writeMessage(w, http.StatusUnprocessableEntity, "User exists already.")
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenMalformed):
		writeMessage(w, http.StatusUnauthorized, "Authorization failed.")
	case errors.Is(err, domain.ErrForbidden):
		writeMessage(w, http.StatusForbidden, "You are not allowed to modify this resource.")
	case errors.Is(err, domain.ErrOwnerNotFound):
		writeMessage(w, http.StatusNotFound, "Could not find user for provided id.")
	case errors.Is(err, domain.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Could not find the requested resource.")
	case errors.Is(err, domain.ErrGeocodeFailure):
		writeMessage(w, http.StatusBadGateway, "Could not resolve the provided address.")
	case errors.Is(err, domain.ErrDependencyTimeout):
		writeMessage(w, http.StatusGatewayTimeout, "A required service did not respond in time.")
	case errors.Is(err, domain.ErrConsistency):
		slog.Error("consistency write failure", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Saving changes failed, please try again.")
	default:
		slog.Error("unhandled error", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Unknown error occurred!")
	}
}
