package httputil

import (
	"errors"
	"net/http"

	"workspace/internal/domain"
)

// RespondDomainError renders err as a problem response. Errors carrying an
// HTTP status (domain.HTTPError) keep their status, kind and message; the
// bare sentinels map to their status; anything else is an opaque 500.
// It reports whether err was a known domain error.
func RespondDomainError(w http.ResponseWriter, err error) bool {
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		RespondError(w, httpErr.StatusCode(), httpErr.Kind(), err.Error())
		return true
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		RespondError(w, http.StatusBadRequest, domain.KindValidation, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		RespondError(w, http.StatusNotFound, domain.KindNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		RespondError(w, http.StatusConflict, domain.KindConflict, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		RespondError(w, http.StatusUnauthorized, domain.KindUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		RespondError(w, http.StatusForbidden, domain.KindForbidden, err.Error())
	default:
		RespondError(w, http.StatusInternalServerError, domain.KindInternal, "internal server error")
		return false
	}
	return true
}
