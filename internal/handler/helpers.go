package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"workspace/internal/domain"
	"workspace/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	if !httputil.RespondDomainError(w, err) {
		slog.Error("unhandled error", "error", err)
	}
}

// requireUserID returns the caller resolved by the ownership middleware.
// It writes a 401 and returns false when the request has no identity.
func requireUserID(w http.ResponseWriter, r *http.Request) (int32, bool) {
	id, ok := httputil.GetIdentity(r)
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, domain.KindUnauthorized, "authentication required")
		return 0, false
	}
	return id.UserID, true
}

// pathUUID parses a path wildcard, writing a 400 on failure.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := httputil.PathUUID(r, name)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, domain.KindValidation, err.Error())
		return uuid.Nil, false
	}
	return id, true
}

// parseBody decodes the JSON body, writing a 400 on failure.
func parseBody(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := httputil.ParseJSON(w, r, dest); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, domain.KindValidation, err.Error())
		return false
	}
	return true
}

func badQuery(w http.ResponseWriter, err error) {
	httputil.RespondError(w, http.StatusBadRequest, domain.KindValidation, err.Error())
}
