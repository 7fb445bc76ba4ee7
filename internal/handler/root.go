package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"workspace/internal/httputil"
)

// APIVersion is the only API version served.
const APIVersion = "v1"

// Pinger reports whether a dependency is reachable. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RootHandler serves the unauthenticated discovery and health endpoints
type RootHandler struct {
	db     Pinger
	logger *slog.Logger
}

// NewRootHandler creates a new root handler. db may be nil.
func NewRootHandler(db Pinger, logger *slog.Logger) *RootHandler {
	return &RootHandler{db: db, logger: logger}
}

type apiVersion struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Versions lists the API versions
// GET /
func (h *RootHandler) Versions(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"versions": []apiVersion{{ID: APIVersion, Status: "CURRENT"}},
	})
}

// Resources lists the top-level collections of the v1 API
// GET /v1/
func (h *RootHandler) Resources(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, []string{"folders", "folder_items", "services"})
}

// HealthCheck is a simple health check endpoint
// GET /health
func (h *RootHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			h.logger.Warn("health check failed", "error", err)
			httputil.RespondJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status": "unavailable",
				"time":   time.Now().UTC(),
			})
			return
		}
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC(),
	})
}
