package handler

import (
	"log/slog"
	"net/http"

	"workspace/internal/domain/services"
	"workspace/internal/httputil"
)

// CatalogHandler handles catalog service HTTP requests
type CatalogHandler struct {
	catalog services.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog services.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// CreateService POST /v1/services
func (h *CatalogHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	var req services.CreateCatalogServiceRequest
	if !parseBody(w, r, &req) {
		return
	}

	svc, err := h.catalog.CreateService(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, svc)
}

// ListServices GET /v1/services
func (h *CatalogHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	list, err := h.catalog.ListServices(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, list)
}

// GetService GET /v1/services/{uuid}
func (h *CatalogHandler) GetService(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}
	id, ok := pathUUID(w, r, "uuid")
	if !ok {
		return
	}

	svc, err := h.catalog.GetService(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, svc)
}

// UpdateService PATCH /v1/services/{uuid}
func (h *CatalogHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}
	id, ok := pathUUID(w, r, "uuid")
	if !ok {
		return
	}

	var req services.UpdateCatalogServiceRequest
	if !parseBody(w, r, &req) {
		return
	}

	svc, err := h.catalog.UpdateService(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, svc)
}

// DeleteService DELETE /v1/services/{uuid}
func (h *CatalogHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}
	id, ok := pathUUID(w, r, "uuid")
	if !ok {
		return
	}

	if err := h.catalog.DeleteService(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
