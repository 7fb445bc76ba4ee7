package services

import (
	"context"

	"github.com/google/uuid"
	"workspace/internal/domain/models"
	"workspace/internal/httputil"
)

// CatalogService manages the catalog of external services
type CatalogService interface {
	CreateService(ctx context.Context, req *CreateCatalogServiceRequest) (*models.CatalogService, error)
	GetService(ctx context.Context, id uuid.UUID) (*models.CatalogService, error)
	ListServices(ctx context.Context) ([]models.CatalogService, error)
	UpdateService(ctx context.Context, id uuid.UUID, req *UpdateCatalogServiceRequest) (*models.CatalogService, error)
	DeleteService(ctx context.Context, id uuid.UUID) error
}

// CreateCatalogServiceRequest represents a catalog entry creation request
type CreateCatalogServiceRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	ServiceURL  string  `json:"service_url"`
	Icon        *string `json:"icon,omitempty"`
}

// UpdateCatalogServiceRequest represents a partial catalog entry update
type UpdateCatalogServiceRequest struct {
	Name        *string                   `json:"name,omitempty"`
	Description httputil.Optional[string] `json:"description"`
	ServiceURL  *string                   `json:"service_url,omitempty"`
	Icon        httputil.Optional[string] `json:"icon"`
}
