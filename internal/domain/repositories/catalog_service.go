package repositories

import (
	"context"

	"github.com/google/uuid"
	"workspace/internal/domain/models"
)

// CatalogServiceRepository defines data access operations for catalog entries
type CatalogServiceRepository interface {
	Create(ctx context.Context, svc *models.CatalogService) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.CatalogService, error)
	List(ctx context.Context) ([]models.CatalogService, error)
	Update(ctx context.Context, svc *models.CatalogService) error
	Delete(ctx context.Context, id uuid.UUID) error
}
