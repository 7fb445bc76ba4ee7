package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"workspace/internal/domain"
	"workspace/internal/domain/models"
	"workspace/internal/domain/repositories"
	"workspace/internal/domain/services"
)

type catalogService struct {
	repo   repositories.CatalogServiceRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewCatalogService creates a new catalog service
func NewCatalogService(repo repositories.CatalogServiceRepository, logger *slog.Logger) services.CatalogService {
	return &catalogService{
		repo:   repo,
		logger: logger,
		now:    utcNow,
	}
}

func (s *catalogService) CreateService(ctx context.Context, req *services.CreateCatalogServiceRequest) (*models.CatalogService, error) {
	svc, err := models.NewCatalogService(models.NewCatalogServiceParams{
		Name:        req.Name,
		Description: req.Description,
		ServiceURL:  req.ServiceURL,
		Icon:        req.Icon,
	}, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, svc); err != nil {
		return nil, err
	}

	s.logger.Info("catalog service created", "uuid", svc.UUID, "name", svc.Name)
	return svc, nil
}

func (s *catalogService) GetService(ctx context.Context, id uuid.UUID) (*models.CatalogService, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *catalogService) ListServices(ctx context.Context) ([]models.CatalogService, error) {
	return s.repo.List(ctx)
}

func (s *catalogService) UpdateService(ctx context.Context, id uuid.UUID, req *services.UpdateCatalogServiceRequest) (*models.CatalogService, error) {
	if req.Name == nil && !req.Description.Present && req.ServiceURL == nil && !req.Icon.Present {
		return nil, domain.NewValidationError("at least one field must be provided")
	}

	svc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		svc.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description.Present {
		svc.Description = req.Description.Value
	}
	if req.ServiceURL != nil {
		svc.ServiceURL = strings.TrimSpace(*req.ServiceURL)
	}
	if req.Icon.Present {
		svc.Icon = req.Icon.Value
	}

	if err := svc.Validate(); err != nil {
		return nil, err
	}

	svc.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, svc); err != nil {
		return nil, err
	}

	s.logger.Info("catalog service updated", "uuid", svc.UUID)
	return svc, nil
}

func (s *catalogService) DeleteService(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("catalog service deleted", "uuid", id)
	return nil
}
