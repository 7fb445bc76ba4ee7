package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"workspace/internal/domain"
	"workspace/internal/domain/models"
	"workspace/internal/domain/repositories"
)

const catalogServiceColumns = `uuid, name, description, service_url, icon, created_at, updated_at`

// PostgresCatalogServiceRepository implements the CatalogServiceRepository interface
type PostgresCatalogServiceRepository struct {
	pool   repositories.Pool
	logger *slog.Logger
}

// NewCatalogServiceRepository creates a new catalog repository
func NewCatalogServiceRepository(config *RepositoryConfig) repositories.CatalogServiceRepository {
	return &PostgresCatalogServiceRepository{
		pool:   config.Pool,
		logger: config.Logger,
	}
}

func (r *PostgresCatalogServiceRepository) Create(ctx context.Context, svc *models.CatalogService) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (uuid, name, description, service_url, icon, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, catalogServicesTable)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		svc.UUID,
		svc.Name,
		svc.Description,
		svc.ServiceURL,
		svc.Icon,
		svc.CreatedAt,
		svc.UpdatedAt,
	)
	if err != nil {
		return translateWriteError(err, "create catalog service", svc.UUID.String())
	}
	return nil
}

func (r *PostgresCatalogServiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.CatalogService, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE uuid = $1
	`, catalogServiceColumns, catalogServicesTable)

	executor := GetExecutor(ctx, r.pool)
	svc, err := scanCatalogService(executor.QueryRow(ctx, query, id))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("service %s: %w", id, domain.NewNotFoundError("service not found"))
		}
		return nil, fmt.Errorf("get catalog service: %w", err)
	}
	return svc, nil
}

func (r *PostgresCatalogServiceRepository) List(ctx context.Context) ([]models.CatalogService, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY name ASC, uuid ASC
	`, catalogServiceColumns, catalogServicesTable)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list catalog services: %w", err)
	}
	defer rows.Close()

	services := []models.CatalogService{}
	for rows.Next() {
		svc, err := scanCatalogService(rows)
		if err != nil {
			return nil, fmt.Errorf("scan catalog service: %w", err)
		}
		services = append(services, *svc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog services: %w", err)
	}
	return services, nil
}

func (r *PostgresCatalogServiceRepository) Update(ctx context.Context, svc *models.CatalogService) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, description = $2, service_url = $3, icon = $4, updated_at = $5
		WHERE uuid = $6
	`, catalogServicesTable)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		svc.Name,
		svc.Description,
		svc.ServiceURL,
		svc.Icon,
		svc.UpdatedAt,
		svc.UUID,
	)
	if err != nil {
		return translateWriteError(err, "update catalog service", svc.UUID.String())
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("service %s: %w", svc.UUID, domain.NewNotFoundError("service not found"))
	}
	return nil
}

func (r *PostgresCatalogServiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE uuid = $1`, catalogServicesTable)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete catalog service: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("service %s: %w", id, domain.NewNotFoundError("service not found"))
	}
	return nil
}

func scanCatalogService(row pgx.Row) (*models.CatalogService, error) {
	var svc models.CatalogService
	err := row.Scan(
		&svc.UUID,
		&svc.Name,
		&svc.Description,
		&svc.ServiceURL,
		&svc.Icon,
		&svc.CreatedAt,
		&svc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &svc, nil
}
