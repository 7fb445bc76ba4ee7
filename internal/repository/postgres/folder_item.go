package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"workspace/internal/domain"
	"workspace/internal/domain/models"
	"workspace/internal/domain/repositories"
)

const folderItemColumns = `uuid, folder, user_id, chat_id, order_index, pinned_at, created_at, updated_at`

// PostgresFolderItemRepository implements the FolderItemRepository interface
type PostgresFolderItemRepository struct {
	pool   repositories.Pool
	logger *slog.Logger
}

// NewFolderItemRepository creates a new folder item repository
func NewFolderItemRepository(config *RepositoryConfig) repositories.FolderItemRepository {
	return &PostgresFolderItemRepository{
		pool:   config.Pool,
		logger: config.Logger,
	}
}

// Create inserts an item. chat_id_folder_idx rejects a second copy of the
// same chat in the same folder, including under concurrent inserts.
func (r *PostgresFolderItemRepository) Create(ctx context.Context, item *models.FolderItem) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (uuid, folder, user_id, chat_id, order_index, pinned_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, folderItemsTable)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		item.UUID,
		item.FolderUUID,
		item.UserID,
		item.ChatID,
		item.OrderIndex,
		item.PinnedAt,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		return translateWriteError(err, "create folder item", item.UUID.String())
	}

	return nil
}

// GetByID retrieves an item owned by userID
func (r *PostgresFolderItemRepository) GetByID(ctx context.Context, userID int32, id uuid.UUID) (*models.FolderItem, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE uuid = $1 AND user_id = $2
	`, folderItemColumns, folderItemsTable)

	executor := GetExecutor(ctx, r.pool)
	item, err := scanFolderItem(executor.QueryRow(ctx, query, id, userID))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("folder item %s: %w", id, domain.NewNotFoundError("folder item not found"))
		}
		return nil, fmt.Errorf("get folder item: %w", err)
	}

	return item, nil
}

// List returns the user's items matching filter, pinned first (most recent pin
// first), then by order_index and creation time.
func (r *PostgresFolderItemRepository) List(ctx context.Context, userID int32, filter repositories.FolderItemFilter) ([]models.FolderItem, error) {
	conditions := []string{"user_id = $1"}
	args := []any{userID}

	if filter.FolderUUID != nil {
		args = append(args, *filter.FolderUUID)
		conditions = append(conditions, fmt.Sprintf("folder = $%d", len(args)))
	}
	if filter.ChatID != nil {
		args = append(args, *filter.ChatID)
		conditions = append(conditions, fmt.Sprintf("chat_id = $%d", len(args)))
	}
	if filter.Pinned != nil {
		if *filter.Pinned {
			conditions = append(conditions, "pinned_at IS NOT NULL")
		} else {
			conditions = append(conditions, "pinned_at IS NULL")
		}
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s
		ORDER BY pinned_at DESC NULLS LAST, order_index ASC NULLS LAST, created_at ASC, uuid ASC
	`, folderItemColumns, folderItemsTable, strings.Join(conditions, " AND "))

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list folder items: %w", err)
	}
	defer rows.Close()

	items := []models.FolderItem{}
	for rows.Next() {
		item, err := scanFolderItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder item: %w", err)
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folder items: %w", err)
	}

	return items, nil
}

// Update persists folder, chat_id and order_index of an item owned by item.UserID
func (r *PostgresFolderItemRepository) Update(ctx context.Context, item *models.FolderItem) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET folder = $1, chat_id = $2, order_index = $3, updated_at = $4
		WHERE uuid = $5 AND user_id = $6
	`, folderItemsTable)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		item.FolderUUID,
		item.ChatID,
		item.OrderIndex,
		item.UpdatedAt,
		item.UUID,
		item.UserID,
	)
	if err != nil {
		return translateWriteError(err, "update folder item", item.UUID.String())
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder item %s: %w", item.UUID, domain.NewNotFoundError("folder item not found"))
	}

	return nil
}

// SetPinnedAt sets or clears pinned_at and returns the updated row
func (r *PostgresFolderItemRepository) SetPinnedAt(ctx context.Context, userID int32, id uuid.UUID, pinnedAt *time.Time) (*models.FolderItem, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET pinned_at = $1, updated_at = NOW()
		WHERE uuid = $2 AND user_id = $3
		RETURNING %s
	`, folderItemsTable, folderItemColumns)

	executor := GetExecutor(ctx, r.pool)
	item, err := scanFolderItem(executor.QueryRow(ctx, query, pinnedAt, id, userID))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("folder item %s: %w", id, domain.NewNotFoundError("folder item not found"))
		}
		return nil, fmt.Errorf("set pinned_at: %w", err)
	}

	return item, nil
}

// Delete removes an item owned by userID
func (r *PostgresFolderItemRepository) Delete(ctx context.Context, userID int32, id uuid.UUID) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE uuid = $1 AND user_id = $2
	`, folderItemsTable)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete folder item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder item %s: %w", id, domain.NewNotFoundError("folder item not found"))
	}

	return nil
}

// scanFolderItem reads one row selected with folderItemColumns
func scanFolderItem(row pgx.Row) (*models.FolderItem, error) {
	var item models.FolderItem
	err := row.Scan(
		&item.UUID,
		&item.FolderUUID,
		&item.UserID,
		&item.ChatID,
		&item.OrderIndex,
		&item.PinnedAt,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
