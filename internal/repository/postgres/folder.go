package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"workspace/internal/domain"
	"workspace/internal/domain/models"
	"workspace/internal/domain/repositories"
)

const folderColumns = `uuid, title, user_id, background_color_value, unread_messages, system_type, created_at, updated_at`

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   repositories.Pool
	logger *slog.Logger
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		logger: config.Logger,
	}
}

// Create inserts a folder. The partial unique index on (user_id) WHERE
// system_type = 'all' decides concurrent "all" folder races.
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (uuid, title, user_id, background_color_value, unread_messages, system_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, foldersTable)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		folder.UUID,
		folder.Title,
		folder.UserID,
		folder.BackgroundColorValue,
		folder.UnreadMessages,
		systemTypeParam(folder.SystemType),
		folder.CreatedAt,
		folder.UpdatedAt,
	)
	if err != nil {
		return translateWriteError(err, "create folder", folder.UUID.String())
	}

	return nil
}

// GetByID retrieves a folder owned by userID
func (r *PostgresFolderRepository) GetByID(ctx context.Context, userID int32, id uuid.UUID) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE uuid = $1 AND user_id = $2
	`, folderColumns, foldersTable)

	executor := GetExecutor(ctx, r.pool)
	folder, err := scanFolder(executor.QueryRow(ctx, query, id, userID))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.NewNotFoundError("folder not found"))
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return folder, nil
}

// GetAllFolder retrieves the user's "all" system folder
func (r *PostgresFolderRepository) GetAllFolder(ctx context.Context, userID int32) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE user_id = $1 AND system_type = $2
		ORDER BY created_at ASC, uuid ASC
		LIMIT 1
	`, folderColumns, foldersTable)

	executor := GetExecutor(ctx, r.pool)
	folder, err := scanFolder(executor.QueryRow(ctx, query, userID, string(models.SystemFolderAll)))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("all folder of user %d: %w", userID, domain.NewNotFoundError("folder not found"))
		}
		return nil, fmt.Errorf("get all folder: %w", err)
	}

	return folder, nil
}

// List returns the user's folders matching filter. user_id is always the first predicate.
func (r *PostgresFolderRepository) List(ctx context.Context, userID int32, filter repositories.FolderFilter) ([]models.Folder, error) {
	conditions := []string{"user_id = $1"}
	args := []any{userID}

	if filter.SystemType != nil {
		args = append(args, string(*filter.SystemType))
		conditions = append(conditions, fmt.Sprintf("system_type = $%d", len(args)))
	}
	if filter.Title != nil {
		args = append(args, *filter.Title)
		conditions = append(conditions, fmt.Sprintf("title = $%d", len(args)))
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s
		ORDER BY created_at ASC, uuid ASC
	`, folderColumns, foldersTable, strings.Join(conditions, " AND "))

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	folders := []models.Folder{}
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, *folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

// Update persists mutable attributes of a folder owned by folder.UserID
func (r *PostgresFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, background_color_value = $2, unread_messages = $3, system_type = $4, updated_at = $5
		WHERE uuid = $6 AND user_id = $7
	`, foldersTable)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		folder.Title,
		folder.BackgroundColorValue,
		folder.UnreadMessages,
		systemTypeParam(folder.SystemType),
		folder.UpdatedAt,
		folder.UUID,
		folder.UserID,
	)
	if err != nil {
		return translateWriteError(err, "update folder", folder.UUID.String())
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", folder.UUID, domain.NewNotFoundError("folder not found"))
	}

	return nil
}

// Delete removes a folder owned by userID. folder_items.folder is declared
// ON DELETE CASCADE, so the items go in the same statement.
func (r *PostgresFolderRepository) Delete(ctx context.Context, userID int32, id uuid.UUID) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE uuid = $1 AND user_id = $2
	`, foldersTable)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.NewNotFoundError("folder not found"))
	}

	return nil
}

// scanFolder reads one row selected with folderColumns
func scanFolder(row pgx.Row) (*models.Folder, error) {
	var folder models.Folder
	var systemType *string
	err := row.Scan(
		&folder.UUID,
		&folder.Title,
		&folder.UserID,
		&folder.BackgroundColorValue,
		&folder.UnreadMessages,
		&systemType,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if systemType != nil {
		t := models.SystemFolderType(*systemType)
		folder.SystemType = &t
	}
	if folder.UnreadMessages == nil {
		folder.UnreadMessages = []int32{}
	}

	return &folder, nil
}

func systemTypeParam(t *models.SystemFolderType) *string {
	if t == nil {
		return nil
	}
	s := string(*t)
	return &s
}
