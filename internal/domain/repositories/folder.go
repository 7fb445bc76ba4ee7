package repositories

import (
	"context"

	"github.com/google/uuid"
	"workspace/internal/domain/models"
)

// FolderFilter narrows a folder listing. The owner is not part of the filter:
// every method takes it separately and always applies it.
type FolderFilter struct {
	SystemType *models.SystemFolderType
	Title      *string
}

// FolderRepository defines data access operations for folders.
// Every read and write is scoped by userID; rows of other users behave as missing.
type FolderRepository interface {
	// Create inserts a folder. A second "all" folder for the same user is a ConflictError.
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder owned by userID
	GetByID(ctx context.Context, userID int32, id uuid.UUID) (*models.Folder, error)

	// GetAllFolder retrieves the user's "all" system folder
	GetAllFolder(ctx context.Context, userID int32) (*models.Folder, error)

	// List returns the user's folders matching filter, oldest first
	List(ctx context.Context, userID int32, filter FolderFilter) ([]models.Folder, error)

	// Update persists mutable attributes of a folder owned by folder.UserID
	Update(ctx context.Context, folder *models.Folder) error

	// Delete removes a folder owned by userID together with all of its items
	Delete(ctx context.Context, userID int32, id uuid.UUID) error
}
