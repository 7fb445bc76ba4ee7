package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"workspace/internal/domain/models"
)

// FolderItemFilter narrows an item listing. The owner is always applied separately.
type FolderItemFilter struct {
	FolderUUID *uuid.UUID
	ChatID     *int32
	Pinned     *bool
}

// FolderItemRepository defines data access operations for folder items.
// Every read and write is scoped by userID.
type FolderItemRepository interface {
	// Create inserts an item. A duplicate (chat_id, folder) is a ConflictError;
	// a folder that no longer exists is a NotFoundError.
	Create(ctx context.Context, item *models.FolderItem) error

	// GetByID retrieves an item owned by userID
	GetByID(ctx context.Context, userID int32, id uuid.UUID) (*models.FolderItem, error)

	// List returns the user's items matching filter
	List(ctx context.Context, userID int32, filter FolderItemFilter) ([]models.FolderItem, error)

	// Update persists folder, chat_id and order_index of an item owned by item.UserID
	Update(ctx context.Context, item *models.FolderItem) error

	// SetPinnedAt sets or clears (nil) pinned_at and returns the updated item
	SetPinnedAt(ctx context.Context, userID int32, id uuid.UUID, pinnedAt *time.Time) (*models.FolderItem, error)

	// Delete removes an item owned by userID
	Delete(ctx context.Context, userID int32, id uuid.UUID) error
}
