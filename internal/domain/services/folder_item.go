package services

import (
	"context"

	"github.com/google/uuid"
	"workspace/internal/domain/models"
	"workspace/internal/httputil"
)

// FolderItemService handles folder item business logic, scoped by userID.
type FolderItemService interface {
	// CreateItem adds a chat to a folder the user owns
	CreateItem(ctx context.Context, userID int32, req *CreateFolderItemRequest) (*models.FolderItem, error)

	// GetItem retrieves an item. A non-nil folderID additionally requires the
	// item to live in that folder (nested routes).
	GetItem(ctx context.Context, userID int32, folderID *uuid.UUID, id uuid.UUID) (*models.FolderItem, error)

	// ListItems lists the user's items across or within folders
	ListItems(ctx context.Context, userID int32, req *ListFolderItemsRequest) ([]models.FolderItem, error)

	// UpdateItem applies a partial update, re-validating folder ownership on reassignment
	UpdateItem(ctx context.Context, userID int32, folderID *uuid.UUID, id uuid.UUID, req *UpdateFolderItemRequest) (*models.FolderItem, error)

	// DeleteItem removes an item
	DeleteItem(ctx context.Context, userID int32, folderID *uuid.UUID, id uuid.UUID) error

	// PinItem sets pinned_at to now (UTC). Re-pinning refreshes the timestamp.
	PinItem(ctx context.Context, userID int32, folderID *uuid.UUID, id uuid.UUID) (*models.FolderItem, error)

	// UnpinItem clears pinned_at. Unpinning an unpinned item is a no-op.
	UnpinItem(ctx context.Context, userID int32, folderID *uuid.UUID, id uuid.UUID) (*models.FolderItem, error)
}

// CreateFolderItemRequest represents an item creation request
type CreateFolderItemRequest struct {
	FolderUUID uuid.UUID `json:"folder_uuid"`
	ChatID     *int32    `json:"chat_id"`
	OrderIndex *int32    `json:"order_index,omitempty"`
}

// UpdateFolderItemRequest represents a partial item update
type UpdateFolderItemRequest struct {
	FolderUUID *uuid.UUID               `json:"folder_uuid,omitempty"`
	ChatID     *int32                   `json:"chat_id,omitempty"`
	OrderIndex httputil.Optional[int32] `json:"order_index"`
}

// ListFolderItemsRequest carries optional equality filters
type ListFolderItemsRequest struct {
	FolderUUID *uuid.UUID
	ChatID     *int32
	Pinned     *bool
}
