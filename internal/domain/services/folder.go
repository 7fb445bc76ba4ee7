package services

import (
	"context"

	"github.com/google/uuid"
	"workspace/internal/domain/models"
	"workspace/internal/httputil"
)

// FolderService handles folder business logic. Every method acts on behalf of
// userID and never sees another user's folders.
type FolderService interface {
	// CreateFolder creates a new folder
	CreateFolder(ctx context.Context, userID int32, req *CreateFolderRequest) (*models.Folder, error)

	// GetFolder retrieves a folder
	GetFolder(ctx context.Context, userID int32, id uuid.UUID) (*models.Folder, error)

	// ListFolders lists the user's folders
	ListFolders(ctx context.Context, userID int32, req *ListFoldersRequest) ([]models.Folder, error)

	// UpdateFolder applies a partial update
	UpdateFolder(ctx context.Context, userID int32, id uuid.UUID, req *UpdateFolderRequest) (*models.Folder, error)

	// DeleteFolder deletes a folder and all its items
	DeleteFolder(ctx context.Context, userID int32, id uuid.UUID) error

	// EnsureAllFolder returns the user's "all" folder, provisioning it if missing
	EnsureAllFolder(ctx context.Context, userID int32) (*models.Folder, error)
}

// CreateFolderRequest represents a folder creation request.
// An absent system_type means "created"; an explicit null means none.
type CreateFolderRequest struct {
	Title                string                    `json:"title"`
	BackgroundColorValue *int64                    `json:"background_color_value,omitempty"`
	UnreadMessages       []int32                   `json:"unread_messages,omitempty"`
	SystemType           httputil.Optional[string] `json:"system_type"`
}

// UpdateFolderRequest represents a partial folder update
type UpdateFolderRequest struct {
	Title                *string                   `json:"title,omitempty"`
	BackgroundColorValue httputil.Optional[int64]  `json:"background_color_value"`
	UnreadMessages       *[]int32                  `json:"unread_messages,omitempty"`
	SystemType           httputil.Optional[string] `json:"system_type"`
}

// ListFoldersRequest carries optional equality filters
type ListFoldersRequest struct {
	SystemType *string
	Title      *string
}
