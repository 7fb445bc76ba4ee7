package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"workspace/internal/domain"
	"workspace/internal/domain/models"
	"workspace/internal/domain/repositories"
	"workspace/internal/domain/services"
)

type folderItemService struct {
	itemRepo   repositories.FolderItemRepository
	folderRepo repositories.FolderRepository
	logger     *slog.Logger
	now        func() time.Time
}

// NewFolderItemService creates a new folder item service
func NewFolderItemService(
	itemRepo repositories.FolderItemRepository,
	folderRepo repositories.FolderRepository,
	logger *slog.Logger,
) services.FolderItemService {
	return &folderItemService{
		itemRepo:   itemRepo,
		folderRepo: folderRepo,
		logger:     logger,
		now:        utcNow,
	}
}

// CreateItem adds a chat to a folder owned by userID. A folder of another
// user is reported as not found.
func (s *folderItemService) CreateItem(ctx context.Context, userID int32, req *services.CreateFolderItemRequest) (*models.FolderItem, error) {
	if req.FolderUUID == uuid.Nil {
		return nil, domain.NewValidationError("folder_uuid: cannot be blank")
	}
	if req.ChatID == nil {
		return nil, domain.NewValidationError("chat_id: cannot be blank")
	}

	if _, err := s.folderRepo.GetByID(ctx, userID, req.FolderUUID); err != nil {
		return nil, err
	}

	item, err := models.NewFolderItem(models.NewFolderItemParams{
		UserID:     userID,
		FolderUUID: req.FolderUUID,
		ChatID:     *req.ChatID,
		OrderIndex: req.OrderIndex,
	}, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("folder item created",
		"uuid", item.UUID,
		"folder_uuid", item.FolderUUID,
		"chat_id", item.ChatID,
		"user_id", userID,
	)

	return item, nil
}

// GetItem retrieves an item
func (s *folderItemService) GetItem(ctx context.Context, userID int32, folderID *uuid.UUID, id uuid.UUID) (*models.FolderItem, error) {
	return s.scopedItem(ctx, userID, folderID, id)
}

// ListItems lists the user's items. Filtering by a folder the user does not
// own is not found rather than an empty list.
func (s *folderItemService) ListItems(ctx context.Context, userID int32, req *services.ListFolderItemsRequest) ([]models.FolderItem, error) {
	var filter repositories.FolderItemFilter
	if req != nil {
		filter = repositories.FolderItemFilter{
			FolderUUID: req.FolderUUID,
			ChatID:     req.ChatID,
			Pinned:     req.Pinned,
		}
	}

	if filter.FolderUUID != nil {
		if _, err := s.folderRepo.GetByID(ctx, userID, *filter.FolderUUID); err != nil {
			return nil, err
		}
	}

	return s.itemRepo.List(ctx, userID, filter)
}

// UpdateItem applies a partial update. Moving the item to another folder
// checks that folder's ownership the same way CreateItem does.
func (s *folderItemService) UpdateItem(ctx context.Context, userID int32, folderID *uuid.UUID, id uuid.UUID, req *services.UpdateFolderItemRequest) (*models.FolderItem, error) {
	if req.FolderUUID == nil && req.ChatID == nil && !req.OrderIndex.Present {
		return nil, domain.NewValidationError("at least one field must be provided")
	}

	item, err := s.scopedItem(ctx, userID, folderID, id)
	if err != nil {
		return nil, err
	}

	if req.FolderUUID != nil && *req.FolderUUID != item.FolderUUID {
		if _, err := s.folderRepo.GetByID(ctx, userID, *req.FolderUUID); err != nil {
			return nil, err
		}
		s.logger.Debug("reassigning folder item",
			"uuid", item.UUID,
			"from", item.FolderUUID,
			"to", *req.FolderUUID,
		)
		item.FolderUUID = *req.FolderUUID
	}
	if req.ChatID != nil {
		item.ChatID = *req.ChatID
	}
	if req.OrderIndex.Present {
		item.OrderIndex = req.OrderIndex.Value
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	item.UpdatedAt = s.now()

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("folder item updated",
		"uuid", item.UUID,
		"user_id", userID,
	)

	return item, nil
}

// DeleteItem removes an item
func (s *folderItemService) DeleteItem(ctx context.Context, userID int32, folderID *uuid.UUID, id uuid.UUID) error {
	if folderID != nil {
		if _, err := s.scopedItem(ctx, userID, folderID, id); err != nil {
			return err
		}
	}

	if err := s.itemRepo.Delete(ctx, userID, id); err != nil {
		return err
	}

	s.logger.Info("folder item deleted",
		"uuid", id,
		"user_id", userID,
	)

	return nil
}

// PinItem sets pinned_at to the current UTC time
func (s *folderItemService) PinItem(ctx context.Context, userID int32, folderID *uuid.UUID, id uuid.UUID) (*models.FolderItem, error) {
	if folderID != nil {
		if _, err := s.scopedItem(ctx, userID, folderID, id); err != nil {
			return nil, err
		}
	}

	pinnedAt := s.now()
	item, err := s.itemRepo.SetPinnedAt(ctx, userID, id, &pinnedAt)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("folder item pinned", "uuid", id, "pinned_at", pinnedAt)
	return item, nil
}

// UnpinItem clears pinned_at
func (s *folderItemService) UnpinItem(ctx context.Context, userID int32, folderID *uuid.UUID, id uuid.UUID) (*models.FolderItem, error) {
	if folderID != nil {
		if _, err := s.scopedItem(ctx, userID, folderID, id); err != nil {
			return nil, err
		}
	}

	item, err := s.itemRepo.SetPinnedAt(ctx, userID, id, nil)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("folder item unpinned", "uuid", id)
	return item, nil
}

// scopedItem loads an item owned by userID and, for nested routes, checks
// that it lives in folderID.
func (s *folderItemService) scopedItem(ctx context.Context, userID int32, folderID *uuid.UUID, id uuid.UUID) (*models.FolderItem, error) {
	item, err := s.itemRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if folderID != nil && item.FolderUUID != *folderID {
		return nil, fmt.Errorf("folder item %s in folder %s: %w", id, *folderID, domain.NewNotFoundError("folder item not found"))
	}
	return item, nil
}
