package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"workspace/internal/config"
	"workspace/internal/domain"
	"workspace/internal/domain/models"
	"workspace/internal/domain/repositories"
	"workspace/internal/domain/services"
	"workspace/internal/httputil"
)

type folderService struct {
	folderRepo repositories.FolderRepository
	logger     *slog.Logger
	now        func() time.Time
}

// NewFolderService creates a new folder service
func NewFolderService(folderRepo repositories.FolderRepository, logger *slog.Logger) services.FolderService {
	return &folderService{
		folderRepo: folderRepo,
		logger:     logger,
		now:        utcNow,
	}
}

// CreateFolder creates a new folder
func (s *folderService) CreateFolder(ctx context.Context, userID int32, req *services.CreateFolderRequest) (*models.Folder, error) {
	systemType, err := createSystemType(req.SystemType)
	if err != nil {
		return nil, err
	}

	folder, err := models.NewFolder(models.NewFolderParams{
		UserID:               userID,
		Title:                req.Title,
		SystemType:           systemType,
		BackgroundColorValue: req.BackgroundColorValue,
		UnreadMessages:       req.UnreadMessages,
	}, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"uuid", folder.UUID,
		"user_id", userID,
		"system_type", folder.SystemType,
	)

	return folder, nil
}

// GetFolder retrieves a folder
func (s *folderService) GetFolder(ctx context.Context, userID int32, id uuid.UUID) (*models.Folder, error) {
	return s.folderRepo.GetByID(ctx, userID, id)
}

// ListFolders lists the user's folders
func (s *folderService) ListFolders(ctx context.Context, userID int32, req *services.ListFoldersRequest) ([]models.Folder, error) {
	var filter repositories.FolderFilter
	if req != nil {
		if req.SystemType != nil {
			t, err := models.ParseSystemFolderType(*req.SystemType)
			if err != nil {
				return nil, err
			}
			filter.SystemType = &t
		}
		filter.Title = req.Title
	}

	return s.folderRepo.List(ctx, userID, filter)
}

// UpdateFolder applies a partial update
func (s *folderService) UpdateFolder(ctx context.Context, userID int32, id uuid.UUID, req *services.UpdateFolderRequest) (*models.Folder, error) {
	if req.Title == nil && !req.BackgroundColorValue.Present && req.UnreadMessages == nil && !req.SystemType.Present {
		return nil, domain.NewValidationError("at least one field must be provided")
	}

	folder, err := s.folderRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		folder.Title = strings.TrimSpace(*req.Title)
	}
	if req.BackgroundColorValue.Present {
		folder.BackgroundColorValue = req.BackgroundColorValue.Value
	}
	if req.UnreadMessages != nil {
		folder.UnreadMessages = *req.UnreadMessages
		if folder.UnreadMessages == nil {
			folder.UnreadMessages = []int32{}
		}
	}
	if req.SystemType.Present {
		if req.SystemType.Value == nil {
			folder.SystemType = nil
		} else {
			t, err := models.ParseSystemFolderType(*req.SystemType.Value)
			if err != nil {
				return nil, err
			}
			folder.SystemType = &t
		}
	}

	if err := folder.Validate(); err != nil {
		return nil, err
	}

	folder.UpdatedAt = s.now()

	// A switch to "all" is checked by the partial unique index
	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder updated",
		"uuid", folder.UUID,
		"user_id", userID,
	)

	return folder, nil
}

// DeleteFolder deletes a folder and, through the storage cascade, its items
func (s *folderService) DeleteFolder(ctx context.Context, userID int32, id uuid.UUID) error {
	if err := s.folderRepo.Delete(ctx, userID, id); err != nil {
		return err
	}

	s.logger.Info("folder deleted",
		"uuid", id,
		"user_id", userID,
	)

	return nil
}

// EnsureAllFolder returns the user's "all" folder, creating it when missing.
// When a concurrent request wins the insert, the winner's row is returned.
func (s *folderService) EnsureAllFolder(ctx context.Context, userID int32) (*models.Folder, error) {
	folder, err := s.folderRepo.GetAllFolder(ctx, userID)
	if err == nil {
		return folder, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	all := models.SystemFolderAll
	folder, err = models.NewFolder(models.NewFolderParams{
		UserID:     userID,
		Title:      config.AllFolderTitle,
		SystemType: &all,
	}, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.folderRepo.Create(ctx, folder); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			s.logger.Debug("all folder created concurrently, reading winner", "user_id", userID)
			return s.folderRepo.GetAllFolder(ctx, userID)
		}
		return nil, err
	}

	s.logger.Info("all folder provisioned",
		"uuid", folder.UUID,
		"user_id", userID,
	)

	return folder, nil
}

// createSystemType resolves the create-time system_type: absent means
// "created", explicit null means none.
func createSystemType(opt httputil.Optional[string]) (*models.SystemFolderType, error) {
	if !opt.Present {
		t := models.SystemFolderCreated
		return &t, nil
	}
	if opt.Value == nil {
		return nil, nil
	}
	t, err := models.ParseSystemFolderType(*opt.Value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func utcNow() time.Time {
	return time.Now().UTC()
}
