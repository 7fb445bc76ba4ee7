package service

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"workspace/internal/domain"
	"workspace/internal/domain/models"
	"workspace/internal/domain/repositories"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixedClock returns a clock that advances one second per call.
func fixedClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	t := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

// memStore mimics the relational constraints: one "all" folder per user,
// unique (chat_id, folder) and ON DELETE CASCADE from folders to items.
type memStore struct {
	mu      sync.Mutex
	folders map[uuid.UUID]models.Folder
	items   map[uuid.UUID]models.FolderItem

	// createAllHook runs before an "all" folder insert, to simulate a racing writer
	createAllHook func()
}

func newMemStore() *memStore {
	return &memStore{
		folders: map[uuid.UUID]models.Folder{},
		items:   map[uuid.UUID]models.FolderItem{},
	}
}

type memFolderRepo struct{ s *memStore }
type memItemRepo struct{ s *memStore }

func (r memFolderRepo) Create(_ context.Context, f *models.Folder) error {
	if f.IsAllFolder() && r.s.createAllHook != nil {
		hook := r.s.createAllHook
		r.s.createAllHook = nil
		hook()
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if f.IsAllFolder() {
		for _, existing := range r.s.folders {
			if existing.UserID == f.UserID && existing.IsAllFolder() {
				return &domain.ConflictError{Message: "duplicate all folder", ResourceType: "folder"}
			}
		}
	}
	r.s.folders[f.UUID] = *f
	return nil
}

func (r memFolderRepo) GetByID(_ context.Context, userID int32, id uuid.UUID) (*models.Folder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.s.folders[id]
	if !ok || f.UserID != userID {
		return nil, domain.NewNotFoundError("folder not found")
	}
	return &f, nil
}

func (r memFolderRepo) GetAllFolder(ctx context.Context, userID int32) (*models.Folder, error) {
	all := models.SystemFolderAll
	folders, _ := r.List(ctx, userID, repositories.FolderFilter{SystemType: &all})
	if len(folders) == 0 {
		return nil, domain.NewNotFoundError("folder not found")
	}
	return &folders[0], nil
}

func (r memFolderRepo) List(_ context.Context, userID int32, filter repositories.FolderFilter) ([]models.Folder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Folder{}
	for _, f := range r.s.folders {
		if f.UserID != userID {
			continue
		}
		if filter.SystemType != nil && (f.SystemType == nil || *f.SystemType != *filter.SystemType) {
			continue
		}
		if filter.Title != nil && f.Title != *filter.Title {
			continue
		}
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].UUID.String() < out[j].UUID.String()
	})
	return out, nil
}

func (r memFolderRepo) Update(_ context.Context, f *models.Folder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.folders[f.UUID]
	if !ok || existing.UserID != f.UserID {
		return domain.NewNotFoundError("folder not found")
	}
	if f.IsAllFolder() {
		for id, other := range r.s.folders {
			if id != f.UUID && other.UserID == f.UserID && other.IsAllFolder() {
				return &domain.ConflictError{Message: "duplicate all folder", ResourceType: "folder"}
			}
		}
	}
	r.s.folders[f.UUID] = *f
	return nil
}

func (r memFolderRepo) Delete(_ context.Context, userID int32, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.s.folders[id]
	if !ok || f.UserID != userID {
		return domain.NewNotFoundError("folder not found")
	}
	delete(r.s.folders, id)
	for itemID, item := range r.s.items {
		if item.FolderUUID == id {
			delete(r.s.items, itemID)
		}
	}
	return nil
}

func (r memItemRepo) checkUnique(item *models.FolderItem) error {
	if _, ok := r.s.folders[item.FolderUUID]; !ok {
		return domain.NewNotFoundError("folder not found")
	}
	for id, other := range r.s.items {
		if id != item.UUID && other.FolderUUID == item.FolderUUID && other.ChatID == item.ChatID {
			return &domain.ConflictError{Message: "duplicate chat", ResourceType: "folder_item"}
		}
	}
	return nil
}

func (r memItemRepo) Create(_ context.Context, item *models.FolderItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.checkUnique(item); err != nil {
		return err
	}
	r.s.items[item.UUID] = *item
	return nil
}

func (r memItemRepo) GetByID(_ context.Context, userID int32, id uuid.UUID) (*models.FolderItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item, ok := r.s.items[id]
	if !ok || item.UserID != userID {
		return nil, domain.NewNotFoundError("folder item not found")
	}
	return &item, nil
}

func (r memItemRepo) List(_ context.Context, userID int32, filter repositories.FolderItemFilter) ([]models.FolderItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.FolderItem{}
	for _, item := range r.s.items {
		if item.UserID != userID {
			continue
		}
		if filter.FolderUUID != nil && item.FolderUUID != *filter.FolderUUID {
			continue
		}
		if filter.ChatID != nil && item.ChatID != *filter.ChatID {
			continue
		}
		if filter.Pinned != nil && item.IsPinned() != *filter.Pinned {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r memItemRepo) Update(_ context.Context, item *models.FolderItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.items[item.UUID]
	if !ok || existing.UserID != item.UserID {
		return domain.NewNotFoundError("folder item not found")
	}
	if err := r.checkUnique(item); err != nil {
		return err
	}
	r.s.items[item.UUID] = *item
	return nil
}

func (r memItemRepo) SetPinnedAt(_ context.Context, userID int32, id uuid.UUID, pinnedAt *time.Time) (*models.FolderItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item, ok := r.s.items[id]
	if !ok || item.UserID != userID {
		return nil, domain.NewNotFoundError("folder item not found")
	}
	item.PinnedAt = pinnedAt
	r.s.items[id] = item
	return &item, nil
}

func (r memItemRepo) Delete(_ context.Context, userID int32, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item, ok := r.s.items[id]
	if !ok || item.UserID != userID {
		return domain.NewNotFoundError("folder item not found")
	}
	delete(r.s.items, id)
	return nil
}

type memCatalogRepo struct {
	mu       sync.Mutex
	services map[uuid.UUID]models.CatalogService
}

func newMemCatalogRepo() *memCatalogRepo {
	return &memCatalogRepo{services: map[uuid.UUID]models.CatalogService{}}
}

func (r *memCatalogRepo) Create(_ context.Context, svc *models.CatalogService) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.services[svc.UUID] = *svc
	return nil
}

func (r *memCatalogRepo) GetByID(_ context.Context, id uuid.UUID) (*models.CatalogService, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	svc, ok := r.services[id]
	if !ok {
		return nil, domain.NewNotFoundError("service not found")
	}
	return &svc, nil
}

func (r *memCatalogRepo) List(_ context.Context) ([]models.CatalogService, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.CatalogService{}
	for _, svc := range r.services {
		out = append(out, svc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memCatalogRepo) Update(_ context.Context, svc *models.CatalogService) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.services[svc.UUID]; !ok {
		return domain.NewNotFoundError("service not found")
	}
	r.services[svc.UUID] = *svc
	return nil
}

func (r *memCatalogRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.services[id]; !ok {
		return domain.NewNotFoundError("service not found")
	}
	delete(r.services, id)
	return nil
}
