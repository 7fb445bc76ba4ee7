package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"workspace/internal/domain"
	"workspace/internal/domain/services"
	"workspace/internal/httputil"
)

// FolderItemHandler handles folder item HTTP requests, both nested under
// /v1/folders/{folder_uuid}/items and the flat /v1/folder_items listing.
type FolderItemHandler struct {
	itemService services.FolderItemService
	logger      *slog.Logger
}

// NewFolderItemHandler creates a new folder item handler
func NewFolderItemHandler(itemService services.FolderItemService, logger *slog.Logger) *FolderItemHandler {
	return &FolderItemHandler{
		itemService: itemService,
		logger:      logger,
	}
}

// CreateItem adds a chat to the folder in the path
// POST /v1/folders/{folder_uuid}/items
func (h *FolderItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	folderID, ok := pathUUID(w, r, "folder_uuid")
	if !ok {
		return
	}

	var req services.CreateFolderItemRequest
	if !parseBody(w, r, &req) {
		return
	}
	if req.FolderUUID != uuid.Nil && req.FolderUUID != folderID {
		httputil.RespondError(w, http.StatusBadRequest, domain.KindValidation, "folder_uuid in body does not match path")
		return
	}
	req.FolderUUID = folderID

	item, err := h.itemService.CreateItem(r.Context(), userID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, item)
}

// ListFolderItems lists the items of the folder in the path
// GET /v1/folders/{folder_uuid}/items?chat_id=&pinned=
func (h *FolderItemHandler) ListFolderItems(w http.ResponseWriter, r *http.Request) {
	folderID, ok := pathUUID(w, r, "folder_uuid")
	if !ok {
		return
	}
	h.list(w, r, &folderID)
}

// ListItems lists the caller's items across folders
// GET /v1/folder_items?folder_uuid=&chat_id=&pinned=
func (h *FolderItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	folderID, err := httputil.QueryUUID(r, "folder_uuid")
	if err != nil {
		badQuery(w, err)
		return
	}
	h.list(w, r, folderID)
}

func (h *FolderItemHandler) list(w http.ResponseWriter, r *http.Request, folderID *uuid.UUID) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	chatID, err := httputil.QueryInt32(r, "chat_id")
	if err != nil {
		badQuery(w, err)
		return
	}
	pinned, err := httputil.QueryBool(r, "pinned")
	if err != nil {
		badQuery(w, err)
		return
	}

	items, err := h.itemService.ListItems(r.Context(), userID, &services.ListFolderItemsRequest{
		FolderUUID: folderID,
		ChatID:     chatID,
		Pinned:     pinned,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, items)
}

// GetItem retrieves an item of the folder in the path
// GET /v1/folders/{folder_uuid}/items/{uuid}
func (h *FolderItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	userID, folderID, id, ok := h.itemPath(w, r)
	if !ok {
		return
	}

	item, err := h.itemService.GetItem(r.Context(), userID, &folderID, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, item)
}

// UpdateItem applies a partial update
// PATCH /v1/folders/{folder_uuid}/items/{uuid}
func (h *FolderItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, folderID, id, ok := h.itemPath(w, r)
	if !ok {
		return
	}

	var req services.UpdateFolderItemRequest
	if !parseBody(w, r, &req) {
		return
	}

	item, err := h.itemService.UpdateItem(r.Context(), userID, &folderID, id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, item)
}

// DeleteItem removes an item
// DELETE /v1/folders/{folder_uuid}/items/{uuid}
func (h *FolderItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userID, folderID, id, ok := h.itemPath(w, r)
	if !ok {
		return
	}

	if err := h.itemService.DeleteItem(r.Context(), userID, &folderID, id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PinItem pins an item
// POST /v1/folders/{folder_uuid}/items/{uuid}/pin
func (h *FolderItemHandler) PinItem(w http.ResponseWriter, r *http.Request) {
	userID, folderID, id, ok := h.itemPath(w, r)
	if !ok {
		return
	}

	item, err := h.itemService.PinItem(r.Context(), userID, &folderID, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, item)
}

// UnpinItem unpins an item
// POST /v1/folders/{folder_uuid}/items/{uuid}/unpin
func (h *FolderItemHandler) UnpinItem(w http.ResponseWriter, r *http.Request) {
	userID, folderID, id, ok := h.itemPath(w, r)
	if !ok {
		return
	}

	item, err := h.itemService.UnpinItem(r.Context(), userID, &folderID, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, item)
}

// itemPath extracts the caller and both path ids of a nested item route
func (h *FolderItemHandler) itemPath(w http.ResponseWriter, r *http.Request) (int32, uuid.UUID, uuid.UUID, bool) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return 0, uuid.Nil, uuid.Nil, false
	}
	folderID, ok := pathUUID(w, r, "folder_uuid")
	if !ok {
		return 0, uuid.Nil, uuid.Nil, false
	}
	id, ok := pathUUID(w, r, "uuid")
	if !ok {
		return 0, uuid.Nil, uuid.Nil, false
	}
	return userID, folderID, id, true
}
