package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"workspace/internal/domain"
	"workspace/internal/domain/models"
	"workspace/internal/domain/services"
	"workspace/internal/httputil"
)

type stubFolderService struct {
	services.FolderService
	createReq *services.CreateFolderRequest
	updateReq *services.UpdateFolderRequest
	listReq   *services.ListFoldersRequest
	ensured   bool
	err       error
}

func (s *stubFolderService) CreateFolder(_ context.Context, userID int32, req *services.CreateFolderRequest) (*models.Folder, error) {
	s.createReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.Folder{UUID: uuid.New(), Title: req.Title, UserID: userID, UnreadMessages: []int32{}}, nil
}

func (s *stubFolderService) GetFolder(_ context.Context, userID int32, id uuid.UUID) (*models.Folder, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Folder{UUID: id, Title: "Work", UserID: userID}, nil
}

func (s *stubFolderService) ListFolders(_ context.Context, _ int32, req *services.ListFoldersRequest) ([]models.Folder, error) {
	s.listReq = req
	return []models.Folder{}, s.err
}

func (s *stubFolderService) UpdateFolder(_ context.Context, userID int32, id uuid.UUID, req *services.UpdateFolderRequest) (*models.Folder, error) {
	s.updateReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.Folder{UUID: id, UserID: userID}, nil
}

func (s *stubFolderService) DeleteFolder(context.Context, int32, uuid.UUID) error {
	return s.err
}

func (s *stubFolderService) EnsureAllFolder(_ context.Context, userID int32) (*models.Folder, error) {
	s.ensured = true
	all := models.SystemFolderAll
	return &models.Folder{UUID: uuid.New(), Title: "All messages", UserID: userID, SystemType: &all}, nil
}

type stubItemService struct {
	services.FolderItemService
	createReq *services.CreateFolderItemRequest
	listReq   *services.ListFolderItemsRequest
	folderID  *uuid.UUID
	pinned    bool
	err       error
}

func (s *stubItemService) CreateItem(_ context.Context, userID int32, req *services.CreateFolderItemRequest) (*models.FolderItem, error) {
	s.createReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.FolderItem{UUID: uuid.New(), FolderUUID: req.FolderUUID, UserID: userID, ChatID: *req.ChatID}, nil
}

func (s *stubItemService) ListItems(_ context.Context, _ int32, req *services.ListFolderItemsRequest) ([]models.FolderItem, error) {
	s.listReq = req
	return []models.FolderItem{}, s.err
}

func (s *stubItemService) PinItem(_ context.Context, userID int32, folderID *uuid.UUID, id uuid.UUID) (*models.FolderItem, error) {
	s.folderID = folderID
	s.pinned = true
	now := time.Now().UTC()
	return &models.FolderItem{UUID: id, FolderUUID: *folderID, UserID: userID, PinnedAt: &now}, s.err
}

type stubCatalogService struct {
	services.CatalogService
}

func (s *stubCatalogService) ListServices(context.Context) ([]models.CatalogService, error) {
	return []models.CatalogService{}, nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type testAPI struct {
	mux     *http.ServeMux
	folders *stubFolderService
	items   *stubItemService
}

func newTestAPI(db Pinger) testAPI {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	api := testAPI{
		mux:     http.NewServeMux(),
		folders: &stubFolderService{},
		items:   &stubItemService{},
	}
	h := &Handlers{
		Root:       NewRootHandler(db, logger),
		Folder:     NewFolderHandler(api.folders, logger),
		FolderItem: NewFolderItemHandler(api.items, logger),
		Catalog:    NewCatalogHandler(&stubCatalogService{}, logger),
	}
	h.Register(api.mux)
	return api
}

// do sends a request as user 7, or anonymously when anonymous is set.
func (a testAPI) do(method, path, body string, anonymous bool) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if !anonymous {
		req = httputil.WithIdentity(req, models.Identity{UserID: 7})
	}
	rec := httptest.NewRecorder()
	a.mux.ServeHTTP(rec, req)
	return rec
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) httputil.ProblemDetail {
	t.Helper()
	var problem httputil.ProblemDetail
	if err := json.NewDecoder(rec.Body).Decode(&problem); err != nil {
		t.Fatalf("decode problem: %v", err)
	}
	return problem
}

func TestFolderHandler_CreateFolder(t *testing.T) {
	api := newTestAPI(nil)

	rec := api.do(http.MethodPost, "/v1/folders", `{"title":"Work"}`, false)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if api.folders.createReq.SystemType.Present {
		t.Error("absent system_type must reach the service as not present")
	}

	var folder models.Folder
	if err := json.NewDecoder(rec.Body).Decode(&folder); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if folder.UserID != 7 || folder.Title != "Work" {
		t.Errorf("unexpected folder: %+v", folder)
	}

	api.do(http.MethodPost, "/v1/folders", `{"title":"Work","system_type":null}`, false)
	if !api.folders.createReq.SystemType.Present || api.folders.createReq.SystemType.Value != nil {
		t.Errorf("explicit null system_type = %+v", api.folders.createReq.SystemType)
	}
}

func TestFolderHandler_RequestErrors(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		anonymous  bool
		serviceErr error
		wantStatus int
		wantKind   string
	}{
		{name: "no identity", method: http.MethodGet, path: "/v1/folders", anonymous: true, wantStatus: 401, wantKind: domain.KindUnauthorized},
		{name: "unknown field", method: http.MethodPost, path: "/v1/folders", body: `{"title":"Work","owner":1}`, wantStatus: 400, wantKind: domain.KindValidation},
		{name: "empty body", method: http.MethodPost, path: "/v1/folders", wantStatus: 400, wantKind: domain.KindValidation},
		{name: "bad uuid", method: http.MethodGet, path: "/v1/folders/not-a-uuid", wantStatus: 400, wantKind: domain.KindValidation},
		{name: "not found", method: http.MethodGet, path: "/v1/folders/" + uuid.NewString(), serviceErr: domain.NewNotFoundError("folder not found"), wantStatus: 404, wantKind: domain.KindNotFound},
		{name: "conflict", method: http.MethodPost, path: "/v1/folders", body: `{"title":"All","system_type":"all"}`, serviceErr: &domain.ConflictError{Message: "dup", ResourceType: "folder"}, wantStatus: 409, wantKind: domain.KindConflict},
		{name: "internal", method: http.MethodGet, path: "/v1/folders", serviceErr: errors.New("db down"), wantStatus: 500, wantKind: domain.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(nil)
			api.folders.err = tt.serviceErr

			rec := api.do(tt.method, tt.path, tt.body, tt.anonymous)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body)
			}
			problem := decodeProblem(t, rec)
			if problem.Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", problem.Kind, tt.wantKind)
			}
			if tt.wantStatus == 500 && strings.Contains(problem.Detail, "db down") {
				t.Error("internal error detail leaked to the client")
			}
		})
	}
}

func TestFolderHandler_UpdateFolderTriState(t *testing.T) {
	api := newTestAPI(nil)
	id := uuid.NewString()

	rec := api.do(http.MethodPatch, "/v1/folders/"+id, `{"background_color_value":null,"title":"New"}`, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	req := api.folders.updateReq
	if !req.BackgroundColorValue.Present || req.BackgroundColorValue.Value != nil {
		t.Errorf("background_color_value = %+v, want explicit null", req.BackgroundColorValue)
	}
	if req.SystemType.Present {
		t.Error("system_type should be absent")
	}
	if req.Title == nil || *req.Title != "New" {
		t.Errorf("title = %v", req.Title)
	}
}

func TestFolderHandler_AllFolderRoute(t *testing.T) {
	api := newTestAPI(nil)

	rec := api.do(http.MethodGet, "/v1/folders/all", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if !api.folders.ensured {
		t.Error("GET /v1/folders/all did not reach EnsureAllFolder")
	}
}

func TestFolderHandler_ListFilters(t *testing.T) {
	api := newTestAPI(nil)

	rec := api.do(http.MethodGet, "/v1/folders?system_type=created&title=Work", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	req := api.folders.listReq
	if req.SystemType == nil || *req.SystemType != "created" || req.Title == nil || *req.Title != "Work" {
		t.Errorf("unexpected filters: %+v", req)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("empty list body = %s, want []", rec.Body)
	}
}

func TestFolderHandler_Delete(t *testing.T) {
	api := newTestAPI(nil)
	rec := api.do(http.MethodDelete, "/v1/folders/"+uuid.NewString(), "", false)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestFolderItemHandler_CreateNested(t *testing.T) {
	api := newTestAPI(nil)
	folderID := uuid.New()

	rec := api.do(http.MethodPost, "/v1/folders/"+folderID.String()+"/items", `{"chat_id":12}`, false)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if api.items.createReq.FolderUUID != folderID {
		t.Errorf("folder_uuid = %s, want path value %s", api.items.createReq.FolderUUID, folderID)
	}

	other := uuid.NewString()
	rec = api.do(http.MethodPost, "/v1/folders/"+folderID.String()+"/items", `{"chat_id":12,"folder_uuid":"`+other+`"}`, false)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("mismatched folder_uuid: status = %d, want 400", rec.Code)
	}
}

func TestFolderItemHandler_Pin(t *testing.T) {
	api := newTestAPI(nil)
	folderID := uuid.New()
	itemID := uuid.New()

	rec := api.do(http.MethodPost, "/v1/folders/"+folderID.String()+"/items/"+itemID.String()+"/pin", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if !api.items.pinned || api.items.folderID == nil || *api.items.folderID != folderID {
		t.Errorf("pin did not reach the service scoped to the folder")
	}
}

func TestFolderItemHandler_FlatList(t *testing.T) {
	api := newTestAPI(nil)
	folderID := uuid.New()

	rec := api.do(http.MethodGet, "/v1/folder_items?folder_uuid="+folderID.String()+"&chat_id=5&pinned=true", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	req := api.items.listReq
	if req.FolderUUID == nil || *req.FolderUUID != folderID {
		t.Errorf("folder_uuid filter = %v", req.FolderUUID)
	}
	if req.ChatID == nil || *req.ChatID != 5 || req.Pinned == nil || !*req.Pinned {
		t.Errorf("unexpected filters: %+v", req)
	}

	for _, query := range []string{"chat_id=abc", "pinned=maybe", "folder_uuid=nope"} {
		rec := api.do(http.MethodGet, "/v1/folder_items?"+query, "", false)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", query, rec.Code)
		}
	}
}

func TestRootHandler(t *testing.T) {
	api := newTestAPI(stubPinger{})

	rec := api.do(http.MethodGet, "/", "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /: status = %d", rec.Code)
	}
	var versions struct {
		Versions []apiVersion `json:"versions"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&versions); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(versions.Versions) != 1 || versions.Versions[0].ID != APIVersion {
		t.Errorf("versions = %+v", versions.Versions)
	}

	rec = api.do(http.MethodGet, "/v1/", "", true)
	var resources []string
	if err := json.NewDecoder(rec.Body).Decode(&resources); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resources) != 3 {
		t.Errorf("resources = %v", resources)
	}

	if rec := api.do(http.MethodGet, "/health", "", true); rec.Code != http.StatusOK {
		t.Errorf("health: status = %d", rec.Code)
	}
}

func TestRootHandler_HealthDatabaseDown(t *testing.T) {
	api := newTestAPI(stubPinger{err: errors.New("connection refused")})
	if rec := api.do(http.MethodGet, "/health", "", true); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestCatalogHandler(t *testing.T) {
	api := newTestAPI(nil)

	rec := api.do(http.MethodGet, "/v1/services", "", false)
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("list: status = %d, body = %s", rec.Code, rec.Body)
	}

	rec = api.do(http.MethodGet, "/v1/services", "", true)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous list: status = %d, want 401", rec.Code)
	}

	rec = api.do(http.MethodGet, "/v1/services/not-a-uuid", "", false)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad uuid: status = %d, want 400", rec.Code)
	}
	if problem := decodeProblem(t, rec); problem.Kind != domain.KindValidation {
		t.Errorf("kind = %q, want %q", problem.Kind, domain.KindValidation)
	}
}
