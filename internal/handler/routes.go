package handler

import "net/http"

// Handlers groups every HTTP handler of the API.
type Handlers struct {
	Root       *RootHandler
	Folder     *FolderHandler
	FolderItem *FolderItemHandler
	Catalog    *CatalogHandler
}

// Register mounts all routes on mux.
func (h *Handlers) Register(mux *http.ServeMux) {
	// Discovery and health (unauthenticated)
	mux.HandleFunc("GET /{$}", h.Root.Versions)
	mux.HandleFunc("GET /v1/{$}", h.Root.Resources)
	mux.HandleFunc("GET /health", h.Root.HealthCheck)

	// Folder routes
	mux.HandleFunc("POST /v1/folders", h.Folder.CreateFolder)
	mux.HandleFunc("GET /v1/folders", h.Folder.ListFolders)
	mux.HandleFunc("GET /v1/folders/all", h.Folder.GetAllFolder) // Must come before {uuid} route
	mux.HandleFunc("GET /v1/folders/{uuid}", h.Folder.GetFolder)
	mux.HandleFunc("PATCH /v1/folders/{uuid}", h.Folder.UpdateFolder)
	mux.HandleFunc("DELETE /v1/folders/{uuid}", h.Folder.DeleteFolder)

	// Folder item routes, nested under their folder
	mux.HandleFunc("POST /v1/folders/{folder_uuid}/items", h.FolderItem.CreateItem)
	mux.HandleFunc("GET /v1/folders/{folder_uuid}/items", h.FolderItem.ListFolderItems)
	mux.HandleFunc("GET /v1/folders/{folder_uuid}/items/{uuid}", h.FolderItem.GetItem)
	mux.HandleFunc("PATCH /v1/folders/{folder_uuid}/items/{uuid}", h.FolderItem.UpdateItem)
	mux.HandleFunc("DELETE /v1/folders/{folder_uuid}/items/{uuid}", h.FolderItem.DeleteItem)
	mux.HandleFunc("POST /v1/folders/{folder_uuid}/items/{uuid}/pin", h.FolderItem.PinItem)
	mux.HandleFunc("POST /v1/folders/{folder_uuid}/items/{uuid}/unpin", h.FolderItem.UnpinItem)

	// Cross-folder item listing
	mux.HandleFunc("GET /v1/folder_items", h.FolderItem.ListItems)

	// Catalog routes
	mux.HandleFunc("POST /v1/services", h.Catalog.CreateService)
	mux.HandleFunc("GET /v1/services", h.Catalog.ListServices)
	mux.HandleFunc("GET /v1/services/{uuid}", h.Catalog.GetService)
	mux.HandleFunc("PATCH /v1/services/{uuid}", h.Catalog.UpdateService)
	mux.HandleFunc("DELETE /v1/services/{uuid}", h.Catalog.DeleteService)
}
