package handler

import (
	"log/slog"
	"net/http"

	models "loomspace/internal/domain/models/workspace"
	wsSvc "loomspace/internal/domain/services/workspace"
	"loomspace/internal/httputil"
)

// FolderHandler handles folder HTTP requests
type FolderHandler struct {
	folderService wsSvc.FolderService
	logger        *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(folderService wsSvc.FolderService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		folderService: folderService,
		logger:        logger,
	}
}

// ListFolders lists a workspace's folders, oldest first
// GET /api/workspaces/{id}/folders
func (h *FolderHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := PathParam(w, r, "id", "Workspace ID")
	if !ok {
		return
	}

	userID := httputil.GetUserID(r)
	httputil.RespondResult(w, http.StatusOK, h.folderService.GetFolders(r.Context(), userID, workspaceID))
}

// CreateFolder creates a folder in the workspace named by the path
// POST /api/workspaces/{id}/folders
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := PathParam(w, r, "id", "Workspace ID")
	if !ok {
		return
	}

	var folder models.Folder
	if !parseBody(w, r, &folder) {
		return
	}
	folder.WorkspaceID = workspaceID

	userID := httputil.GetUserID(r)
	httputil.RespondResult(w, http.StatusCreated, h.folderService.CreateFolder(r.Context(), userID, folder))
}

// GetFolder retrieves a folder
// GET /api/folders/{id}
func (h *FolderHandler) GetFolder(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Folder ID")
	if !ok {
		return
	}

	userID := httputil.GetUserID(r)
	httputil.RespondResult(w, http.StatusOK, h.folderService.GetFolderDetails(r.Context(), userID, id))
}

// UpdateFolder applies a partial update (rename, icon, trash/restore, body)
// PATCH /api/folders/{id}
func (h *FolderHandler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Folder ID")
	if !ok {
		return
	}

	var patch models.FolderPatch
	if !parseBody(w, r, &patch) {
		return
	}

	userID := httputil.GetUserID(r)
	httputil.RespondResult(w, http.StatusOK, h.folderService.UpdateFolder(r.Context(), userID, id, patch))
}

// DeleteFolder hard-deletes a folder with its files
// DELETE /api/folders/{id}
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Folder ID")
	if !ok {
		return
	}

	userID := httputil.GetUserID(r)
	httputil.RespondResult(w, http.StatusOK, h.folderService.DeleteFolder(r.Context(), userID, id))
}
