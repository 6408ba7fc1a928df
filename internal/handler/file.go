package handler

import (
	"log/slog"
	"net/http"

	models "loomspace/internal/domain/models/workspace"
	wsSvc "loomspace/internal/domain/services/workspace"
	"loomspace/internal/httputil"
)

// FileHandler handles file HTTP requests
type FileHandler struct {
	fileService wsSvc.FileService
	logger      *slog.Logger
}

// NewFileHandler creates a new file handler
func NewFileHandler(fileService wsSvc.FileService, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		logger:      logger,
	}
}

// ListFiles lists a folder's files, oldest first
// GET /api/folders/{id}/files
func (h *FileHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	folderID, ok := PathParam(w, r, "id", "Folder ID")
	if !ok {
		return
	}

	userID := httputil.GetUserID(r)
	httputil.RespondResult(w, http.StatusOK, h.fileService.GetFiles(r.Context(), userID, folderID))
}

// CreateFile creates a file in the folder named by the path
// POST /api/folders/{id}/files
func (h *FileHandler) CreateFile(w http.ResponseWriter, r *http.Request) {
	folderID, ok := PathParam(w, r, "id", "Folder ID")
	if !ok {
		return
	}

	var file models.File
	if !parseBody(w, r, &file) {
		return
	}
	file.FolderID = folderID

	userID := httputil.GetUserID(r)
	httputil.RespondResult(w, http.StatusCreated, h.fileService.CreateFile(r.Context(), userID, file))
}

// GetFile retrieves a file
// GET /api/files/{id}
func (h *FileHandler) GetFile(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "File ID")
	if !ok {
		return
	}

	userID := httputil.GetUserID(r)
	httputil.RespondResult(w, http.StatusOK, h.fileService.GetFileDetails(r.Context(), userID, id))
}

// UpdateFile applies a partial update
// PATCH /api/files/{id}
func (h *FileHandler) UpdateFile(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "File ID")
	if !ok {
		return
	}

	var patch models.FilePatch
	if !parseBody(w, r, &patch) {
		return
	}

	userID := httputil.GetUserID(r)
	httputil.RespondResult(w, http.StatusOK, h.fileService.UpdateFile(r.Context(), userID, id, patch))
}

// DeleteFile hard-deletes a file
// DELETE /api/files/{id}
func (h *FileHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "File ID")
	if !ok {
		return
	}

	userID := httputil.GetUserID(r)
	httputil.RespondResult(w, http.StatusOK, h.fileService.DeleteFile(r.Context(), userID, id))
}
