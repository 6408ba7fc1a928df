package handler

import (
	"log/slog"
	"net/http"

	models "loomspace/internal/domain/models/workspace"
	wsSvc "loomspace/internal/domain/services/workspace"
	"loomspace/internal/httputil"
)

// WorkspaceHandler handles workspace HTTP requests
type WorkspaceHandler struct {
	workspaceService wsSvc.WorkspaceService
	logger           *slog.Logger
}

// NewWorkspaceHandler creates a new workspace handler
func NewWorkspaceHandler(workspaceService wsSvc.WorkspaceService, logger *slog.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaceService: workspaceService,
		logger:           logger,
	}
}

// ListWorkspaces returns the caller's private, shared and collaborating workspaces
// GET /api/workspaces
func (h *WorkspaceHandler) ListWorkspaces(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)
	httputil.RespondResult(w, http.StatusOK, h.workspaceService.ListWorkspaces(r.Context(), userID))
}

// CreateWorkspace creates a workspace owned by the caller
// POST /api/workspaces
func (h *WorkspaceHandler) CreateWorkspace(w http.ResponseWriter, r *http.Request) {
	var ws models.Workspace
	if !parseBody(w, r, &ws) {
		return
	}

	userID := httputil.GetUserID(r)
	httputil.RespondResult(w, http.StatusCreated, h.workspaceService.CreateWorkspace(r.Context(), userID, ws))
}

// GetWorkspace retrieves a workspace
// GET /api/workspaces/{id}
func (h *WorkspaceHandler) GetWorkspace(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Workspace ID")
	if !ok {
		return
	}

	userID := httputil.GetUserID(r)
	httputil.RespondResult(w, http.StatusOK, h.workspaceService.GetWorkspaceDetails(r.Context(), userID, id))
}

// UpdateWorkspace applies a partial update. Fields absent from the body are untouched;
// null clears nullable fields.
// PATCH /api/workspaces/{id}
func (h *WorkspaceHandler) UpdateWorkspace(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Workspace ID")
	if !ok {
		return
	}

	var patch models.WorkspacePatch
	if !parseBody(w, r, &patch) {
		return
	}

	userID := httputil.GetUserID(r)
	httputil.RespondResult(w, http.StatusOK, h.workspaceService.UpdateWorkspace(r.Context(), userID, id, patch))
}

// DeleteWorkspace hard-deletes a workspace and everything in it
// DELETE /api/workspaces/{id}
func (h *WorkspaceHandler) DeleteWorkspace(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Workspace ID")
	if !ok {
		return
	}

	userID := httputil.GetUserID(r)
	httputil.RespondResult(w, http.StatusOK, h.workspaceService.DeleteWorkspace(r.Context(), userID, id))
}
