package handler

import (
	"log/slog"
	"net/http"

	wsSvc "loomspace/internal/domain/services/workspace"
	"loomspace/internal/httputil"
)

// CollaboratorHandler handles workspace sharing and user lookup
type CollaboratorHandler struct {
	collaboratorService wsSvc.CollaboratorService
	logger              *slog.Logger
}

// NewCollaboratorHandler creates a new collaborator handler
func NewCollaboratorHandler(collaboratorService wsSvc.CollaboratorService, logger *slog.Logger) *CollaboratorHandler {
	return &CollaboratorHandler{
		collaboratorService: collaboratorService,
		logger:              logger,
	}
}

// CollaboratorsRequest names the users to add or remove
type CollaboratorsRequest struct {
	UserIDs []string `json:"user_ids"`
}

// ListCollaborators returns the collaborators' profiles
// GET /api/workspaces/{id}/collaborators
func (h *CollaboratorHandler) ListCollaborators(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := PathParam(w, r, "id", "Workspace ID")
	if !ok {
		return
	}

	userID := httputil.GetUserID(r)
	httputil.RespondResult(w, http.StatusOK, h.collaboratorService.GetCollaborators(r.Context(), userID, workspaceID))
}

// AddCollaborators shares the workspace
// POST /api/workspaces/{id}/collaborators
func (h *CollaboratorHandler) AddCollaborators(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := PathParam(w, r, "id", "Workspace ID")
	if !ok {
		return
	}

	var req CollaboratorsRequest
	if !parseBody(w, r, &req) {
		return
	}

	userID := httputil.GetUserID(r)
	httputil.RespondResult(w, http.StatusOK, h.collaboratorService.AddCollaborators(r.Context(), userID, workspaceID, req.UserIDs))
}

// RemoveCollaborators revokes access
// DELETE /api/workspaces/{id}/collaborators
func (h *CollaboratorHandler) RemoveCollaborators(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := PathParam(w, r, "id", "Workspace ID")
	if !ok {
		return
	}

	var req CollaboratorsRequest
	if !parseBody(w, r, &req) {
		return
	}

	userID := httputil.GetUserID(r)
	httputil.RespondResult(w, http.StatusOK, h.collaboratorService.RemoveCollaborators(r.Context(), userID, workspaceID, req.UserIDs))
}

// SearchUsers finds users by email prefix, excluding the caller
// GET /api/users/search?email=prefix
func (h *CollaboratorHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)
	prefix := r.URL.Query().Get("email")
	httputil.RespondResult(w, http.StatusOK, h.collaboratorService.SearchUsers(r.Context(), userID, prefix))
}
