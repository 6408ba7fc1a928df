package handler

import "net/http"

// Handlers bundles the route handlers
type Handlers struct {
	Workspaces    *WorkspaceHandler
	Folders       *FolderHandler
	Files         *FileHandler
	Collaborators *CollaboratorHandler
	Realtime      http.Handler // Optional websocket upgrade
}

// Register mounts every route on mux (Go 1.22+ method patterns)
func Register(mux *http.ServeMux, h Handlers) {
	mux.HandleFunc("GET /health", HealthCheck)

	// Workspace routes
	mux.HandleFunc("GET /api/workspaces", h.Workspaces.ListWorkspaces)
	mux.HandleFunc("POST /api/workspaces", h.Workspaces.CreateWorkspace)
	mux.HandleFunc("GET /api/workspaces/{id}", h.Workspaces.GetWorkspace)
	mux.HandleFunc("PATCH /api/workspaces/{id}", h.Workspaces.UpdateWorkspace)
	mux.HandleFunc("DELETE /api/workspaces/{id}", h.Workspaces.DeleteWorkspace)

	// Workspace-scoped folder routes
	mux.HandleFunc("GET /api/workspaces/{id}/folders", h.Folders.ListFolders)
	mux.HandleFunc("POST /api/workspaces/{id}/folders", h.Folders.CreateFolder)

	// Collaborator routes
	mux.HandleFunc("GET /api/workspaces/{id}/collaborators", h.Collaborators.ListCollaborators)
	mux.HandleFunc("POST /api/workspaces/{id}/collaborators", h.Collaborators.AddCollaborators)
	mux.HandleFunc("DELETE /api/workspaces/{id}/collaborators", h.Collaborators.RemoveCollaborators)
	mux.HandleFunc("GET /api/users/search", h.Collaborators.SearchUsers)

	// Folder routes
	mux.HandleFunc("GET /api/folders/{id}", h.Folders.GetFolder)
	mux.HandleFunc("PATCH /api/folders/{id}", h.Folders.UpdateFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", h.Folders.DeleteFolder)

	// Folder-scoped file routes
	mux.HandleFunc("GET /api/folders/{id}/files", h.Files.ListFiles)
	mux.HandleFunc("POST /api/folders/{id}/files", h.Files.CreateFile)

	// File routes
	mux.HandleFunc("GET /api/files/{id}", h.Files.GetFile)
	mux.HandleFunc("PATCH /api/files/{id}", h.Files.UpdateFile)
	mux.HandleFunc("DELETE /api/files/{id}", h.Files.DeleteFile)

	if h.Realtime != nil {
		mux.Handle("GET /ws", h.Realtime)
	}
}
