package workspace

import (
	"context"

	models "loomspace/internal/domain/models/workspace"
)

// Every operation returns a Result and never an error value: malformed ids,
// validation failures, repository errors and panics all surface as
// Result.Error == "Error" with the classified cause attached.

// WorkspaceService defines business logic for workspace operations
type WorkspaceService interface {
	CreateWorkspace(ctx context.Context, userID string, ws models.Workspace) models.Result[*models.Workspace]
	GetWorkspaceDetails(ctx context.Context, userID, workspaceID string) models.Result[*models.Workspace]
	UpdateWorkspace(ctx context.Context, userID, workspaceID string, patch models.WorkspacePatch) models.Result[*models.Workspace]
	DeleteWorkspace(ctx context.Context, userID, workspaceID string) models.Result[*models.Workspace]

	// ListWorkspaces returns the private, shared and collaborating workspaces of userID
	ListWorkspaces(ctx context.Context, userID string) models.Result[*models.Listing]
}

// FolderService defines business logic for folder operations
type FolderService interface {
	// GetFolders lists a workspace's folders ordered by created_at ascending
	GetFolders(ctx context.Context, userID, workspaceID string) models.Result[[]models.Folder]
	GetFolderDetails(ctx context.Context, userID, folderID string) models.Result[*models.Folder]
	CreateFolder(ctx context.Context, userID string, folder models.Folder) models.Result[*models.Folder]
	UpdateFolder(ctx context.Context, userID, folderID string, patch models.FolderPatch) models.Result[*models.Folder]

	// DeleteFolder hard-deletes the folder and its files
	DeleteFolder(ctx context.Context, userID, folderID string) models.Result[*models.Folder]
}

// FileService defines business logic for file operations
type FileService interface {
	// GetFiles lists a folder's files ordered by created_at ascending
	GetFiles(ctx context.Context, userID, folderID string) models.Result[[]models.File]
	GetFileDetails(ctx context.Context, userID, fileID string) models.Result[*models.File]
	CreateFile(ctx context.Context, userID string, file models.File) models.Result[*models.File]
	UpdateFile(ctx context.Context, userID, fileID string, patch models.FilePatch) models.Result[*models.File]
	DeleteFile(ctx context.Context, userID, fileID string) models.Result[*models.File]
}

// CollaboratorService manages workspace sharing
type CollaboratorService interface {
	// AddCollaborators shares a workspace with users; returns the resulting collaborator list
	AddCollaborators(ctx context.Context, userID, workspaceID string, userIDs []string) models.Result[[]models.User]

	// RemoveCollaborators revokes access; returns the resulting collaborator list
	RemoveCollaborators(ctx context.Context, userID, workspaceID string, userIDs []string) models.Result[[]models.User]

	GetCollaborators(ctx context.Context, userID, workspaceID string) models.Result[[]models.User]

	// SearchUsers finds users by email prefix, excluding the caller
	SearchUsers(ctx context.Context, userID, emailPrefix string) models.Result[[]models.User]
}
