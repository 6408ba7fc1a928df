package services

import "context"

// ResourceAuthorizer checks if a user can access resources.
// A user may work in a workspace they own or collaborate on; folders and files
// resolve to their workspace.
type ResourceAuthorizer interface {
	// CanAccessWorkspace checks the user owns or collaborates on the workspace
	CanAccessWorkspace(ctx context.Context, userID, workspaceID string) error

	// CanManageWorkspace checks the user owns the workspace (delete, membership changes)
	CanManageWorkspace(ctx context.Context, userID, workspaceID string) error

	// CanAccessFolder checks access via the folder's workspace
	CanAccessFolder(ctx context.Context, userID, folderID string) error

	// CanAccessFile checks access via the file's workspace
	CanAccessFile(ctx context.Context, userID, fileID string) error

	// CanAccessDocument resolves id as a file, folder or workspace (any of them
	// can be opened in the editor) and checks access to it
	CanAccessDocument(ctx context.Context, userID, documentID string) error
}
