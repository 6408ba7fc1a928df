package workspace

import (
	"context"

	models "loomspace/internal/domain/models/workspace"
)

// WorkspaceRepository defines data access operations for workspaces
type WorkspaceRepository interface {
	// Create inserts a workspace. ID and CreatedAt are generated when empty.
	Create(ctx context.Context, ws *models.Workspace) error

	// GetByID retrieves a workspace by ID
	GetByID(ctx context.Context, id string) (*models.Workspace, error)

	// Update applies a patch and returns the updated row
	Update(ctx context.Context, id string, patch models.WorkspacePatch) (*models.Workspace, error)

	// Delete hard-deletes a workspace row and returns it
	Delete(ctx context.Context, id string) (*models.Workspace, error)

	// ListPrivate lists workspaces owned by userID with no collaborators
	ListPrivate(ctx context.Context, userID string) ([]models.Workspace, error)

	// ListShared lists workspaces owned by userID that have collaborators
	ListShared(ctx context.Context, userID string) ([]models.Workspace, error)

	// ListCollaborating lists workspaces userID collaborates on
	ListCollaborating(ctx context.Context, userID string) ([]models.Workspace, error)
}

// FolderRepository defines data access operations for folders
type FolderRepository interface {
	Create(ctx context.Context, folder *models.Folder) error
	GetByID(ctx context.Context, id string) (*models.Folder, error)
	Update(ctx context.Context, id string, patch models.FolderPatch) (*models.Folder, error)
	Delete(ctx context.Context, id string) (*models.Folder, error)

	// ListByWorkspace lists a workspace's folders ordered by created_at ASC
	ListByWorkspace(ctx context.Context, workspaceID string) ([]models.Folder, error)

	// DeleteByWorkspace removes every folder of a workspace
	DeleteByWorkspace(ctx context.Context, workspaceID string) error
}

// FileRepository defines data access operations for files
type FileRepository interface {
	Create(ctx context.Context, file *models.File) error
	GetByID(ctx context.Context, id string) (*models.File, error)
	Update(ctx context.Context, id string, patch models.FilePatch) (*models.File, error)
	Delete(ctx context.Context, id string) (*models.File, error)

	// ListByFolder lists a folder's files ordered by created_at ASC
	ListByFolder(ctx context.Context, folderID string) ([]models.File, error)

	// DeleteByFolder removes every file of a folder
	DeleteByFolder(ctx context.Context, folderID string) error

	// DeleteByWorkspace removes every file of a workspace
	DeleteByWorkspace(ctx context.Context, workspaceID string) error
}

// CollaboratorRepository manages workspace membership
type CollaboratorRepository interface {
	// Add inserts a membership; an existing one is left untouched
	Add(ctx context.Context, workspaceID, userID string) error

	// Remove deletes a membership; a missing one is not an error
	Remove(ctx context.Context, workspaceID, userID string) error

	// Exists reports whether userID collaborates on workspaceID
	Exists(ctx context.Context, workspaceID, userID string) (bool, error)

	// ListUsers returns the profiles of a workspace's collaborators
	ListUsers(ctx context.Context, workspaceID string) ([]models.User, error)

	// DeleteByWorkspace removes every membership of a workspace
	DeleteByWorkspace(ctx context.Context, workspaceID string) error
}

// UserRepository reads the profile mirror of auth accounts
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)

	// SearchByEmailPrefix matches emails case-insensitively by prefix
	SearchByEmailPrefix(ctx context.Context, prefix string, limit int) ([]models.User, error)

	// Upsert creates or refreshes a profile (used by seeding)
	Upsert(ctx context.Context, user *models.User) error
}
