package workspace

import (
	"context"

	models "loomspace/internal/domain/models/workspace"
	wsSvc "loomspace/internal/domain/services/workspace"
)

// Services groups the persistence services
type Services struct {
	Workspaces    wsSvc.WorkspaceService
	Folders       wsSvc.FolderService
	Files         wsSvc.FileService
	Collaborators wsSvc.CollaboratorService
}

// UserScope binds Services to one user so in-process callers can use the same
// user-less persistence surface the HTTP client exposes.
type UserScope struct {
	services Services
	userID   string
}

// ForUser returns the services scoped to userID
func (s Services) ForUser(userID string) *UserScope {
	return &UserScope{services: s, userID: userID}
}

// UserID returns the scoped user
func (u *UserScope) UserID() string {
	return u.userID
}

func (u *UserScope) ListWorkspaces(ctx context.Context) models.Result[*models.Listing] {
	return u.services.Workspaces.ListWorkspaces(ctx, u.userID)
}

func (u *UserScope) CreateWorkspace(ctx context.Context, ws models.Workspace) models.Result[*models.Workspace] {
	return u.services.Workspaces.CreateWorkspace(ctx, u.userID, ws)
}

func (u *UserScope) GetWorkspaceDetails(ctx context.Context, workspaceID string) models.Result[*models.Workspace] {
	return u.services.Workspaces.GetWorkspaceDetails(ctx, u.userID, workspaceID)
}

func (u *UserScope) UpdateWorkspace(ctx context.Context, workspaceID string, patch models.WorkspacePatch) models.Result[*models.Workspace] {
	return u.services.Workspaces.UpdateWorkspace(ctx, u.userID, workspaceID, patch)
}

func (u *UserScope) DeleteWorkspace(ctx context.Context, workspaceID string) models.Result[*models.Workspace] {
	return u.services.Workspaces.DeleteWorkspace(ctx, u.userID, workspaceID)
}

func (u *UserScope) GetFolders(ctx context.Context, workspaceID string) models.Result[[]models.Folder] {
	return u.services.Folders.GetFolders(ctx, u.userID, workspaceID)
}

func (u *UserScope) GetFolderDetails(ctx context.Context, folderID string) models.Result[*models.Folder] {
	return u.services.Folders.GetFolderDetails(ctx, u.userID, folderID)
}

func (u *UserScope) CreateFolder(ctx context.Context, folder models.Folder) models.Result[*models.Folder] {
	return u.services.Folders.CreateFolder(ctx, u.userID, folder)
}

func (u *UserScope) UpdateFolder(ctx context.Context, folderID string, patch models.FolderPatch) models.Result[*models.Folder] {
	return u.services.Folders.UpdateFolder(ctx, u.userID, folderID, patch)
}

func (u *UserScope) DeleteFolder(ctx context.Context, folderID string) models.Result[*models.Folder] {
	return u.services.Folders.DeleteFolder(ctx, u.userID, folderID)
}

func (u *UserScope) GetFiles(ctx context.Context, folderID string) models.Result[[]models.File] {
	return u.services.Files.GetFiles(ctx, u.userID, folderID)
}

func (u *UserScope) GetFileDetails(ctx context.Context, fileID string) models.Result[*models.File] {
	return u.services.Files.GetFileDetails(ctx, u.userID, fileID)
}

func (u *UserScope) CreateFile(ctx context.Context, file models.File) models.Result[*models.File] {
	return u.services.Files.CreateFile(ctx, u.userID, file)
}

func (u *UserScope) UpdateFile(ctx context.Context, fileID string, patch models.FilePatch) models.Result[*models.File] {
	return u.services.Files.UpdateFile(ctx, u.userID, fileID, patch)
}

func (u *UserScope) DeleteFile(ctx context.Context, fileID string) models.Result[*models.File] {
	return u.services.Files.DeleteFile(ctx, u.userID, fileID)
}

func (u *UserScope) AddCollaborators(ctx context.Context, workspaceID string, userIDs []string) models.Result[[]models.User] {
	return u.services.Collaborators.AddCollaborators(ctx, u.userID, workspaceID, userIDs)
}

func (u *UserScope) RemoveCollaborators(ctx context.Context, workspaceID string, userIDs []string) models.Result[[]models.User] {
	return u.services.Collaborators.RemoveCollaborators(ctx, u.userID, workspaceID, userIDs)
}

func (u *UserScope) GetCollaborators(ctx context.Context, workspaceID string) models.Result[[]models.User] {
	return u.services.Collaborators.GetCollaborators(ctx, u.userID, workspaceID)
}

func (u *UserScope) SearchUsers(ctx context.Context, emailPrefix string) models.Result[[]models.User] {
	return u.services.Collaborators.SearchUsers(ctx, u.userID, emailPrefix)
}
