package auth

import (
	"context"
	"errors"
	"fmt"

	"loomspace/internal/domain"
	wsRepo "loomspace/internal/domain/repositories/workspace"
)

// MembershipAuthorizer implements ResourceAuthorizer using ownership and collaborator rows.
// A user can access a resource if they own or collaborate on the workspace that contains it.
// Only the owner can manage the workspace itself.
type MembershipAuthorizer struct {
	workspaceRepo    wsRepo.WorkspaceRepository
	folderRepo       wsRepo.FolderRepository
	fileRepo         wsRepo.FileRepository
	collaboratorRepo wsRepo.CollaboratorRepository
}

// NewMembershipAuthorizer creates a new membership-based authorizer
func NewMembershipAuthorizer(
	workspaceRepo wsRepo.WorkspaceRepository,
	folderRepo wsRepo.FolderRepository,
	fileRepo wsRepo.FileRepository,
	collaboratorRepo wsRepo.CollaboratorRepository,
) *MembershipAuthorizer {
	return &MembershipAuthorizer{
		workspaceRepo:    workspaceRepo,
		folderRepo:       folderRepo,
		fileRepo:         fileRepo,
		collaboratorRepo: collaboratorRepo,
	}
}

// CanAccessWorkspace checks if user owns or collaborates on the workspace
func (a *MembershipAuthorizer) CanAccessWorkspace(ctx context.Context, userID, workspaceID string) error {
	ws, err := a.workspaceRepo.GetByID(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("get workspace for auth: %w", err)
	}
	if ws.OwnerID == userID {
		return nil
	}

	member, err := a.collaboratorRepo.Exists(ctx, workspaceID, userID)
	if err != nil {
		return fmt.Errorf("check workspace access: %w", err)
	}
	if !member {
		return fmt.Errorf("access denied to workspace %s: %w", workspaceID, domain.ErrForbidden)
	}
	return nil
}

// CanManageWorkspace checks if user owns the workspace
func (a *MembershipAuthorizer) CanManageWorkspace(ctx context.Context, userID, workspaceID string) error {
	ws, err := a.workspaceRepo.GetByID(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("get workspace for auth: %w", err)
	}
	if ws.OwnerID != userID {
		return fmt.Errorf("only the owner can manage workspace %s: %w", workspaceID, domain.ErrForbidden)
	}
	return nil
}

// CanAccessFolder checks if user can access a folder (via its workspace)
func (a *MembershipAuthorizer) CanAccessFolder(ctx context.Context, userID, folderID string) error {
	folder, err := a.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return fmt.Errorf("get folder for auth: %w", err)
	}
	return a.CanAccessWorkspace(ctx, userID, folder.WorkspaceID)
}

// CanAccessFile checks if user can access a file (via its workspace)
func (a *MembershipAuthorizer) CanAccessFile(ctx context.Context, userID, fileID string) error {
	file, err := a.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return fmt.Errorf("get file for auth: %w", err)
	}
	return a.CanAccessWorkspace(ctx, userID, file.WorkspaceID)
}

// CanAccessDocument tries documentID as a file, then a folder, then a workspace
func (a *MembershipAuthorizer) CanAccessDocument(ctx context.Context, userID, documentID string) error {
	checks := []func(context.Context, string, string) error{
		a.CanAccessFile,
		a.CanAccessFolder,
		a.CanAccessWorkspace,
	}
	for _, check := range checks {
		err := check(ctx, userID, documentID)
		if err == nil || !errors.Is(err, domain.ErrNotFound) {
			return err
		}
	}
	return fmt.Errorf("document %s: %w", documentID, domain.ErrNotFound)
}
