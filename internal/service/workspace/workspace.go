package workspace

import (
	"context"
	"log/slog"

	models "loomspace/internal/domain/models/workspace"
	"loomspace/internal/domain/repositories"
	wsRepo "loomspace/internal/domain/repositories/workspace"
	"loomspace/internal/domain/services"
	wsSvc "loomspace/internal/domain/services/workspace"
)

type workspaceService struct {
	workspaceRepo    wsRepo.WorkspaceRepository
	folderRepo       wsRepo.FolderRepository
	fileRepo         wsRepo.FileRepository
	collaboratorRepo wsRepo.CollaboratorRepository
	txManager        repositories.TransactionManager
	authorizer       services.ResourceAuthorizer
	logger           *slog.Logger
}

// NewWorkspaceService creates a new workspace service
func NewWorkspaceService(
	workspaceRepo wsRepo.WorkspaceRepository,
	folderRepo wsRepo.FolderRepository,
	fileRepo wsRepo.FileRepository,
	collaboratorRepo wsRepo.CollaboratorRepository,
	txManager repositories.TransactionManager,
	authorizer services.ResourceAuthorizer,
	logger *slog.Logger,
) wsSvc.WorkspaceService {
	return &workspaceService{
		workspaceRepo:    workspaceRepo,
		folderRepo:       folderRepo,
		fileRepo:         fileRepo,
		collaboratorRepo: collaboratorRepo,
		txManager:        txManager,
		authorizer:       authorizer,
		logger:           logger,
	}
}

// CreateWorkspace creates a workspace owned by userID
func (s *workspaceService) CreateWorkspace(ctx context.Context, userID string, ws models.Workspace) models.Result[*models.Workspace] {
	return guard(ctx, s.logger, "create workspace", nil, func() (*models.Workspace, error) {
		ws.OwnerID = userID
		if err := validateNewWorkspace(&ws); err != nil {
			return nil, err
		}

		if err := s.workspaceRepo.Create(ctx, &ws); err != nil {
			return nil, err
		}

		s.logger.Info("workspace created",
			"id", ws.ID,
			"title", ws.Title,
			"owner_id", userID,
		)
		return &ws, nil
	})
}

// GetWorkspaceDetails retrieves one workspace the user can access
func (s *workspaceService) GetWorkspaceDetails(ctx context.Context, userID, workspaceID string) models.Result[*models.Workspace] {
	return guard(ctx, s.logger, "get workspace", nil, func() (*models.Workspace, error) {
		if err := validateID("workspace", workspaceID); err != nil {
			return nil, err
		}
		if err := s.authorizer.CanAccessWorkspace(ctx, userID, workspaceID); err != nil {
			return nil, err
		}
		return s.workspaceRepo.GetByID(ctx, workspaceID)
	})
}

// UpdateWorkspace applies a partial update
func (s *workspaceService) UpdateWorkspace(ctx context.Context, userID, workspaceID string, patch models.WorkspacePatch) models.Result[*models.Workspace] {
	return guard(ctx, s.logger, "update workspace", nil, func() (*models.Workspace, error) {
		if err := validateID("workspace", workspaceID); err != nil {
			return nil, err
		}
		if err := validateWorkspacePatch(&patch); err != nil {
			return nil, err
		}
		if err := s.authorizer.CanAccessWorkspace(ctx, userID, workspaceID); err != nil {
			return nil, err
		}

		ws, err := s.workspaceRepo.Update(ctx, workspaceID, patch)
		if err != nil {
			return nil, err
		}

		s.logger.Debug("workspace updated", "id", workspaceID, "trashed", ws.IsTrashed())
		return ws, nil
	})
}

// DeleteWorkspace hard-deletes a workspace with its folders, files and memberships
func (s *workspaceService) DeleteWorkspace(ctx context.Context, userID, workspaceID string) models.Result[*models.Workspace] {
	return guard(ctx, s.logger, "delete workspace", nil, func() (*models.Workspace, error) {
		if err := validateID("workspace", workspaceID); err != nil {
			return nil, err
		}
		if err := s.authorizer.CanManageWorkspace(ctx, userID, workspaceID); err != nil {
			return nil, err
		}

		var deleted *models.Workspace
		err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
			if err := s.collaboratorRepo.DeleteByWorkspace(txCtx, workspaceID); err != nil {
				return err
			}
			if err := s.fileRepo.DeleteByWorkspace(txCtx, workspaceID); err != nil {
				return err
			}
			if err := s.folderRepo.DeleteByWorkspace(txCtx, workspaceID); err != nil {
				return err
			}
			ws, err := s.workspaceRepo.Delete(txCtx, workspaceID)
			if err != nil {
				return err
			}
			deleted = ws
			return nil
		})
		if err != nil {
			return nil, err
		}

		s.logger.Info("workspace deleted", "id", workspaceID, "owner_id", userID)
		return deleted, nil
	})
}

// ListWorkspaces returns every workspace visible to userID, grouped by relationship
func (s *workspaceService) ListWorkspaces(ctx context.Context, userID string) models.Result[*models.Listing] {
	empty := &models.Listing{
		Private:       []models.Workspace{},
		Shared:        []models.Workspace{},
		Collaborating: []models.Workspace{},
	}
	return guard(ctx, s.logger, "list workspaces", empty, func() (*models.Listing, error) {
		if err := validateID("user", userID); err != nil {
			return nil, err
		}

		private, err := s.workspaceRepo.ListPrivate(ctx, userID)
		if err != nil {
			return nil, err
		}
		shared, err := s.workspaceRepo.ListShared(ctx, userID)
		if err != nil {
			return nil, err
		}
		collaborating, err := s.workspaceRepo.ListCollaborating(ctx, userID)
		if err != nil {
			return nil, err
		}

		return &models.Listing{
			Private:       private,
			Shared:        shared,
			Collaborating: collaborating,
		}, nil
	})
}
