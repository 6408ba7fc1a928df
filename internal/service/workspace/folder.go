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

type folderService struct {
	folderRepo wsRepo.FolderRepository
	fileRepo   wsRepo.FileRepository
	txManager  repositories.TransactionManager
	authorizer services.ResourceAuthorizer
	logger     *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo wsRepo.FolderRepository,
	fileRepo wsRepo.FileRepository,
	txManager repositories.TransactionManager,
	authorizer services.ResourceAuthorizer,
	logger *slog.Logger,
) wsSvc.FolderService {
	return &folderService{
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		txManager:  txManager,
		authorizer: authorizer,
		logger:     logger,
	}
}

// GetFolders lists the folders of a workspace, oldest first
func (s *folderService) GetFolders(ctx context.Context, userID, workspaceID string) models.Result[[]models.Folder] {
	return guard(ctx, s.logger, "get folders", nil, func() ([]models.Folder, error) {
		if err := validateID("workspace", workspaceID); err != nil {
			return nil, err
		}
		if err := s.authorizer.CanAccessWorkspace(ctx, userID, workspaceID); err != nil {
			return nil, err
		}
		return s.folderRepo.ListByWorkspace(ctx, workspaceID)
	})
}

// GetFolderDetails retrieves one folder
func (s *folderService) GetFolderDetails(ctx context.Context, userID, folderID string) models.Result[*models.Folder] {
	return guard(ctx, s.logger, "get folder", nil, func() (*models.Folder, error) {
		if err := validateID("folder", folderID); err != nil {
			return nil, err
		}
		if err := s.authorizer.CanAccessFolder(ctx, userID, folderID); err != nil {
			return nil, err
		}
		return s.folderRepo.GetByID(ctx, folderID)
	})
}

// CreateFolder creates a folder in a workspace the user can access
func (s *folderService) CreateFolder(ctx context.Context, userID string, folder models.Folder) models.Result[*models.Folder] {
	return guard(ctx, s.logger, "create folder", nil, func() (*models.Folder, error) {
		if err := validateNewFolder(&folder); err != nil {
			return nil, err
		}
		if err := s.authorizer.CanAccessWorkspace(ctx, userID, folder.WorkspaceID); err != nil {
			return nil, err
		}

		if err := s.folderRepo.Create(ctx, &folder); err != nil {
			return nil, err
		}

		s.logger.Info("folder created",
			"id", folder.ID,
			"title", folder.Title,
			"workspace_id", folder.WorkspaceID,
		)
		return &folder, nil
	})
}

// UpdateFolder applies a partial update
func (s *folderService) UpdateFolder(ctx context.Context, userID, folderID string, patch models.FolderPatch) models.Result[*models.Folder] {
	return guard(ctx, s.logger, "update folder", nil, func() (*models.Folder, error) {
		if err := validateID("folder", folderID); err != nil {
			return nil, err
		}
		if err := validateFolderPatch(&patch); err != nil {
			return nil, err
		}
		if err := s.authorizer.CanAccessFolder(ctx, userID, folderID); err != nil {
			return nil, err
		}

		folder, err := s.folderRepo.Update(ctx, folderID, patch)
		if err != nil {
			return nil, err
		}

		s.logger.Debug("folder updated", "id", folderID, "trashed", folder.IsTrashed())
		return folder, nil
	})
}

// DeleteFolder hard-deletes the folder's files and then the folder, atomically
func (s *folderService) DeleteFolder(ctx context.Context, userID, folderID string) models.Result[*models.Folder] {
	return guard(ctx, s.logger, "delete folder", nil, func() (*models.Folder, error) {
		if err := validateID("folder", folderID); err != nil {
			return nil, err
		}
		if err := s.authorizer.CanAccessFolder(ctx, userID, folderID); err != nil {
			return nil, err
		}

		var deleted *models.Folder
		err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
			if err := s.fileRepo.DeleteByFolder(txCtx, folderID); err != nil {
				return err
			}
			folder, err := s.folderRepo.Delete(txCtx, folderID)
			if err != nil {
				return err
			}
			deleted = folder
			return nil
		})
		if err != nil {
			return nil, err
		}

		s.logger.Info("folder deleted", "id", folderID, "workspace_id", deleted.WorkspaceID)
		return deleted, nil
	})
}
