package workspace

import (
	"context"
	"fmt"
	"log/slog"

	"loomspace/internal/domain"
	models "loomspace/internal/domain/models/workspace"
	wsRepo "loomspace/internal/domain/repositories/workspace"
	"loomspace/internal/domain/services"
	wsSvc "loomspace/internal/domain/services/workspace"
)

type fileService struct {
	fileRepo   wsRepo.FileRepository
	folderRepo wsRepo.FolderRepository
	authorizer services.ResourceAuthorizer
	logger     *slog.Logger
}

// NewFileService creates a new file service
func NewFileService(
	fileRepo wsRepo.FileRepository,
	folderRepo wsRepo.FolderRepository,
	authorizer services.ResourceAuthorizer,
	logger *slog.Logger,
) wsSvc.FileService {
	return &fileService{
		fileRepo:   fileRepo,
		folderRepo: folderRepo,
		authorizer: authorizer,
		logger:     logger,
	}
}

// GetFiles lists the files of a folder, oldest first
func (s *fileService) GetFiles(ctx context.Context, userID, folderID string) models.Result[[]models.File] {
	return guard(ctx, s.logger, "get files", nil, func() ([]models.File, error) {
		if err := validateID("folder", folderID); err != nil {
			return nil, err
		}
		if err := s.authorizer.CanAccessFolder(ctx, userID, folderID); err != nil {
			return nil, err
		}
		return s.fileRepo.ListByFolder(ctx, folderID)
	})
}

// GetFileDetails retrieves one file
func (s *fileService) GetFileDetails(ctx context.Context, userID, fileID string) models.Result[*models.File] {
	return guard(ctx, s.logger, "get file", nil, func() (*models.File, error) {
		if err := validateID("file", fileID); err != nil {
			return nil, err
		}
		if err := s.authorizer.CanAccessFile(ctx, userID, fileID); err != nil {
			return nil, err
		}
		return s.fileRepo.GetByID(ctx, fileID)
	})
}

// CreateFile creates a file inside a folder. WorkspaceID is taken from the folder
// when empty and must match it otherwise.
func (s *fileService) CreateFile(ctx context.Context, userID string, file models.File) models.Result[*models.File] {
	return guard(ctx, s.logger, "create file", nil, func() (*models.File, error) {
		if err := validateNewFile(&file); err != nil {
			return nil, err
		}

		folder, err := s.folderRepo.GetByID(ctx, file.FolderID)
		if err != nil {
			return nil, fmt.Errorf("invalid folder: %w", err)
		}
		switch file.WorkspaceID {
		case "":
			file.WorkspaceID = folder.WorkspaceID
		case folder.WorkspaceID:
		default:
			return nil, fmt.Errorf("folder %s is not in workspace %s: %w", folder.ID, file.WorkspaceID, domain.ErrValidation)
		}

		if err := s.authorizer.CanAccessWorkspace(ctx, userID, file.WorkspaceID); err != nil {
			return nil, err
		}

		if err := s.fileRepo.Create(ctx, &file); err != nil {
			return nil, err
		}

		s.logger.Info("file created",
			"id", file.ID,
			"title", file.Title,
			"folder_id", file.FolderID,
			"workspace_id", file.WorkspaceID,
		)
		return &file, nil
	})
}

// UpdateFile applies a partial update
func (s *fileService) UpdateFile(ctx context.Context, userID, fileID string, patch models.FilePatch) models.Result[*models.File] {
	return guard(ctx, s.logger, "update file", nil, func() (*models.File, error) {
		if err := validateID("file", fileID); err != nil {
			return nil, err
		}
		if err := validateFilePatch(&patch); err != nil {
			return nil, err
		}
		if err := s.authorizer.CanAccessFile(ctx, userID, fileID); err != nil {
			return nil, err
		}

		file, err := s.fileRepo.Update(ctx, fileID, patch)
		if err != nil {
			return nil, err
		}

		s.logger.Debug("file updated", "id", fileID, "trashed", file.IsTrashed())
		return file, nil
	})
}

// DeleteFile hard-deletes a file
func (s *fileService) DeleteFile(ctx context.Context, userID, fileID string) models.Result[*models.File] {
	return guard(ctx, s.logger, "delete file", nil, func() (*models.File, error) {
		if err := validateID("file", fileID); err != nil {
			return nil, err
		}
		if err := s.authorizer.CanAccessFile(ctx, userID, fileID); err != nil {
			return nil, err
		}

		file, err := s.fileRepo.Delete(ctx, fileID)
		if err != nil {
			return nil, err
		}

		s.logger.Info("file deleted", "id", fileID, "folder_id", file.FolderID)
		return file, nil
	})
}
