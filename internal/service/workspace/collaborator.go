package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"loomspace/internal/config"
	"loomspace/internal/domain"
	models "loomspace/internal/domain/models/workspace"
	"loomspace/internal/domain/repositories"
	wsRepo "loomspace/internal/domain/repositories/workspace"
	"loomspace/internal/domain/services"
	wsSvc "loomspace/internal/domain/services/workspace"
)

type collaboratorService struct {
	collaboratorRepo wsRepo.CollaboratorRepository
	userRepo         wsRepo.UserRepository
	txManager        repositories.TransactionManager
	authorizer       services.ResourceAuthorizer
	logger           *slog.Logger
}

// NewCollaboratorService creates a new collaborator service
func NewCollaboratorService(
	collaboratorRepo wsRepo.CollaboratorRepository,
	userRepo wsRepo.UserRepository,
	txManager repositories.TransactionManager,
	authorizer services.ResourceAuthorizer,
	logger *slog.Logger,
) wsSvc.CollaboratorService {
	return &collaboratorService{
		collaboratorRepo: collaboratorRepo,
		userRepo:         userRepo,
		txManager:        txManager,
		authorizer:       authorizer,
		logger:           logger,
	}
}

// AddCollaborators shares a workspace. Only the owner may add, and not themselves.
func (s *collaboratorService) AddCollaborators(ctx context.Context, userID, workspaceID string, userIDs []string) models.Result[[]models.User] {
	return guard(ctx, s.logger, "add collaborators", []models.User{}, func() ([]models.User, error) {
		if err := s.validateBatch(workspaceID, userIDs); err != nil {
			return nil, err
		}
		if err := s.authorizer.CanManageWorkspace(ctx, userID, workspaceID); err != nil {
			return nil, err
		}
		for _, id := range userIDs {
			if id == userID {
				return nil, fmt.Errorf("owner cannot be added as a collaborator: %w", domain.ErrValidation)
			}
		}

		err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
			for _, id := range userIDs {
				if err := s.collaboratorRepo.Add(txCtx, workspaceID, id); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}

		s.logger.Info("collaborators added", "workspace_id", workspaceID, "count", len(userIDs))
		return s.collaboratorRepo.ListUsers(ctx, workspaceID)
	})
}

// RemoveCollaborators revokes access. The owner may remove anyone; a collaborator may remove only themselves.
func (s *collaboratorService) RemoveCollaborators(ctx context.Context, userID, workspaceID string, userIDs []string) models.Result[[]models.User] {
	return guard(ctx, s.logger, "remove collaborators", []models.User{}, func() ([]models.User, error) {
		if err := s.validateBatch(workspaceID, userIDs); err != nil {
			return nil, err
		}
		if !(len(userIDs) == 1 && userIDs[0] == userID) {
			if err := s.authorizer.CanManageWorkspace(ctx, userID, workspaceID); err != nil {
				return nil, err
			}
		}

		err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
			for _, id := range userIDs {
				if err := s.collaboratorRepo.Remove(txCtx, workspaceID, id); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}

		s.logger.Info("collaborators removed", "workspace_id", workspaceID, "count", len(userIDs))
		return s.collaboratorRepo.ListUsers(ctx, workspaceID)
	})
}

// GetCollaborators lists the profiles of a workspace's collaborators
func (s *collaboratorService) GetCollaborators(ctx context.Context, userID, workspaceID string) models.Result[[]models.User] {
	return guard(ctx, s.logger, "get collaborators", []models.User{}, func() ([]models.User, error) {
		if err := validateID("workspace", workspaceID); err != nil {
			return nil, err
		}
		if err := s.authorizer.CanAccessWorkspace(ctx, userID, workspaceID); err != nil {
			return nil, err
		}
		return s.collaboratorRepo.ListUsers(ctx, workspaceID)
	})
}

// SearchUsers matches users by email prefix. An empty prefix returns no users.
func (s *collaboratorService) SearchUsers(ctx context.Context, userID, emailPrefix string) models.Result[[]models.User] {
	return guard(ctx, s.logger, "search users", []models.User{}, func() ([]models.User, error) {
		prefix := strings.TrimSpace(emailPrefix)
		if prefix == "" {
			return []models.User{}, nil
		}

		// One extra row so dropping the caller still fills the page
		found, err := s.userRepo.SearchByEmailPrefix(ctx, prefix, config.MaxSearchResults+1)
		if err != nil {
			return nil, err
		}

		users := make([]models.User, 0, len(found))
		for _, u := range found {
			if u.ID != userID && len(users) < config.MaxSearchResults {
				users = append(users, u)
			}
		}
		return users, nil
	})
}

func (s *collaboratorService) validateBatch(workspaceID string, userIDs []string) error {
	if err := validateID("workspace", workspaceID); err != nil {
		return err
	}
	if len(userIDs) == 0 {
		return fmt.Errorf("no users given: %w", domain.ErrValidation)
	}
	if len(userIDs) > config.MaxCollaboratorBatch {
		return fmt.Errorf("at most %d users per call: %w", config.MaxCollaboratorBatch, domain.ErrValidation)
	}
	return validateIDs("user", userIDs...)
}
