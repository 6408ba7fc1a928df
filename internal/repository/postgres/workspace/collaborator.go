package workspace

import (
	"context"
	"fmt"

	models "loomspace/internal/domain/models/workspace"
	wsRepo "loomspace/internal/domain/repositories/workspace"
	"loomspace/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresCollaboratorRepository implements the CollaboratorRepository interface
type PostgresCollaboratorRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewCollaboratorRepository creates a new collaborator repository
func NewCollaboratorRepository(config *postgres.RepositoryConfig) wsRepo.CollaboratorRepository {
	return &PostgresCollaboratorRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Add inserts a membership; the (workspace_id, user_id) key makes repeats a no-op
func (r *PostgresCollaboratorRepository) Add(ctx context.Context, workspaceID, userID string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (workspace_id, user_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (workspace_id, user_id) DO NOTHING
	`, r.tables.Collaborators)

	executor := postgres.GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query, workspaceID, userID)
	return postgres.Classify(err, "add collaborator", fmt.Sprintf("collaborator %s on workspace %s", userID, workspaceID))
}

// Remove deletes a membership if present
func (r *PostgresCollaboratorRepository) Remove(ctx context.Context, workspaceID, userID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE workspace_id = $1 AND user_id = $2`, r.tables.Collaborators)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, workspaceID, userID); err != nil {
		return fmt.Errorf("remove collaborator: %w", err)
	}
	return nil
}

// Exists reports whether userID collaborates on workspaceID
func (r *PostgresCollaboratorRepository) Exists(ctx context.Context, workspaceID, userID string) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (SELECT 1 FROM %s WHERE workspace_id = $1 AND user_id = $2)
	`, r.tables.Collaborators)

	var exists bool
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, workspaceID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check collaborator: %w", err)
	}
	return exists, nil
}

// ListUsers returns collaborator profiles in the order they were added
func (r *PostgresCollaboratorRepository) ListUsers(ctx context.Context, workspaceID string) ([]models.User, error) {
	query := fmt.Sprintf(`
		SELECT u.id, u.email, u.full_name, u.avatar_url
		FROM %s c
		INNER JOIN %s u ON u.id = c.user_id
		WHERE c.workspace_id = $1
		ORDER BY c.created_at ASC
	`, r.tables.Collaborators, r.tables.Users)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list collaborators: %w", err)
	}
	defer rows.Close()

	return collectUsers(rows)
}

// DeleteByWorkspace removes every membership of a workspace
func (r *PostgresCollaboratorRepository) DeleteByWorkspace(ctx context.Context, workspaceID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE workspace_id = $1`, r.tables.Collaborators)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, workspaceID); err != nil {
		return fmt.Errorf("delete collaborators of workspace %s: %w", workspaceID, err)
	}
	return nil
}
