package workspace

import (
	"context"
	"fmt"

	models "loomspace/internal/domain/models/workspace"
	wsRepo "loomspace/internal/domain/repositories/workspace"
	"loomspace/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

const workspaceColumns = `id, workspace_owner, title, icon_id, data, in_trash, banner_url, logo, created_at`

// scanner is satisfied by pgx.Row and pgx.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanWorkspace(row scanner, ws *models.Workspace) error {
	return row.Scan(
		&ws.ID,
		&ws.OwnerID,
		&ws.Title,
		&ws.IconID,
		&ws.Data,
		&ws.InTrash,
		&ws.BannerURL,
		&ws.Logo,
		&ws.CreatedAt,
	)
}

// PostgresWorkspaceRepository implements the WorkspaceRepository interface
type PostgresWorkspaceRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewWorkspaceRepository creates a new workspace repository
func NewWorkspaceRepository(config *postgres.RepositoryConfig) wsRepo.WorkspaceRepository {
	return &PostgresWorkspaceRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a workspace; empty ID and zero CreatedAt fall back to database defaults
func (r *PostgresWorkspaceRepository) Create(ctx context.Context, ws *models.Workspace) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, workspace_owner, title, icon_id, data, in_trash, banner_url, logo, created_at)
		VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, $6, $7, $8, COALESCE($9, NOW()))
		RETURNING id, created_at
	`, r.tables.Workspaces)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		ws.ID,
		ws.OwnerID,
		ws.Title,
		ws.IconID,
		ws.Data,
		ws.InTrash,
		ws.BannerURL,
		ws.Logo,
		nullTime(ws.CreatedAt),
	).Scan(&ws.ID, &ws.CreatedAt)

	return postgres.Classify(err, "create workspace", "workspace "+ws.ID)
}

// GetByID retrieves a workspace by ID
func (r *PostgresWorkspaceRepository) GetByID(ctx context.Context, id string) (*models.Workspace, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, workspaceColumns, r.tables.Workspaces)

	var ws models.Workspace
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := scanWorkspace(executor.QueryRow(ctx, query, id), &ws); err != nil {
		return nil, postgres.Classify(err, "get workspace", "workspace "+id)
	}
	return &ws, nil
}

// Update writes only the fields named by patch
func (r *PostgresWorkspaceRepository) Update(ctx context.Context, id string, patch models.WorkspacePatch) (*models.Workspace, error) {
	set := postgres.WorkspaceSet(patch)
	if set.Empty() {
		return r.GetByID(ctx, id)
	}

	query, args := set.Build(r.tables.Workspaces, id, workspaceColumns)

	var ws models.Workspace
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := scanWorkspace(executor.QueryRow(ctx, query, args...), &ws); err != nil {
		return nil, postgres.Classify(err, "update workspace", "workspace "+id)
	}
	return &ws, nil
}

// Delete hard-deletes a workspace row and returns it
func (r *PostgresWorkspaceRepository) Delete(ctx context.Context, id string) (*models.Workspace, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 RETURNING %s`, r.tables.Workspaces, workspaceColumns)

	var ws models.Workspace
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := scanWorkspace(executor.QueryRow(ctx, query, id), &ws); err != nil {
		return nil, postgres.Classify(err, "delete workspace", "workspace "+id)
	}
	return &ws, nil
}

// ListPrivate lists workspaces owned by userID that nobody else collaborates on
func (r *PostgresWorkspaceRepository) ListPrivate(ctx context.Context, userID string) ([]models.Workspace, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s w
		WHERE w.workspace_owner = $1
		  AND NOT EXISTS (SELECT 1 FROM %s c WHERE c.workspace_id = w.id)
		ORDER BY w.created_at ASC
	`, prefixed("w", workspaceColumns), r.tables.Workspaces, r.tables.Collaborators)

	return r.list(ctx, "list private workspaces", query, userID)
}

// ListShared lists workspaces owned by userID that have at least one collaborator
func (r *PostgresWorkspaceRepository) ListShared(ctx context.Context, userID string) ([]models.Workspace, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s w
		WHERE w.workspace_owner = $1
		  AND EXISTS (SELECT 1 FROM %s c WHERE c.workspace_id = w.id)
		ORDER BY w.created_at ASC
	`, prefixed("w", workspaceColumns), r.tables.Workspaces, r.tables.Collaborators)

	return r.list(ctx, "list shared workspaces", query, userID)
}

// ListCollaborating lists workspaces userID has been added to
func (r *PostgresWorkspaceRepository) ListCollaborating(ctx context.Context, userID string) ([]models.Workspace, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s w
		INNER JOIN %s c ON c.workspace_id = w.id
		WHERE c.user_id = $1
		ORDER BY w.created_at ASC
	`, prefixed("w", workspaceColumns), r.tables.Workspaces, r.tables.Collaborators)

	return r.list(ctx, "list collaborating workspaces", query, userID)
}

func (r *PostgresWorkspaceRepository) list(ctx context.Context, op, query string, args ...interface{}) ([]models.Workspace, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	workspaces := []models.Workspace{}
	for rows.Next() {
		var ws models.Workspace
		if err := scanWorkspace(rows, &ws); err != nil {
			return nil, fmt.Errorf("scan workspace: %w", err)
		}
		workspaces = append(workspaces, ws)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workspaces: %w", err)
	}

	return workspaces, nil
}
