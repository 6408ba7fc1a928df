package workspace

import (
	"context"
	"fmt"

	models "loomspace/internal/domain/models/workspace"
	wsRepo "loomspace/internal/domain/repositories/workspace"
	"loomspace/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

const folderColumns = `id, workspace_id, title, icon_id, data, in_trash, banner_url, created_at`

func scanFolder(row scanner, f *models.Folder) error {
	return row.Scan(
		&f.ID,
		&f.WorkspaceID,
		&f.Title,
		&f.IconID,
		&f.Data,
		&f.InTrash,
		&f.BannerURL,
		&f.CreatedAt,
	)
}

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *postgres.RepositoryConfig) wsRepo.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a folder
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, workspace_id, title, icon_id, data, in_trash, banner_url, created_at)
		VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, $6, $7, COALESCE($8, NOW()))
		RETURNING id, created_at
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		folder.ID,
		folder.WorkspaceID,
		folder.Title,
		folder.IconID,
		folder.Data,
		folder.InTrash,
		folder.BannerURL,
		nullTime(folder.CreatedAt),
	).Scan(&folder.ID, &folder.CreatedAt)

	return postgres.Classify(err, "create folder", "folder "+folder.ID)
}

// GetByID retrieves a folder by ID
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, folderColumns, r.tables.Folders)

	var folder models.Folder
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := scanFolder(executor.QueryRow(ctx, query, id), &folder); err != nil {
		return nil, postgres.Classify(err, "get folder", "folder "+id)
	}
	return &folder, nil
}

// Update writes only the fields named by patch
func (r *PostgresFolderRepository) Update(ctx context.Context, id string, patch models.FolderPatch) (*models.Folder, error) {
	set := postgres.FolderSet(patch)
	if set.Empty() {
		return r.GetByID(ctx, id)
	}

	query, args := set.Build(r.tables.Folders, id, folderColumns)

	var folder models.Folder
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := scanFolder(executor.QueryRow(ctx, query, args...), &folder); err != nil {
		return nil, postgres.Classify(err, "update folder", "folder "+id)
	}
	return &folder, nil
}

// Delete hard-deletes the folder row and returns it. Files must be removed first.
func (r *PostgresFolderRepository) Delete(ctx context.Context, id string) (*models.Folder, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 RETURNING %s`, r.tables.Folders, folderColumns)

	var folder models.Folder
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := scanFolder(executor.QueryRow(ctx, query, id), &folder); err != nil {
		return nil, postgres.Classify(err, "delete folder", "folder "+id)
	}
	return &folder, nil
}

// ListByWorkspace lists a workspace's folders, oldest first
func (r *PostgresFolderRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE workspace_id = $1
		ORDER BY created_at ASC
	`, folderColumns, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	folders := []models.Folder{}
	for rows.Next() {
		var folder models.Folder
		if err := scanFolder(rows, &folder); err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

// DeleteByWorkspace removes every folder of a workspace
func (r *PostgresFolderRepository) DeleteByWorkspace(ctx context.Context, workspaceID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE workspace_id = $1`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, workspaceID); err != nil {
		return fmt.Errorf("delete folders of workspace %s: %w", workspaceID, err)
	}
	return nil
}
