package workspace

import (
	"context"
	"fmt"

	models "loomspace/internal/domain/models/workspace"
	wsRepo "loomspace/internal/domain/repositories/workspace"
	"loomspace/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

const fileColumns = `id, folder_id, workspace_id, title, icon_id, data, in_trash, banner_url, created_at`

func scanFile(row scanner, f *models.File) error {
	return row.Scan(
		&f.ID,
		&f.FolderID,
		&f.WorkspaceID,
		&f.Title,
		&f.IconID,
		&f.Data,
		&f.InTrash,
		&f.BannerURL,
		&f.CreatedAt,
	)
}

// PostgresFileRepository implements the FileRepository interface
type PostgresFileRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewFileRepository creates a new file repository
func NewFileRepository(config *postgres.RepositoryConfig) wsRepo.FileRepository {
	return &PostgresFileRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a file
func (r *PostgresFileRepository) Create(ctx context.Context, file *models.File) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, folder_id, workspace_id, title, icon_id, data, in_trash, banner_url, created_at)
		VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, $6, $7, $8, COALESCE($9, NOW()))
		RETURNING id, created_at
	`, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		file.ID,
		file.FolderID,
		file.WorkspaceID,
		file.Title,
		file.IconID,
		file.Data,
		file.InTrash,
		file.BannerURL,
		nullTime(file.CreatedAt),
	).Scan(&file.ID, &file.CreatedAt)

	return postgres.Classify(err, "create file", "file "+file.ID)
}

// GetByID retrieves a file by ID
func (r *PostgresFileRepository) GetByID(ctx context.Context, id string) (*models.File, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, fileColumns, r.tables.Files)

	var file models.File
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := scanFile(executor.QueryRow(ctx, query, id), &file); err != nil {
		return nil, postgres.Classify(err, "get file", "file "+id)
	}
	return &file, nil
}

// Update writes only the fields named by patch
func (r *PostgresFileRepository) Update(ctx context.Context, id string, patch models.FilePatch) (*models.File, error) {
	set := postgres.FileSet(patch)
	if set.Empty() {
		return r.GetByID(ctx, id)
	}

	query, args := set.Build(r.tables.Files, id, fileColumns)

	var file models.File
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := scanFile(executor.QueryRow(ctx, query, args...), &file); err != nil {
		return nil, postgres.Classify(err, "update file", "file "+id)
	}
	return &file, nil
}

// Delete hard-deletes a file and returns it
func (r *PostgresFileRepository) Delete(ctx context.Context, id string) (*models.File, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 RETURNING %s`, r.tables.Files, fileColumns)

	var file models.File
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := scanFile(executor.QueryRow(ctx, query, id), &file); err != nil {
		return nil, postgres.Classify(err, "delete file", "file "+id)
	}
	return &file, nil
}

// ListByFolder lists a folder's files, oldest first
func (r *PostgresFileRepository) ListByFolder(ctx context.Context, folderID string) ([]models.File, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE folder_id = $1
		ORDER BY created_at ASC
	`, fileColumns, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, folderID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	files := []models.File{}
	for rows.Next() {
		var file models.File
		if err := scanFile(rows, &file); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}

	return files, nil
}

// DeleteByFolder removes every file of a folder
func (r *PostgresFileRepository) DeleteByFolder(ctx context.Context, folderID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE folder_id = $1`, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, folderID); err != nil {
		return fmt.Errorf("delete files of folder %s: %w", folderID, err)
	}
	return nil
}

// DeleteByWorkspace removes every file of a workspace
func (r *PostgresFileRepository) DeleteByWorkspace(ctx context.Context, workspaceID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE workspace_id = $1`, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, workspaceID); err != nil {
		return fmt.Errorf("delete files of workspace %s: %w", workspaceID, err)
	}
	return nil
}
