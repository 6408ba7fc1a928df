package workspace

import (
	"context"
	"fmt"
	"strings"

	models "loomspace/internal/domain/models/workspace"
	wsRepo "loomspace/internal/domain/repositories/workspace"
	"loomspace/internal/repository/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresUserRepository implements the UserRepository interface
type PostgresUserRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewUserRepository creates a new user profile repository
func NewUserRepository(config *postgres.RepositoryConfig) wsRepo.UserRepository {
	return &PostgresUserRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// GetByID retrieves a profile by user ID
func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT id, email, full_name, avatar_url FROM %s WHERE id = $1`, r.tables.Users)

	var user models.User
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(&user.ID, &user.Email, &user.FullName, &user.AvatarURL)
	if err != nil {
		return nil, postgres.Classify(err, "get user", "user "+id)
	}
	return &user, nil
}

// SearchByEmailPrefix matches emails with ILIKE '<prefix>%'
func (r *PostgresUserRepository) SearchByEmailPrefix(ctx context.Context, prefix string, limit int) ([]models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, email, full_name, avatar_url
		FROM %s
		WHERE email ILIKE $1
		ORDER BY email ASC
		LIMIT $2
	`, r.tables.Users)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, escapeLike(prefix)+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	defer rows.Close()

	return collectUsers(rows)
}

// Upsert creates or refreshes a profile
func (r *PostgresUserRepository) Upsert(ctx context.Context, user *models.User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, email, full_name, avatar_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET email = EXCLUDED.email, full_name = EXCLUDED.full_name, avatar_url = EXCLUDED.avatar_url
	`, r.tables.Users)

	executor := postgres.GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query, user.ID, user.Email, user.FullName, user.AvatarURL)
	return postgres.Classify(err, "upsert user", "user "+user.ID)
}

func collectUsers(rows pgx.Rows) ([]models.User, error) {
	users := []models.User{}
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Email, &user.FullName, &user.AvatarURL); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
