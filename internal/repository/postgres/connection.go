package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"loomspace/internal/domain/repositories"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Workspaces    string
	Folders       string
	Files         string
	Collaborators string
	Users         string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Workspaces:    fmt.Sprintf("%sworkspaces", prefix),
		Folders:       fmt.Sprintf("%sfolders", prefix),
		Files:         fmt.Sprintf("%sfiles", prefix),
		Collaborators: fmt.Sprintf("%scollaborators", prefix),
		Users:         fmt.Sprintf("%susers", prefix),
	}
}

// All returns every table, children before parents (safe drop order).
func (t *TableNames) All() []string {
	return []string{t.Collaborators, t.Files, t.Folders, t.Workspaces, t.Users}
}

// CreateConnectionPool creates a new pgx connection pool.
//
// Port 6543 is the Supabase transaction pooler (PgBouncer), which does not support
// prepared statements. For that port the pool switches to QueryExecModeCacheDescribe
// unless default_query_exec_mode was set explicitly in the connection string.
//
// Table names are interpolated with fmt.Sprintf before the statement is sent, so each
// prefix (dev_, test_, prod_) gets its own cached statements.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction stored in ctx, or pool when there is none.
// Repositories call it on every query so they join an enclosing ExecTx automatically.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
