package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema returns the CREATE statements for every table, parents first.
func schema(t *TableNames) []string {
	return []string{
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY,
				email TEXT NOT NULL,
				full_name TEXT,
				avatar_url TEXT
			)`, t.Users),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				workspace_owner UUID NOT NULL,
				title TEXT NOT NULL,
				icon_id TEXT NOT NULL,
				data TEXT,
				in_trash TEXT,
				banner_url TEXT,
				logo TEXT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, t.Workspaces),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				workspace_id UUID NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				title TEXT NOT NULL,
				icon_id TEXT NOT NULL,
				data TEXT,
				in_trash TEXT,
				banner_url TEXT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, t.Folders, t.Workspaces),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				folder_id UUID NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				workspace_id UUID NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				title TEXT NOT NULL,
				icon_id TEXT NOT NULL,
				data TEXT,
				in_trash TEXT,
				banner_url TEXT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, t.Files, t.Folders, t.Workspaces),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				workspace_id UUID NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				user_id UUID NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				PRIMARY KEY (workspace_id, user_id)
			)`, t.Collaborators, t.Workspaces, t.Users),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_owner ON %s(workspace_owner)`, t.Workspaces, t.Workspaces),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_workspace ON %s(workspace_id, created_at)`, t.Folders, t.Folders),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_folder ON %s(folder_id, created_at)`, t.Files, t.Files),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_user ON %s(user_id)`, t.Collaborators, t.Collaborators),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_email ON %s(lower(email) text_pattern_ops)`, t.Users, t.Users),
	}
}

// EnsureSchema creates any missing tables and indexes.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	for _, stmt := range schema(tables) {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// DropStatements returns DROP statements for every table in a safe order.
func DropStatements(tables *TableNames) []string {
	stmts := make([]string, 0, len(tables.All()))
	for _, table := range tables.All() {
		stmts = append(stmts, "DROP TABLE IF EXISTS "+table+" CASCADE")
	}
	return stmts
}
