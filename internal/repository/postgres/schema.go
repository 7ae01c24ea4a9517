package postgres

import (
	"context"
	"fmt"
)

// EnsureSchema creates the history tables if they do not exist
func EnsureSchema(ctx context.Context, cfg *RepositoryConfig) error {
	ddl := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			workspace_id TEXT PRIMARY KEY,
			last_session_id BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS %[2]s (
			workspace_id TEXT NOT NULL,
			id BIGINT NOT NULL,
			kind TEXT NOT NULL CHECK (kind IN ('chat', 'compare')),
			body JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (workspace_id, id)
		);
	`, cfg.Tables.Workspaces, cfg.Tables.Sessions)

	if _, err := cfg.Pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("create history tables: %w", err)
	}
	cfg.Logger.Debug("history schema ready", "sessions", cfg.Tables.Sessions, "workspaces", cfg.Tables.Workspaces)
	return nil
}
