package postgres

import (
	"context"
	"fmt"
	"time"
)

// PurgeExpired deletes sessions and counters of workspaces first written
// before cutoff. A workspace's counter row is created after its token was
// issued, so with cutoff = now - token lifetime no live token can reach the
// purged rows.
func PurgeExpired(ctx context.Context, cfg *RepositoryConfig, cutoff time.Time) (int64, error) {
	tx := NewTransactionManager(cfg.Pool, cfg.Logger)

	var purged int64
	err := tx.ExecTx(ctx, func(ctx context.Context) error {
		exec := GetExecutor(ctx, cfg.Pool)

		sessions := fmt.Sprintf(`
			DELETE FROM %s
			WHERE workspace_id IN (SELECT workspace_id FROM %s WHERE created_at < $1)
		`, cfg.Tables.Sessions, cfg.Tables.Workspaces)
		tag, err := exec.Exec(ctx, sessions, cutoff)
		if err != nil {
			return fmt.Errorf("purge sessions: %w", err)
		}
		purged = tag.RowsAffected()

		workspaces := fmt.Sprintf(`DELETE FROM %s WHERE created_at < $1`, cfg.Tables.Workspaces)
		if _, err := exec.Exec(ctx, workspaces, cutoff); err != nil {
			return fmt.Errorf("purge workspaces: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return purged, nil
}

// RunPurger calls PurgeExpired every interval until ctx is done
func RunPurger(ctx context.Context, cfg *RepositoryConfig, lifetime, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			purged, err := PurgeExpired(ctx, cfg, time.Now().Add(-lifetime))
			if err != nil {
				cfg.Logger.Error("purge expired workspaces failed", "error", err)
				continue
			}
			if purged > 0 {
				cfg.Logger.Info("purged expired workspaces", "sessions", purged)
			}
		}
	}
}
