package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"vidhik/internal/domain"
	"vidhik/internal/domain/models"
	"vidhik/internal/domain/repositories"
)

// HistoryStore keeps one workspace's sessions in PostgreSQL, one JSONB row per session
type HistoryStore struct {
	pool        *pgxpool.Pool
	tables      *TableNames
	tx          repositories.TransactionManager
	logger      *slog.Logger
	workspaceID string
	now         func() time.Time
}

// NewHistoryStore creates a history store scoped to workspaceID
func NewHistoryStore(cfg *RepositoryConfig, workspaceID string) *HistoryStore {
	return &HistoryStore{
		pool:        cfg.Pool,
		tables:      cfg.Tables,
		tx:          NewTransactionManager(cfg.Pool, cfg.Logger),
		logger:      cfg.Logger.With("workspace_id", workspaceID),
		workspaceID: workspaceID,
		now:         time.Now,
	}
}

var _ repositories.HistoryStore = (*HistoryStore)(nil)

// Create allocates the next id from the workspace counter and inserts the session
func (s *HistoryStore) Create(ctx context.Context, session models.Session) (int64, error) {
	if session == nil {
		return 0, domain.NewValidation("session is required")
	}

	var id int64
	err := s.tx.ExecTx(ctx, func(ctx context.Context) error {
		next, err := s.nextID(ctx)
		if err != nil {
			return err
		}

		stored := session.WithID(next)
		body, err := json.Marshal(stored)
		if err != nil {
			return fmt.Errorf("encode session: %w", err)
		}

		query := fmt.Sprintf(`
			INSERT INTO %s (workspace_id, id, kind, body)
			VALUES ($1, $2, $3, $4)
		`, s.tables.Sessions)
		if _, err := GetExecutor(ctx, s.pool).Exec(ctx, query, s.workspaceID, next, string(stored.Kind()), body); err != nil {
			if IsPgDuplicateError(err) {
				return domain.NewConflict("session %d already exists", next)
			}
			return fmt.Errorf("insert session: %w", err)
		}
		id = next
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Debug("session created", "session_id", id, "kind", session.Kind())
	return id, nil
}

// nextID locks the workspace counter row and advances it
func (s *HistoryStore) nextID(ctx context.Context) (int64, error) {
	exec := GetExecutor(ctx, s.pool)

	upsert := fmt.Sprintf(`
		INSERT INTO %s (workspace_id) VALUES ($1)
		ON CONFLICT (workspace_id) DO NOTHING
	`, s.tables.Workspaces)
	if _, err := exec.Exec(ctx, upsert, s.workspaceID); err != nil {
		return 0, fmt.Errorf("ensure workspace counter: %w", err)
	}

	var last int64
	lock := fmt.Sprintf(`SELECT last_session_id FROM %s WHERE workspace_id = $1 FOR UPDATE`, s.tables.Workspaces)
	if err := exec.QueryRow(ctx, lock, s.workspaceID).Scan(&last); err != nil {
		return 0, fmt.Errorf("lock workspace counter: %w", err)
	}

	next := models.NextSessionID(last, s.now())
	advance := fmt.Sprintf(`UPDATE %s SET last_session_id = $2 WHERE workspace_id = $1`, s.tables.Workspaces)
	if _, err := exec.Exec(ctx, advance, s.workspaceID, next); err != nil {
		return 0, fmt.Errorf("advance workspace counter: %w", err)
	}
	return next, nil
}

// Update applies patch under a row lock so concurrent appends are serialized
func (s *HistoryStore) Update(ctx context.Context, id int64, patch repositories.SessionPatch) (models.Session, error) {
	var updated models.Session
	err := s.tx.ExecTx(ctx, func(ctx context.Context) error {
		exec := GetExecutor(ctx, s.pool)

		query := fmt.Sprintf(`
			SELECT body FROM %s
			WHERE workspace_id = $1 AND id = $2
			FOR UPDATE
		`, s.tables.Sessions)
		var body []byte
		if err := exec.QueryRow(ctx, query, s.workspaceID, id).Scan(&body); err != nil {
			if IsPgNoRowsError(err) {
				return domain.NewNotFound("session", id)
			}
			return fmt.Errorf("load session: %w", err)
		}

		current, err := models.UnmarshalSession(body)
		if err != nil {
			return err
		}
		next, err := patch.Apply(current)
		if err != nil {
			return err
		}

		encoded, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("encode session: %w", err)
		}
		write := fmt.Sprintf(`
			UPDATE %s SET body = $3, updated_at = now()
			WHERE workspace_id = $1 AND id = $2
		`, s.tables.Sessions)
		if _, err := exec.Exec(ctx, write, s.workspaceID, id, encoded); err != nil {
			return fmt.Errorf("update session: %w", err)
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Get loads a single session
func (s *HistoryStore) Get(ctx context.Context, id int64) (models.Session, error) {
	query := fmt.Sprintf(`SELECT body FROM %s WHERE workspace_id = $1 AND id = $2`, s.tables.Sessions)

	var body []byte
	if err := GetExecutor(ctx, s.pool).QueryRow(ctx, query, s.workspaceID, id).Scan(&body); err != nil {
		if IsPgNoRowsError(err) {
			return nil, domain.NewNotFound("session", id)
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return models.UnmarshalSession(body)
}

// List returns every session in the workspace, newest first
func (s *HistoryStore) List(ctx context.Context) ([]models.Session, error) {
	query := fmt.Sprintf(`
		SELECT body FROM %s
		WHERE workspace_id = $1
		ORDER BY id DESC
	`, s.tables.Sessions)

	rows, err := GetExecutor(ctx, s.pool).Query(ctx, query, s.workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]models.Session, 0)
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		session, err := models.UnmarshalSession(body)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// Clear deletes the workspace's sessions. The counter row stays so ids are not reused.
func (s *HistoryStore) Clear(ctx context.Context) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE workspace_id = $1`, s.tables.Sessions)

	tag, err := GetExecutor(ctx, s.pool).Exec(ctx, query, s.workspaceID)
	if err != nil {
		return fmt.Errorf("clear sessions: %w", err)
	}
	s.logger.Info("history cleared", "deleted", tag.RowsAffected())
	return nil
}
