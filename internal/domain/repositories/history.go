package repositories

import (
	"context"

	"vidhik/internal/domain"
	"vidhik/internal/domain/models"
)

// HistoryStore is the ordered collection of sessions for one workspace.
// Implementations own their sessions exclusively: values passed in are copied,
// values returned are copies.
type HistoryStore interface {
	// Create assigns a fresh unique id, prepends the session and returns the id
	Create(ctx context.Context, session models.Session) (int64, error)

	// Update applies a partial mutation to the session with the given id.
	// Returns *domain.NotFoundError if the id is absent.
	Update(ctx context.Context, id int64, patch SessionPatch) (models.Session, error)

	// Get returns the session with the given id or *domain.NotFoundError
	Get(ctx context.Context, id int64) (models.Session, error)

	// List returns all sessions newest-first
	List(ctx context.Context) ([]models.Session, error)

	// Clear removes every session
	Clear(ctx context.Context) error
}

// SessionPatch is a partial mutation of a session.
// Analysis and Comparison transition once from absent to present; messages are append-only.
type SessionPatch struct {
	Analysis       *models.Analysis
	Comparison     *models.Comparison
	AppendMessages []models.Message
}

// Apply returns a patched copy of s, leaving s untouched.
// The patch is all-or-nothing: on error nothing is applied.
func (p SessionPatch) Apply(s models.Session) (models.Session, error) {
	switch cur := s.Clone().(type) {
	case *models.ChatSession:
		if p.Comparison != nil {
			return nil, domain.NewValidation("session %d is a chat session and cannot hold a comparison", cur.ID)
		}
		if p.Analysis != nil {
			if cur.Analysis != nil {
				return nil, domain.NewConflict("session %d has already been analyzed", cur.ID)
			}
			cur.Analysis = p.Analysis.Clone()
		}
		for _, m := range p.AppendMessages {
			if m.Role != models.RoleUser && m.Role != models.RoleAssistant {
				return nil, domain.NewValidation("invalid message role %q", m.Role)
			}
		}
		cur.Messages = append(cur.Messages, p.AppendMessages...)
		return cur, nil

	case *models.CompareSession:
		if p.Analysis != nil || len(p.AppendMessages) > 0 {
			return nil, domain.NewValidation("session %d is a compare session and cannot hold an analysis or messages", cur.ID)
		}
		if p.Comparison != nil {
			if cur.Comparison != nil {
				return nil, domain.NewConflict("session %d already has a comparison", cur.ID)
			}
			cur.Comparison = p.Comparison.Clone()
		}
		return cur, nil

	default:
		return nil, domain.NewValidation("unsupported session type %T", s)
	}
}
