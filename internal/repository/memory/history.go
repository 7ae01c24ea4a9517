package memory

import (
	"context"
	"sync"
	"time"

	"vidhik/internal/domain"
	"vidhik/internal/domain/models"
	"vidhik/internal/domain/repositories"
)

// HistoryStore is an in-memory, newest-first HistoryStore
type HistoryStore struct {
	mu       sync.RWMutex
	sessions []models.Session // newest first
	lastID   int64
	now      func() time.Time
}

// NewHistoryStore creates an empty store
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{now: time.Now}
}

// Create assigns a fresh id and prepends the session
func (s *HistoryStore) Create(_ context.Context, session models.Session) (int64, error) {
	if session == nil {
		return 0, domain.NewValidation("session is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := models.NextSessionID(s.lastID, s.now())
	s.lastID = id
	s.sessions = append([]models.Session{session.WithID(id)}, s.sessions...)
	return id, nil
}

// Update applies patch to the session with the given id
func (s *HistoryStore) Update(_ context.Context, id int64, patch repositories.SessionPatch) (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, domain.NewNotFound("session", id)
	}

	updated, err := patch.Apply(s.sessions[i])
	if err != nil {
		return nil, err
	}
	s.sessions[i] = updated
	return updated.Clone(), nil
}

// Get returns a copy of the session with the given id
func (s *HistoryStore) Get(_ context.Context, id int64) (models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, domain.NewNotFound("session", id)
	}
	return s.sessions[i].Clone(), nil
}

// List returns copies of all sessions, newest first
func (s *HistoryStore) List(_ context.Context) ([]models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Session, len(s.sessions))
	for i, session := range s.sessions {
		out[i] = session.Clone()
	}
	return out, nil
}

// Clear drops every session. lastID is kept so ids are never reused.
func (s *HistoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = nil
	return nil
}

// Len returns the number of stored sessions
func (s *HistoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *HistoryStore) indexOf(id int64) int {
	for i, session := range s.sessions {
		if session.SessionID() == id {
			return i
		}
	}
	return -1
}
