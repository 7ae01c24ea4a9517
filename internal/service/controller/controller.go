package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"vidhik/internal/config"
	"vidhik/internal/domain"
	"vidhik/internal/domain/models"
	"vidhik/internal/domain/repositories"
	"vidhik/internal/domain/services"
	"vidhik/internal/service/history"
	"vidhik/internal/service/ingest"
)

// controller implements services.Controller for one workspace.
//
// mu guards mode, active and inflight only; it is never held across a
// Gateway or store call.
type controller struct {
	store   repositories.HistoryStore
	gateway services.Gateway
	logger  *slog.Logger

	mu       sync.Mutex
	mode     models.Mode
	active   *int64
	inflight map[int64]struct{}
}

// NewController creates a controller starting in chat mode with nothing selected
func NewController(
	store repositories.HistoryStore,
	gateway services.Gateway,
	logger *slog.Logger,
) services.Controller {
	return &controller{
		store:    store,
		gateway:  gateway,
		logger:   logger,
		mode:     models.ModeChat,
		inflight: make(map[int64]struct{}),
	}
}

// SelectDocument starts a fresh, unanalyzed chat session for doc and makes it active
func (c *controller) SelectDocument(ctx context.Context, doc models.Document) (*models.ChatSession, error) {
	if err := ingest.Validate(doc); err != nil {
		return nil, err
	}

	id, err := c.store.Create(ctx, models.NewChatSession(doc))
	if err != nil {
		return nil, fmt.Errorf("create chat session: %w", err)
	}

	c.mu.Lock()
	c.mode = models.ModeChat
	c.active = &id
	c.mu.Unlock()

	c.logger.Info("document selected", "session_id", id, "document", doc.Name)
	return c.getChat(ctx, id)
}

// RequestAnalysis demystifies the session's document. The analysis is applied
// at most once; a failed call leaves the session untouched.
func (c *controller) RequestAnalysis(ctx context.Context, sessionID int64) (*models.ChatSession, error) {
	chat, err := c.getChat(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if chat.Analysis != nil {
		return nil, domain.NewConflict("session %d has already been analyzed", sessionID)
	}

	release, err := c.acquire(sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	// a call that finished between the read above and acquire has already applied
	chat, err = c.getChat(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if chat.Analysis != nil {
		return nil, domain.NewConflict("session %d has already been analyzed", sessionID)
	}

	text, err := ingest.Text(chat.Document)
	if err != nil {
		return nil, err
	}

	analysis, err := c.gateway.Analyze(ctx, text)
	if err != nil {
		c.logger.Warn("analysis failed", "session_id", sessionID, "error", err)
		return nil, err
	}

	updated, err := c.store.Update(ctx, sessionID, repositories.SessionPatch{Analysis: analysis})
	if err != nil {
		return nil, c.discard(sessionID, "analysis", err)
	}

	c.logger.Info("analysis applied", "session_id", sessionID, "risks", len(analysis.Risks))
	return updated.(*models.ChatSession), nil
}

// AskQuestion appends the user's question immediately, then the assistant's
// answer on success. A failed call keeps the question and appends nothing else.
func (c *controller) AskQuestion(ctx context.Context, sessionID int64, question string) (*models.ChatSession, error) {
	question = strings.TrimSpace(question)
	err := validation.Validate(question,
		validation.Required.Error("question is required"),
		validation.RuneLength(1, config.MaxQuestionLength),
	)
	if err != nil {
		return nil, domain.NewValidation("%v", err)
	}

	chat, err := c.getChat(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	release, err := c.acquire(sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	text, err := ingest.Text(chat.Document)
	if err != nil {
		return nil, err
	}

	_, err = c.store.Update(ctx, sessionID, repositories.SessionPatch{
		AppendMessages: []models.Message{{Role: models.RoleUser, Text: question}},
	})
	if err != nil {
		return nil, c.discard(sessionID, "question", err)
	}

	answer, err := c.gateway.Answer(ctx, text, question, chat.Analysis)
	if err != nil {
		c.logger.Warn("answer failed", "session_id", sessionID, "error", err)
		return nil, err
	}

	updated, err := c.store.Update(ctx, sessionID, repositories.SessionPatch{
		AppendMessages: []models.Message{{Role: models.RoleAssistant, Text: answer}},
	})
	if err != nil {
		return nil, c.discard(sessionID, "answer", err)
	}

	return updated.(*models.ChatSession), nil
}

// Compare diffs docA against docB. A session is created only on success.
func (c *controller) Compare(ctx context.Context, docA, docB models.Document) (*models.CompareSession, error) {
	if err := ingest.Validate(docA); err != nil {
		return nil, domain.NewValidation("document A: %v", err)
	}
	if err := ingest.Validate(docB); err != nil {
		return nil, domain.NewValidation("document B: %v", err)
	}

	textA, err := ingest.Text(docA)
	if err != nil {
		return nil, err
	}
	textB, err := ingest.Text(docB)
	if err != nil {
		return nil, err
	}

	comparison, err := c.gateway.Compare(ctx, textA, textB)
	if err != nil {
		c.logger.Warn("comparison failed", "document_a", docA.Name, "document_b", docB.Name, "error", err)
		return nil, err
	}

	id, err := c.store.Create(ctx, models.NewCompareSession(docA, docB, comparison))
	if err != nil {
		return nil, fmt.Errorf("create compare session: %w", err)
	}

	c.mu.Lock()
	c.mode = models.ModeCompare
	c.active = &id
	c.mu.Unlock()

	c.logger.Info("comparison created", "session_id", id,
		"new_clauses", len(comparison.NewClauses),
		"changed_terms", len(comparison.ChangedTerms),
		"deleted_clauses", len(comparison.DeletedClauses),
	)

	session, err := c.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return session.(*models.CompareSession), nil
}

// SelectSession activates a session and switches to the mode that displays it
func (c *controller) SelectSession(ctx context.Context, sessionID int64) (models.Session, error) {
	session, err := c.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.mode = models.ModeForKind(session.Kind())
	c.active = &sessionID
	c.mu.Unlock()

	return session, nil
}

// NewSession clears the selection and enters mode; the session itself is
// created lazily by the first document action.
func (c *controller) NewSession(_ context.Context, mode models.Mode) (models.ControllerState, error) {
	if !mode.Valid() {
		return models.ControllerState{}, domain.NewValidation("unknown mode %q", mode)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = mode
	c.active = nil
	return c.snapshot(), nil
}

// SwitchMode changes the view. Modes that cannot display a session drop the selection.
func (c *controller) SwitchMode(_ context.Context, mode models.Mode) (models.ControllerState, error) {
	if !mode.Valid() {
		return models.ControllerState{}, domain.NewValidation("unknown mode %q", mode)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = mode
	if !mode.HoldsSession() {
		c.active = nil
	}
	return c.snapshot(), nil
}

// ClearHistory empties the store and drops the selection; mode is unchanged
func (c *controller) ClearHistory(ctx context.Context) error {
	if err := c.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}

	c.mu.Lock()
	c.active = nil
	c.mu.Unlock()

	c.logger.Info("history cleared")
	return nil
}

func (c *controller) State() models.ControllerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *controller) GetSession(ctx context.Context, sessionID int64) (models.Session, error) {
	return c.store.Get(ctx, sessionID)
}

// ActiveSession returns the selected session, or nil when nothing is selected
func (c *controller) ActiveSession(ctx context.Context) (models.Session, error) {
	c.mu.Lock()
	active := c.active
	c.mu.Unlock()

	if active == nil {
		return nil, nil
	}

	session, err := c.store.Get(ctx, *active)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return session, err
}

// History lists sessions newest-first, filtered by document name
func (c *controller) History(ctx context.Context, query string) ([]models.HistoryItem, error) {
	if err := validateQuery(query); err != nil {
		return nil, err
	}

	sessions, err := c.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	c.mu.Lock()
	active := c.active
	c.mu.Unlock()

	return history.Items(history.FilterSessions(sessions, query), active), nil
}

// Documents returns the de-duplicated document index, filtered by name
func (c *controller) Documents(ctx context.Context, query string) ([]models.IndexEntry, error) {
	if err := validateQuery(query); err != nil {
		return nil, err
	}

	sessions, err := c.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return history.FilterIndex(history.DeriveIndex(sessions), query), nil
}

// OpenDocument starts a new chat session for a document picked from the index
func (c *controller) OpenDocument(ctx context.Context, fingerprint string) (*models.ChatSession, error) {
	sessions, err := c.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	entry, ok := history.FindByFingerprint(history.DeriveIndex(sessions), fingerprint)
	if !ok {
		return nil, &domain.NotFoundError{Resource: "document", ID: fingerprint}
	}
	return c.SelectDocument(ctx, entry.Document)
}

func validateQuery(query string) error {
	err := validation.Validate(query, validation.RuneLength(0, config.MaxHistorySearchLength))
	if err != nil {
		return domain.NewValidation("search query: %v", err)
	}
	return nil
}

func (c *controller) getChat(ctx context.Context, sessionID int64) (*models.ChatSession, error) {
	session, err := c.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	chat, ok := session.(*models.ChatSession)
	if !ok {
		return nil, domain.NewValidation("session %d is a %s session, not a chat session", sessionID, session.Kind())
	}
	return chat, nil
}

// acquire marks sessionID as having a Gateway call in flight.
// The returned func must be called to release it.
func (c *controller) acquire(sessionID int64) (func(), error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, busy := c.inflight[sessionID]; busy {
		return nil, domain.NewConflict("session %d already has a request in progress", sessionID)
	}
	c.inflight[sessionID] = struct{}{}

	return func() {
		c.mu.Lock()
		delete(c.inflight, sessionID)
		c.mu.Unlock()
	}, nil
}

// discard logs a result that could not be applied. A missing session means
// history was cleared while the call was running.
func (c *controller) discard(sessionID int64, what string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		c.logger.Info("discarding late result", "session_id", sessionID, "result", what)
		return err
	}
	c.logger.Error("failed to apply result", "session_id", sessionID, "result", what, "error", err)
	return err
}

// snapshot must be called with mu held
func (c *controller) snapshot() models.ControllerState {
	state := models.ControllerState{Mode: c.mode}
	if c.active != nil {
		id := *c.active
		state.ActiveSessionID = &id
	}
	return state
}
