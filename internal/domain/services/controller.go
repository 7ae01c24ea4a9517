package services

import (
	"context"

	"vidhik/internal/domain/models"
)

// Controller is the application state machine for one workspace: it owns the
// mode and active selection, dispatches actions to the Gateway and applies
// results to the History Store.
type Controller interface {
	SelectDocument(ctx context.Context, doc models.Document) (*models.ChatSession, error)
	RequestAnalysis(ctx context.Context, sessionID int64) (*models.ChatSession, error)
	AskQuestion(ctx context.Context, sessionID int64, question string) (*models.ChatSession, error)
	Compare(ctx context.Context, docA, docB models.Document) (*models.CompareSession, error)
	SelectSession(ctx context.Context, sessionID int64) (models.Session, error)
	NewSession(ctx context.Context, mode models.Mode) (models.ControllerState, error)
	SwitchMode(ctx context.Context, mode models.Mode) (models.ControllerState, error)
	ClearHistory(ctx context.Context) error

	// Read side
	State() models.ControllerState
	GetSession(ctx context.Context, sessionID int64) (models.Session, error)
	ActiveSession(ctx context.Context) (models.Session, error)
	History(ctx context.Context, query string) ([]models.HistoryItem, error)
	Documents(ctx context.Context, query string) ([]models.IndexEntry, error)
	OpenDocument(ctx context.Context, fingerprint string) (*models.ChatSession, error)
}
