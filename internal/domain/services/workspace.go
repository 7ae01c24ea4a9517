package services

import (
	"context"
	"time"
)

// Workspace is one client's isolated history and controller
type Workspace struct {
	ID         string
	Controller Controller
	CreatedAt  time.Time
}

// WorkspaceToken is handed to the client on creation and presented on every request
type WorkspaceToken struct {
	WorkspaceID string    `json:"workspace_id"`
	Token       string    `json:"token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// WorkspaceRegistry creates workspaces and resolves tokens back to them
type WorkspaceRegistry interface {
	// Create starts a fresh workspace and issues its token
	Create(ctx context.Context) (*WorkspaceToken, error)

	// Resolve verifies token and returns its workspace.
	// Returns *domain.UnauthorizedError for a forged, expired or evicted workspace.
	Resolve(ctx context.Context, token string) (*Workspace, error)
}
