package httputil

import (
	"context"
	"net/http"

	"vidhik/internal/domain/services"
)

// Context key type to avoid collisions
type contextKey string

const (
	workspaceKey contextKey = "workspace"
)

// WithWorkspace adds the resolved workspace to the request context
func WithWorkspace(r *http.Request, ws *services.Workspace) *http.Request {
	ctx := context.WithValue(r.Context(), workspaceKey, ws)
	return r.WithContext(ctx)
}

// GetWorkspace retrieves the workspace from context, returns nil if not found
func GetWorkspace(r *http.Request) *services.Workspace {
	ws, _ := r.Context().Value(workspaceKey).(*services.Workspace)
	return ws
}
