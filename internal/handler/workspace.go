package handler

import (
	"log/slog"
	"net/http"

	"vidhik/internal/domain/services"
	"vidhik/internal/httputil"
)

// WorkspaceHandler issues workspaces
type WorkspaceHandler struct {
	registry services.WorkspaceRegistry
	logger   *slog.Logger
}

// NewWorkspaceHandler creates a new workspace handler
func NewWorkspaceHandler(registry services.WorkspaceRegistry, logger *slog.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{
		registry: registry,
		logger:   logger,
	}
}

// CreateWorkspace starts an empty workspace and returns its token
// POST /api/workspaces
func (h *WorkspaceHandler) CreateWorkspace(w http.ResponseWriter, r *http.Request) {
	token, err := h.registry.Create(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, token)
}
